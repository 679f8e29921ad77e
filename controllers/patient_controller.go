package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"hospital/dto"
	"hospital/models"
	"hospital/repository"
	"hospital/response"
	"hospital/services"
	"hospital/validator"
)

type PatientController struct {
	store  repository.Store
	lookup *services.PatientLookupService
}

func NewPatientController(store repository.Store, lookup *services.PatientLookupService) *PatientController {
	return &PatientController{store: store, lookup: lookup}
}

// CreatePatient tạo hồ sơ bệnh nhân trong danh bạ
func (ctl *PatientController) CreatePatient(c *gin.Context) {
	var req dto.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu bệnh nhân không hợp lệ")
		return
	}

	p := &models.Patient{
		FullName:    req.FullName,
		Gender:      req.Gender,
		PhoneNumber: req.PhoneNumber,
		NationalID:  req.NationalID,
		Address:     req.Address,
		BloodType:   req.BloodType,
		Allergies:   req.Allergies,
	}
	if req.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
			response.BadRequest(c, "Ngày sinh không hợp lệ, dùng định dạng 2006-01-02")
			return
		}
		dob := req.DateOfBirth
		p.DateOfBirth = &dob
	}
	if err := validator.ValidatePatient(p); err != nil {
		response.FromError(c, err)
		return
	}
	if err := ctl.store.CreatePatient(c.Request.Context(), p); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, p)
}

// GetPatient trả về hồ sơ một bệnh nhân
func (ctl *PatientController) GetPatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := ctl.store.GetPatient(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, p)
}

// ListPatients trả về danh bạ bệnh nhân
func (ctl *PatientController) ListPatients(c *gin.Context) {
	ps, err := ctl.store.ListPatients(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, ps, len(ps))
}

// Suggest gợi ý bệnh nhân theo tên gõ vào, phục vụ xác định danh tính
func (ctl *PatientController) Suggest(c *gin.Context) {
	var req dto.PatientSuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Thiếu từ khóa tìm kiếm")
		return
	}
	candidates, err := ctl.lookup.Suggest(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithTotal(c, candidates, len(candidates))
}
