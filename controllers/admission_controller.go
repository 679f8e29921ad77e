package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"hospital/dto"
	"hospital/models"
	"hospital/repository"
	"hospital/response"
	"hospital/services"
	"hospital/validator"
)

type AdmissionController struct {
	service *services.AdmissionService
}

func NewAdmissionController(service *services.AdmissionService) *AdmissionController {
	return &AdmissionController{service: service}
}

// CreateAdmission tạo đợt nhập viện nội trú, trực tiếp hoặc từ phiếu cấp cứu
func (ctl *AdmissionController) CreateAdmission(c *gin.Context) {
	var req dto.CreateAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu nhập viện không hợp lệ")
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		response.FromError(c, err)
		return
	}

	adm, err := ctl.service.CreateAdmission(c.Request.Context(), services.CreateAdmissionInput{
		PatientID:          req.PatientID,
		RegistrationID:     req.RegistrationID,
		RoomClass:          req.RoomClass,
		RoomID:             req.RoomID,
		BedID:              req.BedID,
		AdmittingDiagnosis: req.AdmittingDiagnosis,
		AttendingDoctorID:  req.AttendingDoctorID,
		PaymentMethod:      req.PaymentMethod,
		DepositDays:        req.DepositDays,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toAdmissionResponse(adm))
}

// StartTreatment ghi nhận bắt đầu điều trị nội trú
func (ctl *AdmissionController) StartTreatment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	adm, err := ctl.service.StartTreatment(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toAdmissionResponse(adm))
}

// Discharge xuất viện
func (ctl *AdmissionController) Discharge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	adm, err := ctl.service.DischargePatient(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toAdmissionResponse(adm))
}

// Transfer chuyển bệnh nhân sang phòng/giường khác
func (ctl *AdmissionController) Transfer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu chuyển phòng không hợp lệ")
		return
	}
	result, err := ctl.service.TransferPatient(c.Request.Context(), id, req.ToRoomID, req.ToBedID, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{
		"closedAssignment": toAssignmentResponse(result.ClosedAssignment),
		"newAssignment":    toAssignmentResponse(result.NewAssignment),
	})
}

// Cancel hủy đợt nhập viện chưa có hoạt động lâm sàng
func (ctl *AdmissionController) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	adm, err := ctl.service.CancelAdmission(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toAdmissionResponse(adm))
}

// GetAdmission trả về chi tiết đợt nhập viện kèm lịch sử phân công giường
func (ctl *AdmissionController) GetAdmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	adm, err := ctl.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, adm)
}

// ListAdmissions truy vấn danh sách đợt nhập viện
func (ctl *AdmissionController) ListAdmissions(c *gin.Context) {
	var f repository.AdmissionFilters
	if v := c.Query("status"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "status không hợp lệ")
			return
		}
		f.Status = &status
	}
	if v := c.Query("patientId"); v != "" {
		pid, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "patientId không hợp lệ")
			return
		}
		id := uint(pid)
		f.PatientID = &id
	}
	adms, err := ctl.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.AdmissionResponse, 0, len(adms))
	for i := range adms {
		out = append(out, toAdmissionResponse(&adms[i]))
	}
	response.SuccessWithTotal(c, out, len(out))
}

// ListAssignments trả về lịch sử phân công giường của một đợt nhập viện
func (ctl *AdmissionController) ListAssignments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	as, err := ctl.service.Assignments(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.AssignmentResponse, 0, len(as))
	for i := range as {
		out = append(out, toAssignmentResponse(&as[i]))
	}
	response.SuccessWithTotal(c, out, len(out))
}

func toAdmissionResponse(adm *models.InpatientAdmission) dto.AdmissionResponse {
	return dto.AdmissionResponse{
		ID:                 adm.ID,
		AdmissionNumber:    adm.AdmissionNumber,
		PatientID:          adm.PatientID,
		RegistrationID:     adm.RegistrationID,
		Status:             adm.Status,
		StatusName:         models.AdmissionStatusName(adm.Status),
		RoomID:             adm.CurrentRoomID,
		BedID:              adm.CurrentBedID,
		DailyRate:          adm.CurrentRate,
		RequiredDeposit:    adm.RequiredDeposit,
		DepositDays:        adm.DepositDays,
		AdmittingDiagnosis: adm.AdmittingDiagnosis,
		AdmittedAt:         adm.AdmittedAt,
		DischargedAt:       adm.DischargedAt,
		LengthOfStay:       adm.LengthOfStay,
	}
}

func toAssignmentResponse(a *models.BedAssignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:         a.ID,
		RoomID:     a.RoomID,
		BedID:      a.BedID,
		RoomClass:  a.RoomClass,
		DailyRate:  a.DailyRate,
		Type:       a.Type,
		Reason:     a.Reason,
		AssignedAt: a.AssignedAt,
		ReleasedAt: a.ReleasedAt,
	}
}
