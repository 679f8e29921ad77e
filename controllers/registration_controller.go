package controllers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hospital/dto"
	"hospital/middleware"
	"hospital/models"
	"hospital/repository"
	"hospital/response"
	"hospital/services"
	"hospital/validator"
)

// Cache key cho bảng theo dõi khoa cấp cứu
var edBoardCacheKey = "registrations:board"

type RegistrationController struct {
	service    *services.RegistrationService
	redisCli   *redis.Client
	cloudinary *cloudinary.Cloudinary
}

func NewRegistrationController(service *services.RegistrationService,
	redisCli *redis.Client, cld *cloudinary.Cloudinary) *RegistrationController {
	return &RegistrationController{service: service, redisCli: redisCli, cloudinary: cld}
}

// Register tiếp nhận bệnh nhân vào khoa cấp cứu
func (ctl *RegistrationController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu tiếp nhận không hợp lệ")
		return
	}

	reg, err := ctl.service.Register(c.Request.Context(), services.RegisterInput{
		PatientID:        req.PatientID,
		ChiefComplaint:   req.ChiefComplaint,
		Isolation:        req.Isolation,
		EstimatedName:    req.EstimatedName,
		EstimatedAge:     req.EstimatedAge,
		EstimatedGender:  req.EstimatedGender,
		IdentifyingMarks: req.IdentifyingMarks,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// AcknowledgeArrival ghi nhận bệnh nhân đã tới khoa
func (ctl *RegistrationController) AcknowledgeArrival(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reg, err := ctl.service.AcknowledgeArrival(c.Request.Context(), id, middleware.StaffID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// PerformTriage chạy đánh giá phân loại trên một phiếu
func (ctl *RegistrationController) PerformTriage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu đánh giá không hợp lệ")
		return
	}

	assessment := &models.TriageAssessment{
		RegistrationID:       id,
		SystolicBP:           req.SystolicBP,
		DiastolicBP:          req.DiastolicBP,
		HeartRate:            req.HeartRate,
		RespiratoryRate:      req.RespiratoryRate,
		OxygenSaturation:     req.OxygenSaturation,
		Temperature:          req.Temperature,
		EyeScore:             req.EyeScore,
		VerbalScore:          req.VerbalScore,
		MotorScore:           req.MotorScore,
		PainScore:            req.PainScore,
		SeverePain:           req.SeverePain,
		ChestPain:            req.ChestPain,
		DifficultyBreathing:  req.DifficultyBreathing,
		AlteredConsciousness: req.AlteredConsciousness,
		SevereBleeding:       req.SevereBleeding,
		Seizures:             req.Seizures,
		IsolationRequired:    req.IsolationRequired,
		ResourceNeeds:        req.ResourceNeeds,
		RequestedLevel:       req.RequestedLevel,
		Notes:                req.Notes,
	}
	if err := validator.ValidateTriageAssessment(assessment); err != nil {
		response.FromError(c, err)
		return
	}

	reg, result, err := ctl.service.PerformTriage(c.Request.Context(), id, assessment, middleware.StaffID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, dto.TriageResponse{
		RegistrationID: reg.ID,
		Level:          result.Level,
		Priority:       result.Priority,
		Zone:           result.Zone,
		ZoneName:       models.ZoneName(result.Zone),
		Color:          result.Color,
		Critical:       result.Critical,
		Deteriorated:   reg.Deteriorated,
	})
}

// StartTreatment ghi nhận bác sĩ bắt đầu điều trị
func (ctl *RegistrationController) StartTreatment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reg, err := ctl.service.StartTreatment(c.Request.Context(), id, middleware.StaffID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// WaitForResults chuyển phiếu sang chờ kết quả cận lâm sàng
func (ctl *RegistrationController) WaitForResults(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reg, err := ctl.service.WaitForResults(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// ResumeTreatment quay lại điều trị sau khi có kết quả
func (ctl *RegistrationController) ResumeTreatment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reg, err := ctl.service.ResumeTreatment(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// ResolveIdentity gắn hồ sơ bệnh nhân vào phiếu vô danh
func (ctl *RegistrationController) ResolveIdentity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ResolveIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu bệnh nhân cần gắn")
		return
	}
	reg, err := ctl.service.ResolveIdentity(c.Request.Context(), id, req.PatientID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// UploadPhoto tải ảnh nhận dạng của bệnh nhân vô danh lên Cloudinary
func (ctl *RegistrationController) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Không có file")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Lỗi khi mở file")
		return
	}
	defer src.Close()

	ctx := context.Background()
	resp, err := ctl.cloudinary.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "patients"})
	if err != nil {
		response.ServerError(c)
		return
	}

	reg, err := ctl.service.AttachPhoto(c.Request.Context(), id, resp.SecureURL)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toRegistrationResponse(reg))
}

// Discharge chốt hình thức rời khoa cấp cứu
func (ctl *RegistrationController) Discharge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.DispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu rời khoa không hợp lệ")
		return
	}
	if err := validator.ValidateDisposition(req.Disposition); err != nil {
		response.FromError(c, err)
		return
	}
	reg, err := ctl.service.Discharge(c.Request.Context(), id, req.Disposition, req.Notes, middleware.StaffID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateBoard(c.Request.Context())
	response.Success(c, toRegistrationResponse(reg))
}

// GetRegistration trả về chi tiết một phiếu cấp cứu
func (ctl *RegistrationController) GetRegistration(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reg, err := ctl.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, reg)
}

// GetBoard trả về bảng theo dõi khoa cấp cứu, có cache Redis ngắn hạn
func (ctl *RegistrationController) GetBoard(c *gin.Context) {
	ctx := c.Request.Context()
	filters, err := parseRegistrationFilters(c)
	if err != nil {
		response.BadRequest(c, "Tham số lọc không hợp lệ")
		return
	}

	// Bảng đầy đủ (không lọc) được cache; các truy vấn có lọc đi thẳng store
	cacheable := filters == (repository.RegistrationFilters{})
	if cacheable && ctl.redisCli != nil {
		var cached []models.EmergencyRegistration
		if err := services.GetFromRedis(ctx, ctl.redisCli, edBoardCacheKey, &cached); err == nil && len(cached) > 0 {
			response.SuccessWithTotal(c, toRegistrationResponses(cached), len(cached))
			return
		}
	}

	regs, err := ctl.service.List(ctx, filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if cacheable && ctl.redisCli != nil {
		if err := services.SetToRedis(ctx, ctl.redisCli, edBoardCacheKey, regs, 30*time.Second); err != nil {
			log.Printf("Lỗi khi lưu bảng theo dõi vào Redis: %v", err)
		}
	}
	response.SuccessWithTotal(c, toRegistrationResponses(regs), len(regs))
}

func (ctl *RegistrationController) invalidateBoard(ctx context.Context) {
	if ctl.redisCli == nil {
		return
	}
	if err := services.DeleteFromRedis(ctx, ctl.redisCli, edBoardCacheKey); err != nil {
		log.Printf("Lỗi khi xóa cache bảng theo dõi: %v", err)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "id không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

func parseRegistrationFilters(c *gin.Context) (repository.RegistrationFilters, error) {
	var f repository.RegistrationFilters
	if v := c.Query("status"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}
	if v := c.Query("zone"); v != "" {
		zone, err := strconv.Atoi(v)
		if err != nil {
			return f, err
		}
		f.Zone = &zone
	}
	if v := c.Query("critical"); v != "" {
		critical, err := strconv.ParseBool(v)
		if err != nil {
			return f, err
		}
		f.Critical = &critical
	}
	if v := c.Query("unidentified"); v != "" {
		u, err := strconv.ParseBool(v)
		if err != nil {
			return f, err
		}
		f.Unidentified = &u
	}
	return f, nil
}

func toRegistrationResponse(reg *models.EmergencyRegistration) dto.RegistrationResponse {
	out := dto.RegistrationResponse{
		ID:                  reg.ID,
		RegistrationNumber:  reg.RegistrationNumber,
		PatientID:           reg.PatientID,
		UnknownCode:         reg.UnknownCode,
		EstimatedName:       reg.EstimatedName,
		ChiefComplaint:      reg.ChiefComplaint,
		Status:              reg.Status,
		StatusName:          models.RegStatusName(reg.Status),
		TriageLevel:         reg.TriageLevel,
		TriageZone:          reg.TriageZone,
		Critical:            reg.Critical,
		Isolation:           reg.Isolation,
		Deteriorated:        reg.Deteriorated,
		PhotoURL:            reg.PhotoURL,
		RegisteredAt:        reg.RegisteredAt,
		ArrivedAt:           reg.ArrivedAt,
		TriagedAt:           reg.TriagedAt,
		TreatmentAt:         reg.TreatmentAt,
		DispositionAt:       reg.DispositionAt,
		Disposition:         reg.Disposition,
		DispositionNote:     reg.DispositionNote,
		AdmissionID:         reg.AdmissionID,
		DoorToTriageMinutes: reg.DoorToTriageMinutes,
		DoorToDoctorMinutes: reg.DoorToDoctorMinutes,
		TotalEDMinutes:      reg.TotalEDMinutes,
	}
	if reg.TriageZone != nil {
		out.ZoneName = models.ZoneName(*reg.TriageZone)
	}
	return out
}

func toRegistrationResponses(regs []models.EmergencyRegistration) []dto.RegistrationResponse {
	out := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationResponse(&regs[i]))
	}
	return out
}
