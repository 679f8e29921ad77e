package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"hospital/dto"
	"hospital/middleware"
	"hospital/models"
	"hospital/repository"
	"hospital/response"
	"hospital/services"
)

type InterventionController struct {
	service *services.InterventionService
}

func NewInterventionController(service *services.InterventionService) *InterventionController {
	return &InterventionController{service: service}
}

// Record ghi một can thiệp mới lên phiếu cấp cứu
func (ctl *InterventionController) Record(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RecordInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu can thiệp không hợp lệ")
		return
	}
	iv, err := ctl.service.Record(c.Request.Context(), services.RecordInput{
		RegistrationID: id,
		Type:           req.Type,
		PerformedBy:    middleware.StaffID(c),
		Notes:          req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toInterventionResponse(iv))
}

// RecordROSC ghi nhận tái lập tuần hoàn tự nhiên
func (ctl *InterventionController) RecordROSC(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	iv, err := ctl.service.RecordROSC(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toInterventionResponse(iv))
}

// EndResuscitation chốt mốc kết thúc hồi sức
func (ctl *InterventionController) EndResuscitation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	iv, err := ctl.service.EndResuscitation(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toInterventionResponse(iv))
}

// AddComplication nối thêm ghi chú biến chứng
func (ctl *InterventionController) AddComplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ComplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu nội dung biến chứng")
		return
	}
	iv, err := ctl.service.AddComplication(c.Request.Context(), id, req.Note)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toInterventionResponse(iv))
}

// ListForRegistration trả về nhật ký can thiệp của một phiếu
func (ctl *InterventionController) ListForRegistration(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var f repository.InterventionFilters
	if v := c.Query("type"); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "type không hợp lệ")
			return
		}
		f.Type = &t
	}
	f.CriticalOnly = c.Query("critical") == "true"
	f.WithComplications = c.Query("complications") == "true"

	ivs, err := ctl.service.ListForRegistration(c.Request.Context(), id, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]dto.InterventionResponse, 0, len(ivs))
	for i := range ivs {
		out = append(out, toInterventionResponse(&ivs[i]))
	}
	response.SuccessWithTotal(c, out, len(out))
}

func toInterventionResponse(iv *models.EmergencyIntervention) dto.InterventionResponse {
	out := dto.InterventionResponse{
		ID:              iv.ID,
		RegistrationID:  iv.RegistrationID,
		Type:            iv.Type,
		TypeName:        models.InterventionTypeName(iv.Type),
		Critical:        models.IsCriticalIntervention(iv.Type),
		PerformedBy:     iv.PerformedBy,
		Notes:           iv.Notes,
		OccurredAt:      iv.OccurredAt,
		StartedAt:       iv.StartedAt,
		EndedAt:         iv.EndedAt,
		ROSCAchieved:    iv.ROSCAchieved,
		ROSCAt:          iv.ROSCAt,
		Complications:   iv.Complications,
		HasComplication: iv.HasComplication,
	}
	if d, ok := iv.Duration(); ok {
		minutes := int(d.Minutes())
		out.DurationMinutes = &minutes
	}
	return out
}
