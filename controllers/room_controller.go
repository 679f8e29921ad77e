package controllers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hospital/dto"
	"hospital/models"
	"hospital/response"
	"hospital/services"
	"hospital/validator"
)

// Cache key cho danh sách phòng
var roomsCacheKey = "rooms:all"

type RoomController struct {
	service  *services.CapacityService
	redisCli *redis.Client
}

func NewRoomController(service *services.CapacityService, redisCli *redis.Client) *RoomController {
	return &RoomController{service: service, redisCli: redisCli}
}

// CreateRoom tạo phòng bệnh mới cùng danh sách giường
func (ctl *RoomController) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu phòng không hợp lệ")
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		response.FromError(c, err)
		return
	}

	room := &models.Room{
		RoomName:    req.RoomName,
		Class:       req.Class,
		BasePrice:   req.BasePrice,
		Description: req.Description,
	}
	for _, b := range req.Beds {
		room.Beds = append(room.Beds, models.Bed{
			BedName:       b.BedName,
			NearWindow:    b.NearWindow,
			HasMonitor:    b.HasMonitor,
			HasVentilator: b.HasVentilator,
			HasOxygen:     b.HasOxygen,
			HasSuction:    b.HasSuction,
		})
	}
	if err := validator.ValidateRoomInput(room); err != nil {
		response.FromError(c, err)
		return
	}
	if err := ctl.service.CreateRoom(c.Request.Context(), room); err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateRooms(c.Request.Context())
	response.Success(c, toRoomResponse(room, true))
}

// ListRooms trả về danh sách phòng, có cache Redis khi không lọc
func (ctl *RoomController) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()

	var class *int
	if v := c.Query("class"); v != "" {
		cl, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "class không hợp lệ")
			return
		}
		class = &cl
	}
	onlyAvailable := c.Query("available") == "true"

	cacheable := class == nil && !onlyAvailable
	if cacheable && ctl.redisCli != nil {
		var cached []models.Room
		if err := services.GetFromRedis(ctx, ctl.redisCli, roomsCacheKey, &cached); err == nil && len(cached) > 0 {
			response.SuccessWithTotal(c, toRoomResponses(cached), len(cached))
			return
		}
	}

	rooms, err := ctl.service.ListRooms(ctx, class, onlyAvailable)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if cacheable && ctl.redisCli != nil {
		if err := services.SetToRedis(ctx, ctl.redisCli, roomsCacheKey, rooms, 5*time.Minute); err != nil {
			log.Printf("Lỗi khi lưu danh sách phòng vào Redis: %v", err)
		}
	}
	response.SuccessWithTotal(c, toRoomResponses(rooms), len(rooms))
}

// GetRoom trả về chi tiết một phòng kèm giường
func (ctl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := ctl.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toRoomResponse(room, true))
}

// SetBedMaintenance đưa giường vào hoặc ra bảo trì
func (ctl *RoomController) SetBedMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.BedMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu bảo trì không hợp lệ")
		return
	}
	if err := ctl.service.SetBedMaintenance(c.Request.Context(), id, req.Maintenance); err != nil {
		response.FromError(c, err)
		return
	}
	ctl.invalidateRooms(c.Request.Context())
	response.Success(c, nil)
}

func (ctl *RoomController) invalidateRooms(ctx context.Context) {
	if ctl.redisCli == nil {
		return
	}
	if err := services.DeleteFromRedis(ctx, ctl.redisCli, roomsCacheKey); err != nil {
		log.Printf("Lỗi khi xóa cache danh sách phòng: %v", err)
	}
}

func toRoomResponse(room *models.Room, withBeds bool) dto.RoomResponse {
	out := dto.RoomResponse{
		RoomId:        room.RoomId,
		RoomName:      room.RoomName,
		Class:         room.Class,
		ClassName:     models.RoomClassName(room.Class),
		TotalBeds:     room.TotalBeds,
		AvailableBeds: room.AvailableBeds,
		BasePrice:     room.BasePrice,
		Active:        room.Active,
		Description:   room.Description,
	}
	if withBeds {
		for i := range room.Beds {
			b := &room.Beds[i]
			out.Beds = append(out.Beds, dto.BedResponse{
				BedId:         b.BedId,
				BedName:       b.BedName,
				Status:        b.Status,
				StatusName:    models.BedStatusName(b.Status),
				NearWindow:    b.NearWindow,
				HasMonitor:    b.HasMonitor,
				HasVentilator: b.HasVentilator,
				HasOxygen:     b.HasOxygen,
				HasSuction:    b.HasSuction,
				PatientID:     b.PatientID,
				AdmissionID:   b.AdmissionID,
				OccupiedSince: b.OccupiedSince,
			})
		}
	}
	return out
}

func toRoomResponses(rooms []models.Room) []dto.RoomResponse {
	out := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i], false))
	}
	return out
}
