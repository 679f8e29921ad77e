package dto

import "time"

// CreateRoomRequest là DTO cho request tạo phòng bệnh
type CreateRoomRequest struct {
	RoomName    string             `json:"roomName" binding:"required"`
	Class       int                `json:"class"`
	BasePrice   float64            `json:"basePrice" validate:"gte=0"`
	Description string             `json:"description"`
	Beds        []CreateBedRequest `json:"beds" binding:"required"`
}

// CreateBedRequest là DTO cho một giường trong request tạo phòng
type CreateBedRequest struct {
	BedName       string `json:"bedName" binding:"required"`
	NearWindow    bool   `json:"nearWindow"`
	HasMonitor    bool   `json:"hasMonitor"`
	HasVentilator bool   `json:"hasVentilator"`
	HasOxygen     bool   `json:"hasOxygen"`
	HasSuction    bool   `json:"hasSuction"`
}

// RoomResponse là DTO cho response thông tin phòng
type RoomResponse struct {
	RoomId        uint          `json:"id"`
	RoomName      string        `json:"roomName"`
	Class         int           `json:"class"`
	ClassName     string        `json:"className"`
	TotalBeds     int           `json:"totalBeds"`
	AvailableBeds int           `json:"availableBeds"`
	BasePrice     float64       `json:"basePrice"`
	Active        bool          `json:"active"`
	Description   string        `json:"description,omitempty"`
	Beds          []BedResponse `json:"beds,omitempty"`
}

// BedResponse là DTO cho response thông tin giường
type BedResponse struct {
	BedId         uint       `json:"id"`
	BedName       string     `json:"bedName"`
	Status        int        `json:"status"`
	StatusName    string     `json:"statusName"`
	NearWindow    bool       `json:"nearWindow"`
	HasMonitor    bool       `json:"hasMonitor"`
	HasVentilator bool       `json:"hasVentilator"`
	HasOxygen     bool       `json:"hasOxygen"`
	HasSuction    bool       `json:"hasSuction"`
	PatientID     *uint      `json:"patientId,omitempty"`
	AdmissionID   *uint      `json:"admissionId,omitempty"`
	OccupiedSince *time.Time `json:"occupiedSince,omitempty"`
}

// BedMaintenanceRequest là DTO cho request bật/tắt bảo trì giường
type BedMaintenanceRequest struct {
	Maintenance bool `json:"maintenance"`
}
