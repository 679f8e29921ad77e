package models

import (
	"fmt"
	"time"

	"hospital/constants"
)

type Room struct {
	RoomId        uint      `json:"id" gorm:"primaryKey"`
	RoomName      string    `json:"roomName"`
	Class         int       `json:"class" gorm:"index"` // hạng phòng, xem constants.RoomClass*
	TotalBeds     int       `json:"totalBeds"`
	AvailableBeds int       `json:"availableBeds"` // luôn bằng số giường trống không bảo trì của phòng
	BasePrice     float64   `json:"basePrice"`     // giá cơ bản mỗi ngày
	Active        bool      `json:"active" gorm:"default:true"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Beds          []Bed     `json:"beds,omitempty" gorm:"foreignKey:RoomID"`
}

// RoomClassName trả về tên hạng phòng
func RoomClassName(class int) string {
	switch class {
	case constants.RoomClassEconomy:
		return "Phòng thường"
	case constants.RoomClassStandard:
		return "Phòng tiêu chuẩn"
	case constants.RoomClassDeluxe:
		return "Phòng cao cấp"
	case constants.RoomClassVIP:
		return "Phòng VIP"
	case constants.RoomClassICU:
		return "Phòng ICU"
	default:
		return "Không xác định"
	}
}

func (r *Room) ValidateClass() error {
	if r.Class < constants.RoomClassEconomy || r.Class > constants.RoomClassICU {
		return fmt.Errorf("invalid room class: %d, must be between %d and %d",
			r.Class, constants.RoomClassEconomy, constants.RoomClassICU)
	}
	return nil
}

// CountFreeBeds đếm số giường trống không bảo trì trong danh sách giường của phòng.
// Giá trị này phải luôn bằng AvailableBeds, lệch là vi phạm bất biến.
func (r *Room) CountFreeBeds() int {
	n := 0
	for i := range r.Beds {
		if r.Beds[i].Status == constants.BedStatusFree {
			n++
		}
	}
	return n
}

// AssignmentTypeFor so sánh hạng phòng cũ và mới để gắn nhãn lần phân công giường
func AssignmentTypeFor(fromClass, toClass int) int {
	switch {
	case toClass > fromClass:
		return constants.AssignmentUpgrade
	case toClass < fromClass:
		return constants.AssignmentDowngrade
	default:
		return constants.AssignmentTransfer
	}
}
