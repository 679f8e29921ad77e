package models

import (
	"fmt"
	"time"

	"hospital/constants"
	"hospital/errors"
)

type Bed struct {
	BedId         uint       `json:"id" gorm:"primaryKey"`
	RoomID        uint       `json:"roomId" gorm:"index"`
	BedName       string     `json:"bedName"`
	Status        int        `json:"status" gorm:"default:0"` // xem constants.BedStatus*
	NearWindow    bool       `json:"nearWindow"`
	HasMonitor    bool       `json:"hasMonitor"`
	HasVentilator bool       `json:"hasVentilator"`
	HasOxygen     bool       `json:"hasOxygen"`
	HasSuction    bool       `json:"hasSuction"`
	PatientID     *uint      `json:"patientId,omitempty"`
	AdmissionID   *uint      `json:"admissionId,omitempty"`
	OccupiedSince *time.Time `json:"occupiedSince,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BedStatusName trả về tên trạng thái giường
func BedStatusName(status int) string {
	switch status {
	case constants.BedStatusFree:
		return "Trống"
	case constants.BedStatusOccupied:
		return "Đang sử dụng"
	case constants.BedStatusMaintenance:
		return "Bảo trì"
	default:
		return "Không xác định"
	}
}

// Occupy gán bệnh nhân vào giường và trừ bộ đếm giường trống của phòng đúng 1.
// Từ chối nếu giường đã có người hoặc đang bảo trì; khi từ chối không ghi thay đổi nào.
func (b *Bed) Occupy(room *Room, patientID, admissionID uint, now time.Time) error {
	if b.RoomID != room.RoomId {
		return errors.NewConsistencyViolation("bed-room",
			fmt.Sprintf("giường %d không thuộc phòng %d", b.BedId, room.RoomId))
	}
	switch b.Status {
	case constants.BedStatusOccupied:
		return errors.NewStateConflictError(fmt.Sprintf("giường %d", b.BedId),
			BedStatusName(b.Status), "nhận bệnh nhân")
	case constants.BedStatusMaintenance:
		return errors.NewStateConflictError(fmt.Sprintf("giường %d", b.BedId),
			BedStatusName(b.Status), "nhận bệnh nhân")
	}
	if room.AvailableBeds <= 0 {
		return errors.NewConsistencyViolation("room-counter",
			fmt.Sprintf("phòng %d có giường trống nhưng bộ đếm bằng %d", room.RoomId, room.AvailableBeds))
	}

	b.Status = constants.BedStatusOccupied
	b.PatientID = &patientID
	b.AdmissionID = &admissionID
	t := now
	b.OccupiedSince = &t
	room.AvailableBeds--
	return nil
}

// Release trả giường về trạng thái trống và cộng bộ đếm của phòng đúng 1.
// Từ chối nếu giường đang trống.
func (b *Bed) Release(room *Room) error {
	if b.RoomID != room.RoomId {
		return errors.NewConsistencyViolation("bed-room",
			fmt.Sprintf("giường %d không thuộc phòng %d", b.BedId, room.RoomId))
	}
	if b.Status != constants.BedStatusOccupied {
		return errors.NewStateConflictError(fmt.Sprintf("giường %d", b.BedId),
			BedStatusName(b.Status), "trả giường")
	}

	b.Status = constants.BedStatusFree
	b.PatientID = nil
	b.AdmissionID = nil
	b.OccupiedSince = nil
	if room.AvailableBeds < room.TotalBeds {
		room.AvailableBeds++
	}
	return nil
}

// EnterMaintenance đưa giường trống vào bảo trì. Giường đang có người không được bảo trì.
func (b *Bed) EnterMaintenance(room *Room) error {
	if b.Status != constants.BedStatusFree {
		return errors.NewStateConflictError(fmt.Sprintf("giường %d", b.BedId),
			BedStatusName(b.Status), "bảo trì")
	}
	b.Status = constants.BedStatusMaintenance
	if room.AvailableBeds > 0 {
		room.AvailableBeds--
	}
	return nil
}

// ExitMaintenance kết thúc bảo trì, giường trở lại trống
func (b *Bed) ExitMaintenance(room *Room) error {
	if b.Status != constants.BedStatusMaintenance {
		return errors.NewStateConflictError(fmt.Sprintf("giường %d", b.BedId),
			BedStatusName(b.Status), "kết thúc bảo trì")
	}
	b.Status = constants.BedStatusFree
	if room.AvailableBeds < room.TotalBeds {
		room.AvailableBeds++
	}
	return nil
}
