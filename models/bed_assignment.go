package models

import "time"

// BedAssignment ghi lại một khoảng thời gian bệnh nhân nằm trên một giường cụ thể.
// Mỗi lần nhập viện chỉ có tối đa một bản ghi đang mở (ReleasedAt = null).
type BedAssignment struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AdmissionID uint       `json:"admissionId" gorm:"index"`
	RoomID      uint       `json:"roomId"`
	BedID       uint       `json:"bedId"`
	RoomClass   int        `json:"roomClass"` // snapshot hạng phòng tại thời điểm phân công
	DailyRate   float64    `json:"dailyRate"` // snapshot giá, không đổi khi phòng đổi giá về sau
	Type        int        `json:"type"`      // xem constants.Assignment*
	Reason      string     `json:"reason,omitempty"`
	AssignedAt  time.Time  `json:"assignedAt"`
	ReleasedAt  *time.Time `json:"releasedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsCurrent cho biết đây có phải lần phân công đang mở hay không
func (a *BedAssignment) IsCurrent() bool {
	return a.ReleasedAt == nil
}

// Close đóng lần phân công tại thời điểm chỉ định
func (a *BedAssignment) Close(now time.Time) {
	if a.ReleasedAt == nil {
		t := now
		a.ReleasedAt = &t
	}
}
