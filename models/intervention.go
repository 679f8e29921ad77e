package models

import (
	"time"

	"hospital/constants"
	"hospital/errors"
)

// EmergencyIntervention một can thiệp cấp cứu gắn với phiếu cấp cứu, chỉ ghi
// thêm, không sửa ngược. Các trường hồi sức chỉ có nghĩa với loại hồi sức.
type EmergencyIntervention struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	RegistrationID uint   `json:"registrationId" gorm:"index"`
	Type           int    `json:"type"` // xem constants.Intervention*
	PerformedBy    *uint  `json:"performedBy,omitempty"`
	Notes          string `json:"notes,omitempty"`

	OccurredAt time.Time `json:"occurredAt"`

	// Chi tiết hồi sức
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	ROSCAchieved    bool       `json:"roscAchieved"`
	ROSCAt          *time.Time `json:"roscAt,omitempty"`
	Complications   string     `json:"complications,omitempty"`
	HasComplication bool       `json:"hasComplication"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// InterventionTypeName trả về tên loại can thiệp
func InterventionTypeName(t int) string {
	switch t {
	case constants.InterventionResuscitation:
		return "Hồi sức tim phổi"
	case constants.InterventionAirway:
		return "Kiểm soát đường thở"
	case constants.InterventionVascularAccess:
		return "Lập đường truyền"
	case constants.InterventionChestTube:
		return "Dẫn lưu màng phổi"
	case constants.InterventionDefibrillation:
		return "Sốc điện"
	case constants.InterventionTransfusion:
		return "Truyền máu"
	case constants.InterventionIntubation:
		return "Đặt nội khí quản"
	case constants.InterventionBloodGas:
		return "Khí máu động mạch"
	default:
		return "Không xác định"
	}
}

// IsCriticalIntervention thuộc nhóm can thiệp nguy kịch
func IsCriticalIntervention(t int) bool {
	switch t {
	case constants.InterventionResuscitation,
		constants.InterventionDefibrillation,
		constants.InterventionIntubation,
		constants.InterventionChestTube:
		return true
	}
	return false
}

// RecordROSC ghi nhận tái lập tuần hoàn tự nhiên. Chỉ hợp lệ với can thiệp hồi sức.
func (i *EmergencyIntervention) RecordROSC(at time.Time) error {
	if i.Type != constants.InterventionResuscitation {
		return errors.NewValidationError("type",
			"chỉ can thiệp hồi sức mới ghi nhận được ROSC")
	}
	i.ROSCAchieved = true
	t := at
	i.ROSCAt = &t
	return nil
}

// AppendComplication nối thêm ghi chú biến chứng và bật cờ biến chứng
func (i *EmergencyIntervention) AppendComplication(note string) {
	if note == "" {
		return
	}
	if i.Complications != "" {
		i.Complications += "; "
	}
	i.Complications += note
	i.HasComplication = true
}

// Duration thời lượng hồi sức, chỉ tính được khi có đủ cả hai mốc
func (i *EmergencyIntervention) Duration() (time.Duration, bool) {
	if i.StartedAt == nil || i.EndedAt == nil {
		return 0, false
	}
	return i.EndedAt.Sub(*i.StartedAt), true
}
