package models

import (
	"time"
)

// InpatientAdmission một đợt nhập viện nội trú, tạo từ chuyển đổi phiếu cấp cứu
// hoặc nhập viện trực tiếp. Mỗi đợt tham chiếu đúng một lần phân công giường
// đang mở; mỗi bệnh nhân chỉ có một đợt nhập viện đang hoạt động.
type InpatientAdmission struct {
	ID              uint     `json:"id" gorm:"primaryKey"`
	AdmissionNumber string   `json:"admissionNumber" gorm:"uniqueIndex;size:20"` // ADM-YYYYMMDD-NNNN
	PatientID       uint     `json:"patientId" gorm:"index"`
	Patient         *Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	RegistrationID  *uint    `json:"registrationId,omitempty"` // phiếu cấp cứu nguồn, nếu có

	Status int `json:"status" gorm:"index"` // xem constants.AdmissionStatus*

	// Snapshot phòng/giường hiện tại; lịch sử đầy đủ nằm ở BedAssignment
	CurrentRoomID uint    `json:"currentRoomId"`
	CurrentBedID  uint    `json:"currentBedId"`
	CurrentRate   float64 `json:"currentRate"`

	AdmittingDiagnosis string  `json:"admittingDiagnosis"`
	AttendingDoctorID  *uint   `json:"attendingDoctorId,omitempty"`
	PaymentMethod      string  `json:"paymentMethod"`
	RequiredDeposit    float64 `json:"requiredDeposit"` // giá phòng x số ngày đặt cọc
	DepositDays        int     `json:"depositDays"`

	// Đánh dấu đã có hoạt động lâm sàng, sau đó không được hủy đợt nhập viện
	ClinicalActivity bool `json:"clinicalActivity"`

	AdmittedAt   time.Time  `json:"admittedAt"`
	DischargedAt *time.Time `json:"dischargedAt,omitempty"`
	LengthOfStay *int       `json:"lengthOfStay,omitempty"` // số ngày tròn

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Assignments []BedAssignment `json:"assignments,omitempty" gorm:"foreignKey:AdmissionID"`
}

// ComputeDeposit tính tiền cọc theo giá phòng mỗi ngày và số ngày cọc
func ComputeDeposit(dailyRate float64, depositDays int) float64 {
	if depositDays <= 0 {
		return 0
	}
	return dailyRate * float64(depositDays)
}

// WholeDaysBetween số ngày tròn giữa hai thời điểm, tối thiểu 1 cho đợt đã kết thúc
func WholeDaysBetween(from, to time.Time) int {
	days := int(to.Sub(from) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}
