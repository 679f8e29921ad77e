package models

import (
	"time"
)

// EmergencyRegistration là một lượt khám cấp cứu, từ lúc đăng ký đến khi rời khoa.
// Bệnh nhân chưa xác định danh tính được theo dõi bằng mã tạm UnknownCode cho
// đến khi được liên kết với hồ sơ bệnh nhân thật (một chiều, không đảo ngược).
type EmergencyRegistration struct {
	ID                 uint     `json:"id" gorm:"primaryKey"`
	RegistrationNumber string   `json:"registrationNumber" gorm:"uniqueIndex;size:20"` // ER-YYYYMMDD-NNNN
	PatientID          *uint    `json:"patientId,omitempty" gorm:"index"`
	Patient            *Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`

	// Thông tin tạm cho bệnh nhân chưa xác định danh tính
	UnknownCode      string `json:"unknownCode,omitempty" gorm:"size:20"` // UNK-YYYYMMDD-NNNN
	EstimatedName    string `json:"estimatedName,omitempty"`
	EstimatedAge     *int   `json:"estimatedAge,omitempty"`
	EstimatedGender  string `json:"estimatedGender,omitempty"`
	IdentifyingMarks string `json:"identifyingMarks,omitempty"`
	PhotoURL         string `json:"photoUrl,omitempty"`

	ChiefComplaint string `json:"chiefComplaint"`
	Status         int    `json:"status" gorm:"index"` // xem constants.RegStatus*

	// Kết quả phân loại hiện hành
	TriageLevel    *int `json:"triageLevel,omitempty"` // ESI 1..5
	TriagePriority *int `json:"triagePriority,omitempty"`
	TriageZone     *int `json:"triageZone,omitempty"`
	Critical       bool `json:"critical"`
	Isolation      bool `json:"isolation"`
	Deteriorated   bool `json:"deteriorated"`

	// Mốc thời gian và người thao tác
	RegisteredAt   time.Time  `json:"registeredAt"`
	ArrivedAt      *time.Time `json:"arrivedAt,omitempty"`
	ArrivedBy      *uint      `json:"arrivedBy,omitempty"`
	TriagedAt      *time.Time `json:"triagedAt,omitempty"`
	TriagedBy      *uint      `json:"triagedBy,omitempty"`
	TreatmentAt    *time.Time `json:"treatmentAt,omitempty"`
	TreatedBy      *uint      `json:"treatedBy,omitempty"`
	DispositionAt  *time.Time `json:"dispositionAt,omitempty"`
	DispositionBy  *uint      `json:"dispositionBy,omitempty"`
	ConvertedAt    *time.Time `json:"convertedAt,omitempty"`
	AdmissionID    *uint      `json:"admissionId,omitempty"`
	Disposition    *int       `json:"disposition,omitempty"` // xem constants.Disposition*
	DispositionNote string    `json:"dispositionNote,omitempty"`

	// Chỉ số thời gian dẫn xuất (phút)
	DoorToTriageMinutes *int `json:"doorToTriageMinutes,omitempty"`
	DoorToDoctorMinutes *int `json:"doorToDoctorMinutes,omitempty"`
	TotalEDMinutes      *int `json:"totalEdMinutes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Assessments []TriageAssessment `json:"assessments,omitempty" gorm:"foreignKey:RegistrationID"`
}

// IsIdentified cho biết danh tính bệnh nhân đã được xác định chưa
func (r *EmergencyRegistration) IsIdentified() bool {
	return r.PatientID != nil
}

// MinutesBetween tính số phút tròn giữa hai mốc thời gian
func MinutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}
