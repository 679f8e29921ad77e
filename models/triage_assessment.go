package models

import (
	"time"

	"hospital/constants"
)

// TriageAssessment một lần đánh giá phân loại; mỗi phiếu cấp cứu có thể có
// nhiều lần (phân loại lại). Level/Zone là kết quả thuật toán, RequestedLevel
// là mức điều dưỡng đề nghị và chỉ giữ lại để đối chiếu.
type TriageAssessment struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	RegistrationID uint `json:"registrationId" gorm:"index"`

	// Sinh hiệu
	SystolicBP       int     `json:"systolicBp"`
	DiastolicBP      int     `json:"diastolicBp"`
	HeartRate        int     `json:"heartRate"`
	RespiratoryRate  int     `json:"respiratoryRate"`
	OxygenSaturation int     `json:"oxygenSaturation"`
	Temperature      float64 `json:"temperature"`

	// Điểm tri giác 3 phần, tổng 3..15
	EyeScore    int `json:"eyeScore"`
	VerbalScore int `json:"verbalScore"`
	MotorScore  int `json:"motorScore"`

	PainScore  int  `json:"painScore"` // 0..10
	SeverePain bool `json:"severePain"`

	// Dấu hiệu nguy hiểm
	ChestPain            bool `json:"chestPain"`
	DifficultyBreathing  bool `json:"difficultyBreathing"`
	AlteredConsciousness bool `json:"alteredConsciousness"`
	SevereBleeding       bool `json:"severeBleeding"`
	Seizures             bool `json:"seizures"`

	IsolationRequired bool `json:"isolationRequired"`
	ResourceNeeds     int  `json:"resourceNeeds"` // số loại tài nguyên dự kiến cần

	RequestedLevel *int `json:"requestedLevel,omitempty"`
	Level          int  `json:"level"` // ESI 1..5, kết quả sau cùng
	Zone           int  `json:"zone"`  // xem constants.Zone*

	AssessedBy *uint     `json:"assessedBy,omitempty"`
	AssessedAt time.Time `json:"assessedAt"`
	Notes      string    `json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// NeuroScore tổng điểm tri giác 3 phần
func (a *TriageAssessment) NeuroScore() int {
	return a.EyeScore + a.VerbalScore + a.MotorScore
}

// HasCriticalRedFlag có ít nhất một dấu hiệu nguy hiểm tính mạng
func (a *TriageAssessment) HasCriticalRedFlag() bool {
	return a.ChestPain || a.DifficultyBreathing || a.AlteredConsciousness ||
		a.SevereBleeding || a.Seizures
}

// HasAbnormalVitals sinh hiệu nằm ngoài ngưỡng an toàn
func (a *TriageAssessment) HasAbnormalVitals() bool {
	if a.SystolicBP < 90 || a.SystolicBP > 180 {
		return true
	}
	if a.HeartRate < 50 || a.HeartRate > 120 {
		return true
	}
	if a.RespiratoryRate < 10 || a.RespiratoryRate > 30 {
		return true
	}
	if a.OxygenSaturation < 90 {
		return true
	}
	if a.Temperature < 35.5 || a.Temperature > 38.5 {
		return true
	}
	if a.NeuroScore() < 13 {
		return true
	}
	return false
}

// ZoneName trả về tên khu điều trị
func ZoneName(zone int) string {
	switch zone {
	case constants.ZoneMinor:
		return "Khu nhẹ"
	case constants.ZoneUrgent:
		return "Khu khẩn"
	case constants.ZoneUrgentHigh:
		return "Khu khẩn ưu tiên"
	case constants.ZoneCritical:
		return "Khu nguy kịch"
	case constants.ZoneResuscitation:
		return "Khu hồi sức"
	case constants.ZoneIsolation:
		return "Khu cách ly"
	default:
		return "Không xác định"
	}
}
