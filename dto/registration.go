package dto

import "time"

// RegisterRequest là DTO cho request tiếp nhận cấp cứu
type RegisterRequest struct {
	PatientID      *uint  `json:"patientId"`
	ChiefComplaint string `json:"chiefComplaint" binding:"required"`
	Isolation      bool   `json:"isolation"`

	// Thông tin ước lượng khi bệnh nhân vô danh
	EstimatedName    string `json:"estimatedName,omitempty"`
	EstimatedAge     *int   `json:"estimatedAge,omitempty"`
	EstimatedGender  string `json:"estimatedGender,omitempty"`
	IdentifyingMarks string `json:"identifyingMarks,omitempty"`
}

// RegistrationResponse là DTO cho response phiếu cấp cứu
type RegistrationResponse struct {
	ID                 uint       `json:"id"`
	RegistrationNumber string     `json:"registrationNumber"`
	PatientID          *uint      `json:"patientId,omitempty"`
	UnknownCode        string     `json:"unknownCode,omitempty"`
	EstimatedName      string     `json:"estimatedName,omitempty"`
	ChiefComplaint     string     `json:"chiefComplaint"`
	Status             int        `json:"status"`
	StatusName         string     `json:"statusName"`
	TriageLevel        *int       `json:"triageLevel,omitempty"`
	TriageZone         *int       `json:"triageZone,omitempty"`
	ZoneName           string     `json:"zoneName,omitempty"`
	Critical           bool       `json:"critical"`
	Isolation          bool       `json:"isolation"`
	Deteriorated       bool       `json:"deteriorated"`
	PhotoURL           string     `json:"photoUrl,omitempty"`
	RegisteredAt       time.Time  `json:"registeredAt"`
	ArrivedAt          *time.Time `json:"arrivedAt,omitempty"`
	TriagedAt          *time.Time `json:"triagedAt,omitempty"`
	TreatmentAt        *time.Time `json:"treatmentAt,omitempty"`
	DispositionAt      *time.Time `json:"dispositionAt,omitempty"`
	Disposition        *int       `json:"disposition,omitempty"`
	DispositionNote    string     `json:"dispositionNote,omitempty"`
	AdmissionID        *uint      `json:"admissionId,omitempty"`

	DoorToTriageMinutes *int `json:"doorToTriageMinutes,omitempty"`
	DoorToDoctorMinutes *int `json:"doorToDoctorMinutes,omitempty"`
	TotalEDMinutes      *int `json:"totalEdMinutes,omitempty"`
}

// TriageRequest là DTO cho request đánh giá phân loại
type TriageRequest struct {
	SystolicBP       int     `json:"systolicBp"`
	DiastolicBP      int     `json:"diastolicBp"`
	HeartRate        int     `json:"heartRate"`
	RespiratoryRate  int     `json:"respiratoryRate"`
	OxygenSaturation int     `json:"oxygenSaturation"`
	Temperature      float64 `json:"temperature"`

	EyeScore    int `json:"eyeScore"`
	VerbalScore int `json:"verbalScore"`
	MotorScore  int `json:"motorScore"`

	PainScore  int  `json:"painScore"`
	SeverePain bool `json:"severePain"`

	ChestPain            bool `json:"chestPain"`
	DifficultyBreathing  bool `json:"difficultyBreathing"`
	AlteredConsciousness bool `json:"alteredConsciousness"`
	SevereBleeding       bool `json:"severeBleeding"`
	Seizures             bool `json:"seizures"`

	IsolationRequired bool   `json:"isolationRequired"`
	ResourceNeeds     int    `json:"resourceNeeds"`
	RequestedLevel    *int   `json:"requestedLevel,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// TriageResponse là DTO cho kết quả phân loại
type TriageResponse struct {
	RegistrationID uint   `json:"registrationId"`
	Level          int    `json:"level"`
	Priority       int    `json:"priority"`
	Zone           int    `json:"zone"`
	ZoneName       string `json:"zoneName"`
	Color          string `json:"color"`
	Critical       bool   `json:"critical"`
	Deteriorated   bool   `json:"deteriorated"`
}

// ResolveIdentityRequest là DTO cho request xác định danh tính bệnh nhân vô danh
type ResolveIdentityRequest struct {
	PatientID uint `json:"patientId" binding:"required"`
}

// DispositionRequest là DTO cho request chốt rời khoa cấp cứu
type DispositionRequest struct {
	Disposition int    `json:"disposition"`
	Notes       string `json:"notes,omitempty"`
}
