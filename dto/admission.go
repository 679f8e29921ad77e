package dto

import "time"

// CreateAdmissionRequest là DTO cho request nhập viện nội trú
type CreateAdmissionRequest struct {
	PatientID      *uint `json:"patientId"`
	RegistrationID *uint `json:"registrationId"`

	RoomClass *int  `json:"roomClass,omitempty"`
	RoomID    *uint `json:"roomId,omitempty"`
	BedID     *uint `json:"bedId,omitempty"`

	AdmittingDiagnosis string `json:"admittingDiagnosis" binding:"required"`
	AttendingDoctorID  *uint  `json:"attendingDoctorId,omitempty"`
	PaymentMethod      string `json:"paymentMethod,omitempty"`
	DepositDays        int    `json:"depositDays,omitempty" validate:"gte=0"`
}

// AdmissionResponse là DTO cho response đợt nhập viện
type AdmissionResponse struct {
	ID                 uint       `json:"id"`
	AdmissionNumber    string     `json:"admissionNumber"`
	PatientID          uint       `json:"patientId"`
	RegistrationID     *uint      `json:"registrationId,omitempty"`
	Status             int        `json:"status"`
	StatusName         string     `json:"statusName"`
	RoomID             uint       `json:"roomId"`
	BedID              uint       `json:"bedId"`
	DailyRate          float64    `json:"dailyRate"`
	RequiredDeposit    float64    `json:"requiredDeposit"`
	DepositDays        int        `json:"depositDays"`
	AdmittingDiagnosis string     `json:"admittingDiagnosis"`
	AdmittedAt         time.Time  `json:"admittedAt"`
	DischargedAt       *time.Time `json:"dischargedAt,omitempty"`
	LengthOfStay       *int       `json:"lengthOfStay,omitempty"`
}

// TransferRequest là DTO cho request chuyển phòng
type TransferRequest struct {
	ToRoomID uint   `json:"toRoomId" binding:"required"`
	ToBedID  *uint  `json:"toBedId,omitempty"`
	Reason   string `json:"reason" binding:"required"`
}

// AssignmentResponse là DTO cho một phân công giường trong lịch sử
type AssignmentResponse struct {
	ID         uint       `json:"id"`
	RoomID     uint       `json:"roomId"`
	BedID      uint       `json:"bedId"`
	RoomClass  int        `json:"roomClass"`
	DailyRate  float64    `json:"dailyRate"`
	Type       int        `json:"type"`
	Reason     string     `json:"reason,omitempty"`
	AssignedAt time.Time  `json:"assignedAt"`
	ReleasedAt *time.Time `json:"releasedAt,omitempty"`
}
