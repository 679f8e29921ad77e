package dto

// CreatePatientRequest là DTO cho request tạo hồ sơ bệnh nhân
type CreatePatientRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"` // định dạng 2006-01-02
	PhoneNumber string `json:"phoneNumber,omitempty"`
	NationalID  string `json:"nationalId,omitempty"`
	Address     string `json:"address,omitempty"`
	BloodType   string `json:"bloodType,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
}

// PatientSuggestRequest là DTO cho request gợi ý bệnh nhân theo tên
type PatientSuggestRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit"`
}
