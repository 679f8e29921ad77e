package validator

import (
	"fmt"
	"regexp"

	v10 "github.com/go-playground/validator/v10"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"
)

var validate = v10.New()

// ValidateStruct chạy các tag validate trên DTO và đổi lỗi đầu tiên thành AppError
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if ferrs, ok := err.(v10.ValidationErrors); ok && len(ferrs) > 0 {
			fe := ferrs[0]
			return errors.NewAppError(errors.ErrCodeValidation,
				fmt.Sprintf("Trường %s không hợp lệ (ràng buộc %s)", fe.Field(), fe.Tag()), err)
		}
		return errors.NewAppError(errors.ErrCodeValidation, "Dữ liệu không hợp lệ", err)
	}
	return nil
}

// ValidatePatient validate thông tin bệnh nhân
func ValidatePatient(p *models.Patient) error {
	if p.FullName == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Họ tên không được để trống", nil)
	}
	if p.PhoneNumber != "" && !isValidPhone(p.PhoneNumber) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Số điện thoại không hợp lệ", nil)
	}
	if p.NationalID != "" && !isValidNationalID(p.NationalID) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Số CCCD không hợp lệ", nil)
	}
	return nil
}

// ValidateTriageAssessment validate phiếu đánh giá phân loại trước khi đưa vào
// bộ phân loại. Sinh hiệu bỏ trống (giá trị 0) được chấp nhận, có giá trị thì
// phải nằm trong khoảng đo được.
func ValidateTriageAssessment(a *models.TriageAssessment) error {
	neuro := a.NeuroScore()
	if neuro != 0 && (neuro < 3 || neuro > 15) {
		return errors.NewAppError(errors.ErrCodeInvalidRange,
			"Điểm tri giác phải nằm trong khoảng 3 đến 15", nil)
	}
	if a.PainScore < 0 || a.PainScore > 10 {
		return errors.NewAppError(errors.ErrCodeInvalidRange,
			"Điểm đau phải nằm trong khoảng 0 đến 10", nil)
	}
	if a.SystolicBP < 0 || a.SystolicBP > 300 {
		return errors.NewAppError(errors.ErrCodeInvalidRange, "Huyết áp tâm thu ngoài khoảng đo", nil)
	}
	if a.HeartRate < 0 || a.HeartRate > 300 {
		return errors.NewAppError(errors.ErrCodeInvalidRange, "Nhịp tim ngoài khoảng đo", nil)
	}
	if a.RespiratoryRate < 0 || a.RespiratoryRate > 80 {
		return errors.NewAppError(errors.ErrCodeInvalidRange, "Nhịp thở ngoài khoảng đo", nil)
	}
	if a.OxygenSaturation < 0 || a.OxygenSaturation > 100 {
		return errors.NewAppError(errors.ErrCodeInvalidRange, "SpO2 phải nằm trong khoảng 0 đến 100", nil)
	}
	if a.Temperature != 0 && (a.Temperature < 25 || a.Temperature > 45) {
		return errors.NewAppError(errors.ErrCodeInvalidRange, "Thân nhiệt ngoài khoảng đo", nil)
	}
	if a.ResourceNeeds < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidRange, "Số nguồn lực dự kiến không được âm", nil)
	}
	if a.RequestedLevel != nil && (*a.RequestedLevel < 1 || *a.RequestedLevel > 5) {
		return errors.NewAppError(errors.ErrCodeInvalidRange,
			"Mức phân loại yêu cầu phải từ 1 đến 5", nil)
	}
	return nil
}

// ValidateRoomInput validate dữ liệu tạo phòng
func ValidateRoomInput(room *models.Room) error {
	if room.RoomName == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên phòng không được để trống", nil)
	}
	if err := room.ValidateClass(); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Hạng phòng không hợp lệ", err)
	}
	if room.BasePrice < 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Giá phòng không được âm", nil)
	}
	if len(room.Beds) == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Phòng phải có ít nhất một giường", nil)
	}
	return nil
}

// ValidateDisposition kiểm tra hình thức rời khoa hợp lệ
func ValidateDisposition(d int) error {
	if d < constants.DispositionDischarged || d > constants.DispositionLeftWithoutTreatment {
		return errors.NewAppError(errors.ErrCodeValidation, "Hình thức rời khoa không hợp lệ", nil)
	}
	return nil
}

// isValidPhone kiểm tra số điện thoại hợp lệ
func isValidPhone(phone string) bool {
	phoneRegex := regexp.MustCompile(`^[0-9]{10}$`)
	return phoneRegex.MatchString(phone)
}

// isValidNationalID kiểm tra số CCCD 12 chữ số
func isValidNationalID(id string) bool {
	idRegex := regexp.MustCompile(`^[0-9]{12}$`)
	return idRegex.MatchString(id)
}
