package models

import (
	"hospital/constants"
	"hospital/errors"
)

// regStatusProps thuộc tính dẫn xuất của từng trạng thái phiếu cấp cứu
type regStatusProps struct {
	Name     string
	Active   bool // còn trong khoa cấp cứu, được phép chuyển tiếp
	Terminal bool
}

var regStatusTable = map[int]regStatusProps{
	constants.RegStatusRegistered:           {Name: "Đã đăng ký", Active: true},
	constants.RegStatusArrived:              {Name: "Đã đến khoa", Active: true},
	constants.RegStatusTriaged:              {Name: "Đã phân loại", Active: true},
	constants.RegStatusInTreatment:          {Name: "Đang điều trị", Active: true},
	constants.RegStatusWaitingResults:       {Name: "Chờ kết quả", Active: true},
	constants.RegStatusAdmitted:             {Name: "Đã nhập viện", Terminal: true},
	constants.RegStatusDischarged:           {Name: "Đã ra về", Terminal: true},
	constants.RegStatusLeftWithoutTreatment: {Name: "Bỏ về", Terminal: true},
	constants.RegStatusTransferred:          {Name: "Đã chuyển viện", Terminal: true},
	constants.RegStatusDeceased:             {Name: "Tử vong", Terminal: true},
}

// RegStatusName trả về tên trạng thái phiếu cấp cứu
func RegStatusName(status int) string {
	if p, ok := regStatusTable[status]; ok {
		return p.Name
	}
	return "Không xác định"
}

// IsActive phiếu còn trong khoa cấp cứu, chưa chốt
func (r *EmergencyRegistration) IsActive() bool {
	return regStatusTable[r.Status].Active
}

// IsTerminal phiếu đã chốt, không nhận thêm chuyển tiếp nào
func (r *EmergencyRegistration) IsTerminal() bool {
	return regStatusTable[r.Status].Terminal
}

func (r *EmergencyRegistration) conflict(attempted string) error {
	return errors.NewStateConflictError("phiếu cấp cứu "+r.RegistrationNumber,
		RegStatusName(r.Status), attempted)
}

// MarkArrived xác nhận bệnh nhân đã đến khoa. Chỉ hợp lệ từ Đã đăng ký.
func (r *EmergencyRegistration) MarkArrived() error {
	if r.Status != constants.RegStatusRegistered {
		return r.conflict("xác nhận đến khoa")
	}
	r.Status = constants.RegStatusArrived
	return nil
}

// MarkTriaged ghi nhận kết quả phân loại. Lần đầu chỉ hợp lệ từ Đã đăng ký
// hoặc Đã đến khoa; phân loại lại (đã có mức phân loại) hợp lệ từ mọi trạng
// thái còn hoạt động.
func (r *EmergencyRegistration) MarkTriaged() error {
	if r.TriageLevel == nil {
		if r.Status != constants.RegStatusRegistered && r.Status != constants.RegStatusArrived {
			return r.conflict("phân loại lần đầu")
		}
	} else if !r.IsActive() {
		return r.conflict("phân loại lại")
	}
	r.Status = constants.RegStatusTriaged
	return nil
}

// MarkInTreatment bắt đầu điều trị. Hợp lệ từ Đã phân loại hoặc Đã đến khoa.
func (r *EmergencyRegistration) MarkInTreatment() error {
	if r.Status != constants.RegStatusTriaged && r.Status != constants.RegStatusArrived {
		return r.conflict("bắt đầu điều trị")
	}
	r.Status = constants.RegStatusInTreatment
	return nil
}

// MarkWaitingResults chuyển sang chờ kết quả cận lâm sàng. Chỉ từ Đang điều trị.
func (r *EmergencyRegistration) MarkWaitingResults() error {
	if r.Status != constants.RegStatusInTreatment {
		return r.conflict("chờ kết quả")
	}
	r.Status = constants.RegStatusWaitingResults
	return nil
}

// MarkResumeTreatment quay lại điều trị sau khi có kết quả. Chỉ từ Chờ kết quả.
func (r *EmergencyRegistration) MarkResumeTreatment() error {
	if r.Status != constants.RegStatusWaitingResults {
		return r.conflict("tiếp tục điều trị")
	}
	r.Status = constants.RegStatusInTreatment
	return nil
}

// MarkAdmitted chốt phiếu do chuyển nhập viện nội trú. Hợp lệ từ mọi trạng thái
// còn hoạt động; điều kiện danh tính đã xác định do tầng service kiểm tra trước.
func (r *EmergencyRegistration) MarkAdmitted() error {
	if !r.IsActive() {
		return r.conflict("chuyển nhập viện")
	}
	r.Status = constants.RegStatusAdmitted
	return nil
}

// MarkClosed chốt phiếu với trạng thái kết thúc tương ứng hình thức rời khoa.
// Hợp lệ từ mọi trạng thái còn hoạt động.
func (r *EmergencyRegistration) MarkClosed(disposition int) error {
	var target int
	switch disposition {
	case constants.DispositionDischarged:
		target = constants.RegStatusDischarged
	case constants.DispositionTransferred:
		target = constants.RegStatusTransferred
	case constants.DispositionDeceased:
		target = constants.RegStatusDeceased
	case constants.DispositionLeftWithoutTreatment:
		target = constants.RegStatusLeftWithoutTreatment
	default:
		return errors.NewValidationError("disposition", "hình thức rời khoa không hợp lệ")
	}
	if !r.IsActive() {
		return r.conflict("kết thúc lượt khám")
	}
	r.Status = target
	return nil
}
