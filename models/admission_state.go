package models

import (
	"hospital/constants"
	"hospital/errors"
)

type admissionStatusProps struct {
	Name     string
	Active   bool
	Terminal bool
}

var admissionStatusTable = map[int]admissionStatusProps{
	constants.AdmissionStatusAdmitted:    {Name: "Đã nhập viện", Active: true},
	constants.AdmissionStatusInTreatment: {Name: "Đang điều trị", Active: true},
	constants.AdmissionStatusDischarged:  {Name: "Đã xuất viện", Terminal: true},
	constants.AdmissionStatusTransferred: {Name: "Đã chuyển viện", Terminal: true},
	constants.AdmissionStatusDeceased:    {Name: "Tử vong", Terminal: true},
	constants.AdmissionStatusCancelled:   {Name: "Đã hủy", Terminal: true},
}

// AdmissionStatusName trả về tên trạng thái đợt nhập viện
func AdmissionStatusName(status int) string {
	if p, ok := admissionStatusTable[status]; ok {
		return p.Name
	}
	return "Không xác định"
}

// IsActive đợt nhập viện còn hoạt động
func (a *InpatientAdmission) IsActive() bool {
	return admissionStatusTable[a.Status].Active
}

// IsTerminal đợt nhập viện đã chốt
func (a *InpatientAdmission) IsTerminal() bool {
	return admissionStatusTable[a.Status].Terminal
}

func (a *InpatientAdmission) conflict(attempted string) error {
	return errors.NewStateConflictError("đợt nhập viện "+a.AdmissionNumber,
		AdmissionStatusName(a.Status), attempted)
}

// MarkInTreatment ghi nhận bắt đầu điều trị nội trú
func (a *InpatientAdmission) MarkInTreatment() error {
	if a.Status != constants.AdmissionStatusAdmitted {
		return a.conflict("bắt đầu điều trị")
	}
	a.Status = constants.AdmissionStatusInTreatment
	a.ClinicalActivity = true
	return nil
}

// MarkDischarged chốt xuất viện. Chỉ hợp lệ khi đợt còn hoạt động.
func (a *InpatientAdmission) MarkDischarged() error {
	if !a.IsActive() {
		return a.conflict("xuất viện")
	}
	a.Status = constants.AdmissionStatusDischarged
	return nil
}

// MarkTransferredOut chốt chuyển viện
func (a *InpatientAdmission) MarkTransferredOut() error {
	if !a.IsActive() {
		return a.conflict("chuyển viện")
	}
	a.Status = constants.AdmissionStatusTransferred
	return nil
}

// MarkDeceased chốt tử vong
func (a *InpatientAdmission) MarkDeceased() error {
	if !a.IsActive() {
		return a.conflict("ghi nhận tử vong")
	}
	a.Status = constants.AdmissionStatusDeceased
	return nil
}

// MarkCancelled hủy đợt nhập viện. Chỉ hợp lệ khi còn hoạt động và chưa có
// hoạt động lâm sàng nào được ghi nhận.
func (a *InpatientAdmission) MarkCancelled() error {
	if !a.IsActive() {
		return a.conflict("hủy nhập viện")
	}
	if a.ClinicalActivity {
		return a.conflict("hủy nhập viện sau khi đã điều trị")
	}
	a.Status = constants.AdmissionStatusCancelled
	return nil
}
