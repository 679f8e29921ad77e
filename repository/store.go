package repository

import (
	"context"
	"time"

	"hospital/models"
)

// RegistrationFilters điều kiện truy vấn phiếu cấp cứu cho các consumer chỉ đọc
type RegistrationFilters struct {
	Status       *int
	Zone         *int
	Critical     *bool
	Unidentified *bool
	From         *time.Time
	To           *time.Time
}

// AdmissionFilters điều kiện truy vấn đợt nhập viện
type AdmissionFilters struct {
	Status    *int
	PatientID *uint
	From      *time.Time
	To        *time.Time
}

// InterventionFilters điều kiện truy vấn can thiệp cấp cứu
type InterventionFilters struct {
	Type              *int
	CriticalOnly      bool
	WithComplications bool
}

// CapacityMutation một đơn vị ghi tất-cả-hoặc-không cho pool phòng/giường.
// Store phải ghi toàn bộ trong một transaction; lỗi ở bất kỳ bước nào thì
// không thay đổi nào được giữ lại.
type CapacityMutation struct {
	Rooms              []*models.Room
	Beds               []*models.Bed
	SaveAssignments    []*models.BedAssignment
	CreateAssignments  []*models.BedAssignment
	SaveAdmission      *models.InpatientAdmission
	CreateAdmission    *models.InpatientAdmission
	SaveRegistration   *models.EmergencyRegistration
	// Khi khác nil, ghi SaveRegistration chỉ thành công nếu trạng thái trong
	// store vẫn bằng giá trị này (cùng ngữ nghĩa SaveRegistrationGuarded).
	RegistrationExpectedStatus *int
}

// Store là ranh giới lưu trữ của toàn bộ hệ thống. GormStore dùng cho vận hành,
// MemoryStore dùng cho test; cả hai phải giữ cùng ngữ nghĩa nguyên tử.
type Store interface {
	// Phòng / giường
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomID uint) (*models.Room, error) // kèm danh sách giường
	GetBed(ctx context.Context, bedID uint) (*models.Bed, error)
	ListRooms(ctx context.Context, class *int, onlyAvailable bool) ([]models.Room, error)
	SaveBed(ctx context.Context, room *models.Room, bed *models.Bed) error

	// Phân công giường
	GetCurrentAssignment(ctx context.Context, admissionID uint) (*models.BedAssignment, error)
	ListAssignments(ctx context.Context, admissionID uint) ([]models.BedAssignment, error)

	// Ghi nguyên tử lên pool giường (nhập viện, trả giường, chuyển phòng).
	// Khi CreateAdmission khác nil, store phải kiểm tra bệnh nhân chưa có đợt
	// nhập viện đang hoạt động ngay trong cùng transaction.
	ApplyCapacityMutation(ctx context.Context, m *CapacityMutation) error

	// Phiếu cấp cứu
	CreateRegistration(ctx context.Context, reg *models.EmergencyRegistration) error
	GetRegistration(ctx context.Context, id uint) (*models.EmergencyRegistration, error)
	ListRegistrations(ctx context.Context, f RegistrationFilters) ([]models.EmergencyRegistration, error)
	// Ghi có điều kiện: chỉ thành công nếu trạng thái trong store vẫn là
	// expectedStatus, đảm bảo hai caller đua nhau chỉ có đúng một bên thắng.
	SaveRegistrationGuarded(ctx context.Context, reg *models.EmergencyRegistration,
		expectedStatus int, assessment *models.TriageAssessment) error
	// Ghi liên kết danh tính một chiều: ngoài điều kiện trạng thái, phiếu trong
	// store còn phải CHƯA có danh tính; hai lần liên kết đua nhau thì chỉ lần
	// đầu thắng, không có ghi đè im lặng.
	SaveRegistrationIdentity(ctx context.Context, reg *models.EmergencyRegistration,
		expectedStatus int) error

	// Đợt nhập viện
	GetAdmission(ctx context.Context, id uint) (*models.InpatientAdmission, error)
	ListAdmissions(ctx context.Context, f AdmissionFilters) ([]models.InpatientAdmission, error)
	HasActiveAdmission(ctx context.Context, patientID uint) (bool, error)

	// Bệnh nhân
	CreatePatient(ctx context.Context, p *models.Patient) error
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)

	// Can thiệp cấp cứu
	CreateIntervention(ctx context.Context, iv *models.EmergencyIntervention) error
	GetIntervention(ctx context.Context, id uint) (*models.EmergencyIntervention, error)
	SaveIntervention(ctx context.Context, iv *models.EmergencyIntervention) error
	ListInterventions(ctx context.Context, registrationID uint, f InterventionFilters) ([]models.EmergencyIntervention, error)
}
