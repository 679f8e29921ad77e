package services

import (
	"context"
	"fmt"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"
	"hospital/repository"
	"hospital/services/logger"
	"hospital/services/notification"
)

// RegistrationService điều hành vòng đời một lượt khám cấp cứu. Mọi chuyển
// tiếp trạng thái đều được kiểm tra lại ngay tại thời điểm ghi: hai caller
// đua nhau thì một bên thắng, bên kia nhận StateConflictError, không có
// ghi đè im lặng.
type RegistrationService struct {
	store    repository.Store
	seq      SequenceService
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
}

type RegistrationServiceOptions struct {
	Store    repository.Store
	Sequence SequenceService
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
}

func NewRegistrationService(opts RegistrationServiceOptions) *RegistrationService {
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Notifier == nil {
		opts.Notifier = notification.NopService{}
	}
	return &RegistrationService{
		store:    opts.Store,
		seq:      opts.Sequence,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// RegisterInput dữ liệu tạo phiếu cấp cứu
type RegisterInput struct {
	PatientID      *uint
	ChiefComplaint string
	Isolation      bool

	// Thông tin ước lượng khi chưa xác định danh tính
	EstimatedName    string
	EstimatedAge     *int
	EstimatedGender  string
	IdentifyingMarks string
}

// Register tạo phiếu cấp cứu cho bệnh nhân đã biết hoặc chưa xác định danh
// tính. Bệnh nhân chưa xác định nhận mã tạm UNK theo ngày.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*models.EmergencyRegistration, error) {
	if in.ChiefComplaint == "" {
		return nil, errors.NewValidationError("chiefComplaint", "lý do khám không được để trống")
	}

	now := s.clock.Now()
	reg := &models.EmergencyRegistration{
		ChiefComplaint: in.ChiefComplaint,
		Isolation:      in.Isolation,
		Status:         constants.RegStatusRegistered,
		RegisteredAt:   now,
	}

	if in.PatientID != nil {
		if _, err := s.store.GetPatient(ctx, *in.PatientID); err != nil {
			return nil, err
		}
		reg.PatientID = in.PatientID
	} else {
		code, err := s.seq.Next(ctx, SeqUnknown, now)
		if err != nil {
			return nil, err
		}
		reg.UnknownCode = code
		reg.EstimatedName = in.EstimatedName
		reg.EstimatedAge = in.EstimatedAge
		reg.EstimatedGender = in.EstimatedGender
		reg.IdentifyingMarks = in.IdentifyingMarks
	}

	number, err := s.seq.Next(ctx, SeqEmergency, now)
	if err != nil {
		return nil, err
	}
	reg.RegistrationNumber = number

	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}
	s.logger.Info("Tạo phiếu cấp cứu %s", reg.RegistrationNumber)
	return reg, nil
}

// AcknowledgeArrival xác nhận bệnh nhân đã đến khoa
func (s *RegistrationService) AcknowledgeArrival(ctx context.Context, id uint, actor *uint) (*models.EmergencyRegistration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := reg.Status
	if err := reg.MarkArrived(); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	reg.ArrivedAt = &now
	reg.ArrivedBy = actor
	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
		return nil, err
	}
	return reg, nil
}

// PerformTriage chạy thuật toán phân loại trên một lần đánh giá mới và ghi kết
// quả lên phiếu. Phân loại lại so mức mới với mức cũ để phát hiện diễn tiến
// xấu; cờ nguy kịch một khi đã bật thì không tắt.
func (s *RegistrationService) PerformTriage(ctx context.Context, id uint,
	assessment *models.TriageAssessment, actor *uint) (*models.EmergencyRegistration, *TriageResult, error) {

	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	expected := reg.Status

	if reg.Isolation {
		assessment.IsolationRequired = true
	}
	result := EvaluateTriage(assessment)

	if err := reg.MarkTriaged(); err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	assessment.RegistrationID = reg.ID
	assessment.Level = result.Level
	assessment.Zone = result.Zone
	assessment.AssessedAt = now
	assessment.AssessedBy = actor

	if reg.TriageLevel != nil && result.Level < *reg.TriageLevel {
		reg.Deteriorated = true
	}
	level, priority, zone := result.Level, result.Priority, result.Zone
	reg.TriageLevel = &level
	reg.TriagePriority = &priority
	reg.TriageZone = &zone
	if result.Critical {
		reg.Critical = true
	}
	if assessment.IsolationRequired {
		reg.Isolation = true
	}
	reg.TriagedAt = &now
	reg.TriagedBy = actor
	if reg.ArrivedAt != nil && reg.DoorToTriageMinutes == nil {
		m := models.MinutesBetween(*reg.ArrivedAt, now)
		reg.DoorToTriageMinutes = &m
	}

	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, assessment); err != nil {
		return nil, nil, err
	}

	if reg.Critical {
		// Phát sau khi đã ghi xong; lỗi phát chỉ log, không ảnh hưởng nghiệp vụ
		if err := s.notifier.Publish(notification.Event{
			Kind:           "registration.critical",
			RegistrationID: reg.ID,
			Number:         reg.RegistrationNumber,
			Status:         models.RegStatusName(reg.Status),
			At:             now,
		}); err != nil {
			s.logger.Error("Lỗi phát sự kiện phân loại nguy kịch: %v", err)
		}
	}
	return reg, &result, nil
}

// StartTreatment ghi nhận bác sĩ bắt đầu khám
func (s *RegistrationService) StartTreatment(ctx context.Context, id uint, actor *uint) (*models.EmergencyRegistration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := reg.Status
	if err := reg.MarkInTreatment(); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	reg.TreatmentAt = &now
	reg.TreatedBy = actor
	if reg.ArrivedAt != nil && reg.DoorToDoctorMinutes == nil {
		m := models.MinutesBetween(*reg.ArrivedAt, now)
		reg.DoorToDoctorMinutes = &m
	}
	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
		return nil, err
	}
	return reg, nil
}

// WaitForResults chuyển sang chờ kết quả cận lâm sàng
func (s *RegistrationService) WaitForResults(ctx context.Context, id uint) (*models.EmergencyRegistration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := reg.Status
	if err := reg.MarkWaitingResults(); err != nil {
		return nil, err
	}
	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
		return nil, err
	}
	return reg, nil
}

// ResumeTreatment quay lại điều trị sau khi có kết quả
func (s *RegistrationService) ResumeTreatment(ctx context.Context, id uint) (*models.EmergencyRegistration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := reg.Status
	if err := reg.MarkResumeTreatment(); err != nil {
		return nil, err
	}
	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
		return nil, err
	}
	return reg, nil
}

// ResolveIdentity liên kết phiếu của bệnh nhân chưa xác định với hồ sơ thật.
// Thao tác một chiều, dùng được ở mọi thời điểm trước khi chuyển nhập viện.
func (s *RegistrationService) ResolveIdentity(ctx context.Context, id, patientID uint) (*models.EmergencyRegistration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.IsIdentified() {
		return nil, errors.NewValidationError("patientId",
			fmt.Sprintf("phiếu %s đã có danh tính, không liên kết lại được", reg.RegistrationNumber))
	}
	if reg.IsTerminal() {
		return nil, errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
			models.RegStatusName(reg.Status), "xác định danh tính")
	}
	if _, err := s.store.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	expected := reg.Status
	reg.PatientID = &patientID
	// Điều kiện "chưa có danh tính" được kiểm tra lại ngay tại thời điểm ghi:
	// hai lần liên kết đua nhau thì lần sau nhận StateConflict thay vì ghi đè.
	if err := s.store.SaveRegistrationIdentity(ctx, reg, expected); err != nil {
		return nil, err
	}
	s.logger.Info("Phiếu %s đã xác định danh tính: bệnh nhân %d", reg.RegistrationNumber, patientID)
	return reg, nil
}

// AttachPhoto lưu URL ảnh nhận dạng cho bệnh nhân chưa xác định
func (s *RegistrationService) AttachPhoto(ctx context.Context, id uint, photoURL string) (*models.EmergencyRegistration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.IsIdentified() {
		return nil, errors.NewValidationError("photo", "phiếu đã có danh tính, không cần ảnh nhận dạng")
	}
	expected := reg.Status
	reg.PhotoURL = photoURL
	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
		return nil, err
	}
	return reg, nil
}

// Discharge kết thúc lượt khám với hình thức rời khoa tương ứng (ra về,
// chuyển viện, tử vong, bỏ về) và tính tổng thời gian nằm khoa cấp cứu.
func (s *RegistrationService) Discharge(ctx context.Context, id uint, disposition int,
	notes string, actor *uint) (*models.EmergencyRegistration, error) {

	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := reg.Status
	if err := reg.MarkClosed(disposition); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	reg.Disposition = &disposition
	reg.DispositionNote = notes
	reg.DispositionAt = &now
	reg.DispositionBy = actor
	if reg.ArrivedAt != nil {
		m := models.MinutesBetween(*reg.ArrivedAt, now)
		reg.TotalEDMinutes = &m
	}
	if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
		return nil, err
	}

	if err := s.notifier.Publish(notification.Event{
		Kind:           "registration.closed",
		RegistrationID: reg.ID,
		Number:         reg.RegistrationNumber,
		Status:         models.RegStatusName(reg.Status),
		At:             now,
	}); err != nil {
		s.logger.Error("Lỗi phát sự kiện kết thúc lượt khám: %v", err)
	}
	return reg, nil
}

// Get trả về phiếu cấp cứu kèm các lần đánh giá
func (s *RegistrationService) Get(ctx context.Context, id uint) (*models.EmergencyRegistration, error) {
	return s.store.GetRegistration(ctx, id)
}

// List truy vấn phiếu cấp cứu cho các consumer chỉ đọc
func (s *RegistrationService) List(ctx context.Context, f repository.RegistrationFilters) ([]models.EmergencyRegistration, error) {
	return s.store.ListRegistrations(ctx, f)
}
