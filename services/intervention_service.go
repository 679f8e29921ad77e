package services

import (
	"context"
	"fmt"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"
	"hospital/repository"
	"hospital/services/logger"
)

// InterventionService quản lý nhật ký can thiệp cấp cứu. Nhật ký chỉ ghi
// thêm: bản ghi đã tạo không xóa được, chỉ bổ sung kết cục (ROSC, biến chứng,
// mốc kết thúc) lên trên.
type InterventionService struct {
	store  repository.Store
	clock  Clock
	logger logger.Logger
}

type InterventionServiceOptions struct {
	Store  repository.Store
	Clock  Clock
	Logger logger.Logger
}

func NewInterventionService(opts InterventionServiceOptions) *InterventionService {
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &InterventionService{store: opts.Store, clock: opts.Clock, logger: opts.Logger}
}

// RecordInput dữ liệu ghi một can thiệp mới
type RecordInput struct {
	RegistrationID uint
	Type           int
	PerformedBy    *uint
	Notes          string
}

// Record ghi một can thiệp lên phiếu cấp cứu còn hoạt động. Can thiệp nguy
// kịch tự động bật cờ nguy kịch của phiếu (cờ này không bao giờ hạ xuống).
func (s *InterventionService) Record(ctx context.Context, in RecordInput) (*models.EmergencyIntervention, error) {
	if _, ok := validInterventionType(in.Type); !ok {
		return nil, errors.NewValidationError("type",
			fmt.Sprintf("loại can thiệp %d không hợp lệ", in.Type))
	}
	reg, err := s.store.GetRegistration(ctx, in.RegistrationID)
	if err != nil {
		return nil, err
	}
	if !reg.IsActive() {
		return nil, errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
			models.RegStatusName(reg.Status), "ghi can thiệp")
	}

	now := s.clock.Now()
	iv := &models.EmergencyIntervention{
		RegistrationID: in.RegistrationID,
		Type:           in.Type,
		PerformedBy:    in.PerformedBy,
		Notes:          in.Notes,
		OccurredAt:     now,
	}
	if in.Type == constants.InterventionResuscitation {
		t := now
		iv.StartedAt = &t
	}
	if err := s.store.CreateIntervention(ctx, iv); err != nil {
		return nil, err
	}

	if models.IsCriticalIntervention(in.Type) && !reg.Critical {
		expected := reg.Status
		reg.Critical = true
		if err := s.store.SaveRegistrationGuarded(ctx, reg, expected, nil); err != nil {
			// Can thiệp đã ghi xong; cờ nguy kịch sẽ được nâng ở lần ghi sau
			s.logger.Warn("Không cập nhật được cờ nguy kịch cho %s: %v", reg.RegistrationNumber, err)
		}
	}

	s.logger.Info("Ghi can thiệp %s cho phiếu %s", models.InterventionTypeName(in.Type), reg.RegistrationNumber)
	return iv, nil
}

// RecordROSC ghi nhận tái lập tuần hoàn tự nhiên trên một can thiệp hồi sức
func (s *InterventionService) RecordROSC(ctx context.Context, interventionID uint) (*models.EmergencyIntervention, error) {
	iv, err := s.store.GetIntervention(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if err := iv.RecordROSC(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.store.SaveIntervention(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// EndResuscitation chốt mốc kết thúc của can thiệp hồi sức
func (s *InterventionService) EndResuscitation(ctx context.Context, interventionID uint) (*models.EmergencyIntervention, error) {
	iv, err := s.store.GetIntervention(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if iv.Type != constants.InterventionResuscitation {
		return nil, errors.NewValidationError("type", "chỉ can thiệp hồi sức mới có mốc kết thúc")
	}
	if iv.EndedAt != nil {
		return nil, errors.NewStateConflictError(fmt.Sprintf("can thiệp %d", iv.ID),
			"đã kết thúc", "kết thúc hồi sức")
	}
	now := s.clock.Now()
	iv.EndedAt = &now
	if err := s.store.SaveIntervention(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// AddComplication nối thêm ghi chú biến chứng vào can thiệp
func (s *InterventionService) AddComplication(ctx context.Context, interventionID uint, note string) (*models.EmergencyIntervention, error) {
	if note == "" {
		return nil, errors.NewValidationError("note", "thiếu nội dung biến chứng")
	}
	iv, err := s.store.GetIntervention(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	iv.AppendComplication(note)
	if err := s.store.SaveIntervention(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// ListForRegistration trả về nhật ký can thiệp của một phiếu, theo thứ tự ghi
func (s *InterventionService) ListForRegistration(ctx context.Context, registrationID uint, f repository.InterventionFilters) ([]models.EmergencyIntervention, error) {
	if _, err := s.store.GetRegistration(ctx, registrationID); err != nil {
		return nil, err
	}
	return s.store.ListInterventions(ctx, registrationID, f)
}

func validInterventionType(t int) (string, bool) {
	if t < constants.InterventionResuscitation || t > constants.InterventionBloodGas {
		return "", false
	}
	return models.InterventionTypeName(t), true
}
