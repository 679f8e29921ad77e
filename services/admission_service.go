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

// AdmissionService điều phối nhập viện nội trú: chuyển đổi từ phiếu cấp cứu
// hoặc nhập trực tiếp, xuất viện, chuyển phòng, hủy. Các thao tác đụng vào
// pool giường chạy trong khóa phòng của CapacityService và ghi store bằng một
// mutation nguyên tử duy nhất.
type AdmissionService struct {
	store    repository.Store
	capacity *CapacityService
	seq      SequenceService
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
}

type AdmissionServiceOptions struct {
	Store    repository.Store
	Capacity *CapacityService
	Sequence SequenceService
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
}

func NewAdmissionService(opts AdmissionServiceOptions) *AdmissionService {
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if opts.Notifier == nil {
		opts.Notifier = notification.NopService{}
	}
	return &AdmissionService{
		store:    opts.Store,
		capacity: opts.Capacity,
		seq:      opts.Sequence,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// CreateAdmissionInput dữ liệu tạo đợt nhập viện
type CreateAdmissionInput struct {
	PatientID      *uint // bắt buộc khi nhập trực tiếp
	RegistrationID *uint // chuyển đổi từ phiếu cấp cứu

	RoomClass *int  // chọn phòng tốt nhất của hạng này
	RoomID    *uint // hoặc chỉ định phòng cụ thể
	BedID     *uint // kèm giường cụ thể, nếu muốn

	AdmittingDiagnosis string
	AttendingDoctorID  *uint
	PaymentMethod      string
	DepositDays        int // 0 thì dùng mặc định
}

// CreateAdmission tạo đợt nhập viện: chọn phòng/giường, tính tiền cọc, cấp số
// nhập viện theo ngày, mở phân công INITIAL và chiếm giường trong cùng một
// đơn vị nguyên tử. Bệnh nhân đang có đợt nhập viện hoạt động bị từ chối ngay
// tại ranh giới lưu trữ, không phải bằng một lần đọc rồi ghi.
func (s *AdmissionService) CreateAdmission(ctx context.Context, in CreateAdmissionInput) (*models.InpatientAdmission, error) {
	var reg *models.EmergencyRegistration
	var patientID uint

	switch {
	case in.RegistrationID != nil:
		var err error
		reg, err = s.store.GetRegistration(ctx, *in.RegistrationID)
		if err != nil {
			return nil, err
		}
		if !reg.IsIdentified() {
			return nil, errors.NewValidationError("registrationId",
				fmt.Sprintf("phiếu %s chưa xác định danh tính, không chuyển nhập viện được", reg.RegistrationNumber))
		}
		if !reg.IsActive() {
			return nil, errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
				models.RegStatusName(reg.Status), "chuyển nhập viện")
		}
		patientID = *reg.PatientID
	case in.PatientID != nil:
		if _, err := s.store.GetPatient(ctx, *in.PatientID); err != nil {
			return nil, err
		}
		patientID = *in.PatientID
	default:
		return nil, errors.NewValidationError("patientId", "thiếu bệnh nhân hoặc phiếu cấp cứu nguồn")
	}

	// Tiền kiểm cho lỗi sớm dễ hiểu; kiểm tra quyết định vẫn nằm trong
	// transaction của store.
	active, err := s.store.HasActiveAdmission(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, errors.NewStateConflictError(fmt.Sprintf("bệnh nhân %d", patientID),
			"đang có đợt nhập viện hoạt động", "tạo đợt nhập viện mới")
	}

	var room *models.Room
	if in.RoomID != nil {
		room, err = s.store.GetRoom(ctx, *in.RoomID)
		if err != nil {
			return nil, err
		}
		if !room.Active {
			return nil, errors.NewValidationError("roomId", "phòng không hoạt động")
		}
		if in.RoomClass != nil && room.Class != *in.RoomClass {
			return nil, errors.NewValidationError("roomId",
				fmt.Sprintf("phòng %d thuộc hạng %s, không khớp hạng yêu cầu %s",
					room.RoomId, models.RoomClassName(room.Class), models.RoomClassName(*in.RoomClass)))
		}
		if room.AvailableBeds <= 0 {
			return nil, errors.NewCapacityError("giường",
				fmt.Sprintf("phòng %d không còn giường trống", room.RoomId))
		}
	} else {
		if in.RoomClass == nil {
			return nil, errors.NewValidationError("roomClass", "thiếu hạng phòng yêu cầu")
		}
		room, err = s.capacity.FindBestAvailableRoom(ctx, *in.RoomClass)
		if err != nil {
			return nil, err
		}
	}

	depositDays := in.DepositDays
	if depositDays <= 0 {
		depositDays = constants.DefaultDepositDays
	}

	var admission *models.InpatientAdmission
	err = s.capacity.WithRoomLock(room.RoomId, func() error {
		// Nạp lại phòng trong lúc giữ khóa rồi mới chọn giường
		lockedRoom, err := s.store.GetRoom(ctx, room.RoomId)
		if err != nil {
			return err
		}
		var bed *models.Bed
		if in.BedID != nil {
			bed = findBed(lockedRoom, *in.BedID)
			if bed == nil {
				return errors.NewNotFoundError("giường", fmt.Sprintf("%d", *in.BedID))
			}
		} else {
			bed = pickFreeBed(lockedRoom)
			if bed == nil {
				if lockedRoom.AvailableBeds > 0 {
					return errors.NewConsistencyViolation("room-counter",
						fmt.Sprintf("phòng %d báo còn giường trống nhưng không tìm thấy", lockedRoom.RoomId))
				}
				return errors.NewCapacityError("giường",
					fmt.Sprintf("phòng %d không còn giường trống", lockedRoom.RoomId))
			}
		}

		now := s.clock.Now()
		number, err := s.seq.Next(ctx, SeqAdmission, now)
		if err != nil {
			return err
		}

		admission = &models.InpatientAdmission{
			AdmissionNumber:    number,
			PatientID:          patientID,
			RegistrationID:     in.RegistrationID,
			Status:             constants.AdmissionStatusAdmitted,
			CurrentRoomID:      lockedRoom.RoomId,
			CurrentRate:        lockedRoom.BasePrice,
			AdmittingDiagnosis: in.AdmittingDiagnosis,
			AttendingDoctorID:  in.AttendingDoctorID,
			PaymentMethod:      in.PaymentMethod,
			DepositDays:        depositDays,
			RequiredDeposit:    models.ComputeDeposit(lockedRoom.BasePrice, depositDays),
			AdmittedAt:         now,
		}

		if err := bed.Occupy(lockedRoom, patientID, 0, now); err != nil {
			return err
		}
		admission.CurrentBedID = bed.BedId

		assignment := &models.BedAssignment{
			RoomID:     lockedRoom.RoomId,
			BedID:      bed.BedId,
			RoomClass:  lockedRoom.Class,
			DailyRate:  lockedRoom.BasePrice,
			Type:       constants.AssignmentInitial,
			AssignedAt: now,
		}

		mutation := &repository.CapacityMutation{
			Rooms:             []*models.Room{lockedRoom},
			Beds:              []*models.Bed{bed},
			CreateAdmission:   admission,
			CreateAssignments: []*models.BedAssignment{assignment},
		}
		if reg != nil {
			expected := reg.Status
			if err := reg.MarkAdmitted(); err != nil {
				return err
			}
			reg.ConvertedAt = &now
			disposition := constants.DispositionAdmitted
			reg.Disposition = &disposition
			reg.DispositionAt = &now
			if reg.ArrivedAt != nil {
				m := models.MinutesBetween(*reg.ArrivedAt, now)
				reg.TotalEDMinutes = &m
			}
			mutation.SaveRegistration = reg
			mutation.RegistrationExpectedStatus = &expected
		}
		return s.store.ApplyCapacityMutation(ctx, mutation)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tạo đợt nhập viện %s cho bệnh nhân %d, phòng %d giường %d",
		admission.AdmissionNumber, patientID, admission.CurrentRoomID, admission.CurrentBedID)
	if err := s.notifier.Publish(notification.Event{
		Kind:        "admission.created",
		AdmissionID: admission.ID,
		Number:      admission.AdmissionNumber,
		Status:      models.AdmissionStatusName(admission.Status),
		At:          admission.AdmittedAt,
	}); err != nil {
		s.logger.Error("Lỗi phát sự kiện nhập viện: %v", err)
	}
	return admission, nil
}

// StartTreatment ghi nhận bắt đầu điều trị nội trú; sau bước này đợt nhập
// viện không hủy được nữa.
func (s *AdmissionService) StartTreatment(ctx context.Context, admissionID uint) (*models.InpatientAdmission, error) {
	adm, err := s.store.GetAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if err := adm.MarkInTreatment(); err != nil {
		return nil, err
	}
	if err := s.store.ApplyCapacityMutation(ctx, &repository.CapacityMutation{SaveAdmission: adm}); err != nil {
		return nil, err
	}
	return adm, nil
}

// withCurrentRoomLock chạy fn trong lúc giữ khóa phòng hiện tại của đợt nhập
// viện. Giữa lần đọc CurrentRoomID và lúc khóa, một lần chuyển phòng có thể đã
// dời bệnh nhân sang phòng khác; khi đó nhả khóa và khóa lại theo phòng mới
// cho tới khi bản ghi nạp lại dưới khóa vẫn trỏ đúng phòng đang giữ.
func (s *AdmissionService) withCurrentRoomLock(ctx context.Context, admissionID, roomID uint,
	fn func(adm *models.InpatientAdmission) error) error {
	for {
		var moved bool
		err := s.capacity.WithRoomLock(roomID, func() error {
			adm, err := s.store.GetAdmission(ctx, admissionID)
			if err != nil {
				return err
			}
			if adm.CurrentRoomID != roomID {
				moved = true
				roomID = adm.CurrentRoomID
				return nil
			}
			return fn(adm)
		})
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
	}
}

// DischargePatient xuất viện: đóng phân công hiện tại, trả giường, chốt trạng
// thái và tính số ngày nằm viện tròn.
func (s *AdmissionService) DischargePatient(ctx context.Context, admissionID uint) (*models.InpatientAdmission, error) {
	probe, err := s.store.GetAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if !probe.IsActive() {
		return nil, errors.NewStateConflictError("đợt nhập viện "+probe.AdmissionNumber,
			models.AdmissionStatusName(probe.Status), "xuất viện")
	}

	var adm *models.InpatientAdmission
	err = s.withCurrentRoomLock(ctx, admissionID, probe.CurrentRoomID, func(locked *models.InpatientAdmission) error {
		// Điều kiện được kiểm tra lại trong lúc giữ khóa
		adm = locked
		if err := adm.MarkDischarged(); err != nil {
			return err
		}

		current, err := s.store.GetCurrentAssignment(ctx, admissionID)
		if err != nil {
			return err
		}
		room, err := s.store.GetRoom(ctx, current.RoomID)
		if err != nil {
			return err
		}
		bed := findBed(room, current.BedID)
		if bed == nil {
			return errors.NewConsistencyViolation("assignment-bed",
				fmt.Sprintf("phân công %d trỏ tới giường %d không thuộc phòng %d", current.ID, current.BedID, room.RoomId))
		}
		if err := bed.Release(room); err != nil {
			return err
		}

		now := s.clock.Now()
		current.Close(now)
		adm.DischargedAt = &now
		los := models.WholeDaysBetween(adm.AdmittedAt, now)
		adm.LengthOfStay = &los

		return s.store.ApplyCapacityMutation(ctx, &repository.CapacityMutation{
			Rooms:           []*models.Room{room},
			Beds:            []*models.Bed{bed},
			SaveAssignments: []*models.BedAssignment{current},
			SaveAdmission:   adm,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Xuất viện %s, nằm viện %d ngày", adm.AdmissionNumber, *adm.LengthOfStay)
	if err := s.notifier.Publish(notification.Event{
		Kind:        "admission.discharged",
		AdmissionID: adm.ID,
		Number:      adm.AdmissionNumber,
		Status:      models.AdmissionStatusName(adm.Status),
		At:          *adm.DischargedAt,
	}); err != nil {
		s.logger.Error("Lỗi phát sự kiện xuất viện: %v", err)
	}
	return adm, nil
}

// TransferPatient chuyển bệnh nhân sang phòng/giường khác. Hoán đổi nguyên tử
// do CapacityService đảm nhiệm; snapshot phòng/giường/giá của đợt nhập viện
// được cập nhật, lịch sử phân công giữ nguyên giá cũ.
func (s *AdmissionService) TransferPatient(ctx context.Context, admissionID, toRoomID uint,
	toBedID *uint, reason string) (*TransferResult, error) {

	adm, err := s.store.GetAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if !adm.IsActive() {
		return nil, errors.NewStateConflictError("đợt nhập viện "+adm.AdmissionNumber,
			models.AdmissionStatusName(adm.Status), "chuyển phòng")
	}

	result, err := s.capacity.Transfer(ctx, adm, toRoomID, toBedID, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Chuyển %s sang phòng %d giường %d (%s)",
		adm.AdmissionNumber, result.ToRoom.RoomId, result.ToBed.BedId, reason)
	if err := s.notifier.Publish(notification.Event{
		Kind:        "admission.transferred",
		AdmissionID: adm.ID,
		Number:      adm.AdmissionNumber,
		Status:      models.AdmissionStatusName(adm.Status),
		At:          result.NewAssignment.AssignedAt,
	}); err != nil {
		s.logger.Error("Lỗi phát sự kiện chuyển phòng: %v", err)
	}
	return result, nil
}

// CancelAdmission hủy đợt nhập viện khi chưa có hoạt động lâm sàng; giường
// đang giữ được trả lại.
func (s *AdmissionService) CancelAdmission(ctx context.Context, admissionID uint) (*models.InpatientAdmission, error) {
	probe, err := s.store.GetAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}

	var adm *models.InpatientAdmission
	err = s.withCurrentRoomLock(ctx, admissionID, probe.CurrentRoomID, func(locked *models.InpatientAdmission) error {
		adm = locked
		if err := adm.MarkCancelled(); err != nil {
			return err
		}

		mutation := &repository.CapacityMutation{SaveAdmission: adm}
		current, err := s.store.GetCurrentAssignment(ctx, admissionID)
		if err == nil {
			room, err := s.store.GetRoom(ctx, current.RoomID)
			if err != nil {
				return err
			}
			bed := findBed(room, current.BedID)
			if bed == nil {
				return errors.NewConsistencyViolation("assignment-bed",
					fmt.Sprintf("phân công %d trỏ tới giường %d không thuộc phòng %d", current.ID, current.BedID, room.RoomId))
			}
			if err := bed.Release(room); err != nil {
				return err
			}
			current.Close(s.clock.Now())
			mutation.Rooms = []*models.Room{room}
			mutation.Beds = []*models.Bed{bed}
			mutation.SaveAssignments = []*models.BedAssignment{current}
		} else if !errors.IsNotFound(err) {
			return err
		}
		return s.store.ApplyCapacityMutation(ctx, mutation)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Hủy đợt nhập viện %s", adm.AdmissionNumber)
	return adm, nil
}

// Get trả về đợt nhập viện kèm lịch sử phân công giường
func (s *AdmissionService) Get(ctx context.Context, id uint) (*models.InpatientAdmission, error) {
	return s.store.GetAdmission(ctx, id)
}

// List truy vấn đợt nhập viện cho các consumer chỉ đọc
func (s *AdmissionService) List(ctx context.Context, f repository.AdmissionFilters) ([]models.InpatientAdmission, error) {
	return s.store.ListAdmissions(ctx, f)
}

// Assignments trả về toàn bộ lịch sử phân công giường của một đợt nhập viện
func (s *AdmissionService) Assignments(ctx context.Context, admissionID uint) ([]models.BedAssignment, error) {
	if _, err := s.store.GetAdmission(ctx, admissionID); err != nil {
		return nil, err
	}
	return s.store.ListAssignments(ctx, admissionID)
}
