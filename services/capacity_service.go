package services

import (
	"context"
	"fmt"
	"sync"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"
	"hospital/repository"
	"hospital/services/logger"
)

// CapacityService quản lý pool phòng/giường. Mọi thao tác ghi trên một phòng
// được serialize bằng mutex theo phòng; chuyển phòng khóa cả hai phòng theo
// thứ tự id tăng dần để không deadlock.
type CapacityService struct {
	store  repository.Store
	clock  Clock
	logger logger.Logger

	mu        sync.Mutex
	roomLocks map[uint]*sync.Mutex
}

type CapacityServiceOptions struct {
	Store  repository.Store
	Clock  Clock
	Logger logger.Logger
}

func NewCapacityService(opts CapacityServiceOptions) *CapacityService {
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &CapacityService{
		store:     opts.Store,
		clock:     opts.Clock,
		logger:    opts.Logger,
		roomLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *CapacityService) lockFor(roomID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.roomLocks[roomID] = l
	}
	return l
}

// lockRooms khóa một hoặc hai phòng theo thứ tự id tăng dần
func (s *CapacityService) lockRooms(a, b uint) func() {
	if a == b || b == 0 {
		l := s.lockFor(a)
		l.Lock()
		return l.Unlock
	}
	if a > b {
		a, b = b, a
	}
	first, second := s.lockFor(a), s.lockFor(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

// WithRoomLock chạy fn trong lúc giữ khóa của một phòng, cho các thao tác
// ghép (tạo đợt nhập viện, hủy nhập viện) cần cùng đơn vị serialize với pool.
func (s *CapacityService) WithRoomLock(roomID uint, fn func() error) error {
	unlock := s.lockRooms(roomID, 0)
	defer unlock()
	return fn()
}

// CreateRoom tạo phòng mới cùng danh sách giường; bộ đếm giường trống được
// khởi tạo bằng số giường.
func (s *CapacityService) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := room.ValidateClass(); err != nil {
		return errors.NewValidationError("class", err.Error())
	}
	if len(room.Beds) == 0 {
		return errors.NewValidationError("beds", "phòng phải có ít nhất một giường")
	}
	room.TotalBeds = len(room.Beds)
	room.AvailableBeds = len(room.Beds)
	room.Active = true
	for i := range room.Beds {
		room.Beds[i].Status = constants.BedStatusFree
	}
	return s.store.CreateRoom(ctx, room)
}

// GetRoom trả về một phòng kèm danh sách giường
func (s *CapacityService) GetRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	return s.store.GetRoom(ctx, roomID)
}

// ListRooms trả về các phòng hoạt động, lọc theo hạng và còn chỗ nếu yêu cầu
func (s *CapacityService) ListRooms(ctx context.Context, class *int, onlyAvailable bool) ([]models.Room, error) {
	return s.store.ListRooms(ctx, class, onlyAvailable)
}

// FindBestAvailableRoom chọn phòng hoạt động của hạng yêu cầu còn nhiều giường
// trống nhất; bằng nhau thì lấy phòng có id nhỏ nhất. Hết chỗ là kết quả
// nghiệp vụ bình thường, trả về CapacityError.
func (s *CapacityService) FindBestAvailableRoom(ctx context.Context, class int) (*models.Room, error) {
	rooms, err := s.store.ListRooms(ctx, &class, true)
	if err != nil {
		return nil, err
	}
	var best *models.Room
	for i := range rooms {
		// rooms đã xếp theo id tăng dần nên so sánh chặt giữ lại id nhỏ nhất
		if best == nil || rooms[i].AvailableBeds > best.AvailableBeds {
			best = &rooms[i]
		}
	}
	if best == nil {
		return nil, errors.NewCapacityError("phòng", "không còn phòng trống hạng "+models.RoomClassName(class))
	}
	return best, nil
}

// pickFreeBed chọn một giường trống trong phòng, ưu tiên giường cạnh cửa sổ,
// bằng nhau thì lấy id nhỏ nhất. Danh sách giường của phòng đã xếp theo id.
func pickFreeBed(room *models.Room) *models.Bed {
	var fallback *models.Bed
	for i := range room.Beds {
		if room.Beds[i].Status != constants.BedStatusFree {
			continue
		}
		if room.Beds[i].NearWindow {
			return &room.Beds[i]
		}
		if fallback == nil {
			fallback = &room.Beds[i]
		}
	}
	return fallback
}

// FindAvailableBedInRoom trả về một giường trống của phòng. Bộ đếm báo còn chỗ
// mà không tìm thấy giường nào là vi phạm bất biến, không phải hết chỗ.
func (s *CapacityService) FindAvailableBedInRoom(ctx context.Context, roomID uint) (*models.Bed, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	bed := pickFreeBed(room)
	if bed == nil {
		if room.AvailableBeds > 0 {
			v := errors.NewConsistencyViolation("room-counter",
				fmt.Sprintf("phòng %d báo còn %d giường trống nhưng không tìm thấy giường nào", roomID, room.AvailableBeds))
			s.logger.Error("%v", v)
			return nil, v
		}
		return nil, errors.NewCapacityError("giường", fmt.Sprintf("phòng %d không còn giường trống", roomID))
	}
	return bed, nil
}

// OccupyBed gán bệnh nhân vào giường. Hai caller cùng tranh một giường trống
// thì đúng một bên thành công, bên kia nhận StateConflictError.
func (s *CapacityService) OccupyBed(ctx context.Context, bedID, patientID, admissionID uint) error {
	probe, err := s.store.GetBed(ctx, bedID)
	if err != nil {
		return err
	}
	unlock := s.lockRooms(probe.RoomID, 0)
	defer unlock()

	// Nạp lại trong lúc giữ khóa: điều kiện được kiểm tra tại thời điểm áp dụng
	room, err := s.store.GetRoom(ctx, probe.RoomID)
	if err != nil {
		return err
	}
	bed := findBed(room, bedID)
	if bed == nil {
		return errors.NewNotFoundError("giường", fmt.Sprintf("%d", bedID))
	}
	if err := bed.Occupy(room, patientID, admissionID, s.clock.Now()); err != nil {
		return err
	}
	return s.store.ApplyCapacityMutation(ctx, &repository.CapacityMutation{
		Rooms: []*models.Room{room},
		Beds:  []*models.Bed{bed},
	})
}

// ReleaseBed trả giường về trạng thái trống
func (s *CapacityService) ReleaseBed(ctx context.Context, bedID uint) error {
	probe, err := s.store.GetBed(ctx, bedID)
	if err != nil {
		return err
	}
	unlock := s.lockRooms(probe.RoomID, 0)
	defer unlock()

	room, err := s.store.GetRoom(ctx, probe.RoomID)
	if err != nil {
		return err
	}
	bed := findBed(room, bedID)
	if bed == nil {
		return errors.NewNotFoundError("giường", fmt.Sprintf("%d", bedID))
	}
	if err := bed.Release(room); err != nil {
		return err
	}
	return s.store.ApplyCapacityMutation(ctx, &repository.CapacityMutation{
		Rooms: []*models.Room{room},
		Beds:  []*models.Bed{bed},
	})
}

// SetBedMaintenance đưa giường vào/ra bảo trì, giữ nguyên bất biến bộ đếm
func (s *CapacityService) SetBedMaintenance(ctx context.Context, bedID uint, maintenance bool) error {
	probe, err := s.store.GetBed(ctx, bedID)
	if err != nil {
		return err
	}
	unlock := s.lockRooms(probe.RoomID, 0)
	defer unlock()

	room, err := s.store.GetRoom(ctx, probe.RoomID)
	if err != nil {
		return err
	}
	bed := findBed(room, bedID)
	if bed == nil {
		return errors.NewNotFoundError("giường", fmt.Sprintf("%d", bedID))
	}
	if maintenance {
		err = bed.EnterMaintenance(room)
	} else {
		err = bed.ExitMaintenance(room)
	}
	if err != nil {
		return err
	}
	return s.store.ApplyCapacityMutation(ctx, &repository.CapacityMutation{
		Rooms: []*models.Room{room},
		Beds:  []*models.Bed{bed},
	})
}

// TransferResult kết quả một lần chuyển giường
type TransferResult struct {
	ClosedAssignment *models.BedAssignment
	NewAssignment    *models.BedAssignment
	ToRoom           *models.Room
	ToBed            *models.Bed
}

// Transfer chuyển bệnh nhân của một đợt nhập viện sang phòng/giường mới: trả
// giường cũ, chiếm giường mới, đóng phân công hiện tại và mở phân công mới
// gắn nhãn theo chênh lệch hạng phòng. Toàn bộ thành công hoặc không gì cả.
func (s *CapacityService) Transfer(ctx context.Context, admission *models.InpatientAdmission,
	toRoomID uint, toBedID *uint, reason string) (*TransferResult, error) {

	current, err := s.store.GetCurrentAssignment(ctx, admission.ID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockRooms(current.RoomID, toRoomID)
	defer unlock()

	fromRoom, err := s.store.GetRoom(ctx, current.RoomID)
	if err != nil {
		return nil, err
	}
	toRoom := fromRoom
	if toRoomID != current.RoomID {
		toRoom, err = s.store.GetRoom(ctx, toRoomID)
		if err != nil {
			return nil, err
		}
	}
	if !toRoom.Active {
		return nil, errors.NewValidationError("toRoomId", "phòng đích không hoạt động")
	}

	fromBed := findBed(fromRoom, current.BedID)
	if fromBed == nil {
		return nil, errors.NewConsistencyViolation("assignment-bed",
			fmt.Sprintf("phân công %d trỏ tới giường %d không thuộc phòng %d", current.ID, current.BedID, fromRoom.RoomId))
	}

	var toBed *models.Bed
	if toBedID != nil {
		toBed = findBed(toRoom, *toBedID)
		if toBed == nil {
			return nil, errors.NewNotFoundError("giường", fmt.Sprintf("%d", *toBedID))
		}
	} else {
		toBed = pickFreeBed(toRoom)
		if toBed == nil {
			if toRoom.AvailableBeds > 0 {
				v := errors.NewConsistencyViolation("room-counter",
					fmt.Sprintf("phòng %d báo còn giường trống nhưng không tìm thấy", toRoom.RoomId))
				s.logger.Error("%v", v)
				return nil, v
			}
			return nil, errors.NewCapacityError("giường",
				fmt.Sprintf("phòng %d không còn giường trống", toRoom.RoomId))
		}
	}
	if toBed.BedId == fromBed.BedId {
		return nil, errors.NewValidationError("toBedId", "giường đích trùng giường hiện tại")
	}

	now := s.clock.Now()

	// Các thao tác thuần bên dưới chỉ đổi bản sao trong bộ nhớ; lỗi ở bước nào
	// thì bỏ bản sao đi là xong, store chưa thấy gì.
	if err := fromBed.Release(fromRoom); err != nil {
		return nil, err
	}
	if err := toBed.Occupy(toRoom, admission.PatientID, admission.ID, now); err != nil {
		return nil, err
	}
	current.Close(now)

	next := &models.BedAssignment{
		AdmissionID: admission.ID,
		RoomID:      toRoom.RoomId,
		BedID:       toBed.BedId,
		RoomClass:   toRoom.Class,
		DailyRate:   toRoom.BasePrice,
		Type:        models.AssignmentTypeFor(current.RoomClass, toRoom.Class),
		Reason:      reason,
		AssignedAt:  now,
	}

	admission.CurrentRoomID = toRoom.RoomId
	admission.CurrentBedID = toBed.BedId
	admission.CurrentRate = toRoom.BasePrice

	rooms := []*models.Room{fromRoom}
	if toRoom != fromRoom {
		rooms = append(rooms, toRoom)
	}
	err = s.store.ApplyCapacityMutation(ctx, &repository.CapacityMutation{
		Rooms:             rooms,
		Beds:              []*models.Bed{fromBed, toBed},
		SaveAssignments:   []*models.BedAssignment{current},
		CreateAssignments: []*models.BedAssignment{next},
		SaveAdmission:     admission,
	})
	if err != nil {
		return nil, err
	}
	return &TransferResult{
		ClosedAssignment: current,
		NewAssignment:    next,
		ToRoom:           toRoom,
		ToBed:            toBed,
	}, nil
}

// AuditCounters đối chiếu bộ đếm giường trống của từng phòng với số giường
// trống thực tế; trả về danh sách vi phạm. Dùng cho job kiểm tra định kỳ.
func (s *CapacityService) AuditCounters(ctx context.Context) ([]error, error) {
	rooms, err := s.store.ListRooms(ctx, nil, false)
	if err != nil {
		return nil, err
	}
	var violations []error
	for i := range rooms {
		free := rooms[i].CountFreeBeds()
		if free != rooms[i].AvailableBeds {
			v := errors.NewConsistencyViolation("room-counter",
				fmt.Sprintf("phòng %d: bộ đếm %d, giường trống thực tế %d",
					rooms[i].RoomId, rooms[i].AvailableBeds, free))
			s.logger.Error("%v", v)
			violations = append(violations, v)
		}
	}
	return violations, nil
}

func findBed(room *models.Room, bedID uint) *models.Bed {
	for i := range room.Beds {
		if room.Beds[i].BedId == bedID {
			return &room.Beds[i]
		}
	}
	return nil
}
