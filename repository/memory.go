package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"
)

// MemoryStore implement Store trong bộ nhớ, dùng cho test khi chưa có DB.
// Toàn bộ thao tác ghi chạy dưới một mutex nên giữ được cùng ngữ nghĩa
// nguyên tử với GormStore.
type MemoryStore struct {
	mu sync.Mutex

	rooms         map[uint]models.Room
	beds          map[uint]models.Bed
	assignments   map[uint]models.BedAssignment
	registrations map[uint]models.EmergencyRegistration
	assessments   map[uint]models.TriageAssessment
	admissions    map[uint]models.InpatientAdmission
	patients      map[uint]models.Patient
	interventions map[uint]models.EmergencyIntervention

	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:         map[uint]models.Room{},
		beds:          map[uint]models.Bed{},
		assignments:   map[uint]models.BedAssignment{},
		registrations: map[uint]models.EmergencyRegistration{},
		assessments:   map[uint]models.TriageAssessment{},
		admissions:    map[uint]models.InpatientAdmission{},
		patients:      map[uint]models.Patient{},
		interventions: map[uint]models.EmergencyIntervention{},
	}
}

func (s *MemoryStore) nextSeq() uint {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.RoomId == 0 {
		room.RoomId = s.nextSeq()
	}
	for i := range room.Beds {
		if room.Beds[i].BedId == 0 {
			room.Beds[i].BedId = s.nextSeq()
		}
		room.Beds[i].RoomID = room.RoomId
		s.beds[room.Beds[i].BedId] = room.Beds[i]
	}
	stored := *room
	stored.Beds = nil
	s.rooms[room.RoomId] = stored
	return nil
}

func (s *MemoryStore) getRoomLocked(roomID uint) (*models.Room, error) {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, errors.NewNotFoundError("phòng", fmt.Sprintf("%d", roomID))
	}
	for _, b := range s.beds {
		if b.RoomID == roomID {
			room.Beds = append(room.Beds, b)
		}
	}
	sort.Slice(room.Beds, func(i, j int) bool { return room.Beds[i].BedId < room.Beds[j].BedId })
	return &room, nil
}

func (s *MemoryStore) GetRoom(_ context.Context, roomID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getRoomLocked(roomID)
}

func (s *MemoryStore) GetBed(_ context.Context, bedID uint) (*models.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bed, ok := s.beds[bedID]
	if !ok {
		return nil, errors.NewNotFoundError("giường", fmt.Sprintf("%d", bedID))
	}
	return &bed, nil
}

func (s *MemoryStore) ListRooms(_ context.Context, class *int, onlyAvailable bool) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Room
	for _, room := range s.rooms {
		if !room.Active {
			continue
		}
		if class != nil && room.Class != *class {
			continue
		}
		if onlyAvailable && room.AvailableBeds <= 0 {
			continue
		}
		full, _ := s.getRoomLocked(room.RoomId)
		out = append(out, *full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomId < out[j].RoomId })
	return out, nil
}

func (s *MemoryStore) SaveBed(_ context.Context, room *models.Room, bed *models.Bed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *room
	stored.Beds = nil
	s.rooms[room.RoomId] = stored
	s.beds[bed.BedId] = *bed
	return nil
}

func (s *MemoryStore) GetCurrentAssignment(_ context.Context, admissionID uint) (*models.BedAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.AdmissionID == admissionID && a.ReleasedAt == nil {
			found := a
			return &found, nil
		}
	}
	return nil, errors.NewNotFoundError("phân công giường của đợt nhập viện", fmt.Sprintf("%d", admissionID))
}

func (s *MemoryStore) ListAssignments(_ context.Context, admissionID uint) ([]models.BedAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BedAssignment
	for _, a := range s.assignments {
		if a.AdmissionID == admissionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedAt.Before(out[j].AssignedAt) })
	return out, nil
}

func (s *MemoryStore) hasActiveAdmissionLocked(patientID uint) bool {
	for _, adm := range s.admissions {
		if adm.PatientID != patientID {
			continue
		}
		if adm.Status == constants.AdmissionStatusAdmitted || adm.Status == constants.AdmissionStatusInTreatment {
			return true
		}
	}
	return false
}

func (s *MemoryStore) ApplyCapacityMutation(_ context.Context, m *CapacityMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.CreateAdmission != nil && s.hasActiveAdmissionLocked(m.CreateAdmission.PatientID) {
		return errors.NewStateConflictError(
			fmt.Sprintf("bệnh nhân %d", m.CreateAdmission.PatientID),
			"đang có đợt nhập viện hoạt động", "tạo đợt nhập viện mới")
	}
	if m.SaveRegistration != nil && m.RegistrationExpectedStatus != nil {
		current, ok := s.registrations[m.SaveRegistration.ID]
		if !ok {
			return errors.NewNotFoundError("phiếu cấp cứu", fmt.Sprintf("%d", m.SaveRegistration.ID))
		}
		if current.Status != *m.RegistrationExpectedStatus {
			return errors.NewStateConflictError("phiếu cấp cứu "+m.SaveRegistration.RegistrationNumber,
				models.RegStatusName(current.Status),
				"cập nhật từ trạng thái "+models.RegStatusName(*m.RegistrationExpectedStatus))
		}
	}

	for _, room := range m.Rooms {
		stored := *room
		stored.Beds = nil
		s.rooms[room.RoomId] = stored
	}
	for _, a := range m.SaveAssignments {
		s.assignments[a.ID] = *a
	}
	if m.CreateAdmission != nil {
		if m.CreateAdmission.ID == 0 {
			m.CreateAdmission.ID = s.nextSeq()
		}
		stored := *m.CreateAdmission
		stored.Assignments = nil
		stored.Patient = nil
		s.admissions[stored.ID] = stored
	}
	for _, bed := range m.Beds {
		if m.CreateAdmission != nil && bed.AdmissionID != nil && *bed.AdmissionID == 0 {
			id := m.CreateAdmission.ID
			bed.AdmissionID = &id
		}
		s.beds[bed.BedId] = *bed
	}
	for _, a := range m.CreateAssignments {
		if a.ID == 0 {
			a.ID = s.nextSeq()
		}
		if a.AdmissionID == 0 && m.CreateAdmission != nil {
			a.AdmissionID = m.CreateAdmission.ID
		}
		s.assignments[a.ID] = *a
	}
	if m.SaveAdmission != nil {
		stored := *m.SaveAdmission
		stored.Assignments = nil
		stored.Patient = nil
		s.admissions[stored.ID] = stored
	}
	if m.SaveRegistration != nil {
		if m.CreateAdmission != nil && m.SaveRegistration.AdmissionID == nil {
			id := m.CreateAdmission.ID
			m.SaveRegistration.AdmissionID = &id
		}
		stored := *m.SaveRegistration
		stored.Assessments = nil
		stored.Patient = nil
		s.registrations[stored.ID] = stored
	}
	return nil
}

func (s *MemoryStore) CreateRegistration(_ context.Context, reg *models.EmergencyRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg.ID == 0 {
		reg.ID = s.nextSeq()
	}
	stored := *reg
	stored.Assessments = nil
	stored.Patient = nil
	s.registrations[reg.ID] = stored
	return nil
}

func (s *MemoryStore) GetRegistration(_ context.Context, id uint) (*models.EmergencyRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, errors.NewNotFoundError("phiếu cấp cứu", fmt.Sprintf("%d", id))
	}
	for _, a := range s.assessments {
		if a.RegistrationID == id {
			reg.Assessments = append(reg.Assessments, a)
		}
	}
	sort.Slice(reg.Assessments, func(i, j int) bool {
		return reg.Assessments[i].AssessedAt.Before(reg.Assessments[j].AssessedAt)
	})
	if reg.PatientID != nil {
		if p, ok := s.patients[*reg.PatientID]; ok {
			reg.Patient = &p
		}
	}
	return &reg, nil
}

func (s *MemoryStore) ListRegistrations(_ context.Context, f RegistrationFilters) ([]models.EmergencyRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EmergencyRegistration
	for _, reg := range s.registrations {
		if f.Status != nil && reg.Status != *f.Status {
			continue
		}
		if f.Zone != nil && (reg.TriageZone == nil || *reg.TriageZone != *f.Zone) {
			continue
		}
		if f.Critical != nil && reg.Critical != *f.Critical {
			continue
		}
		if f.Unidentified != nil && (reg.PatientID == nil) != *f.Unidentified {
			continue
		}
		if f.From != nil && reg.RegisteredAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !reg.RegisteredAt.Before(*f.To) {
			continue
		}
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (s *MemoryStore) SaveRegistrationGuarded(_ context.Context, reg *models.EmergencyRegistration,
	expectedStatus int, assessment *models.TriageAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.registrations[reg.ID]
	if !ok {
		return errors.NewNotFoundError("phiếu cấp cứu", fmt.Sprintf("%d", reg.ID))
	}
	if current.Status != expectedStatus {
		return errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
			models.RegStatusName(current.Status), "cập nhật từ trạng thái "+models.RegStatusName(expectedStatus))
	}
	stored := *reg
	stored.Assessments = nil
	stored.Patient = nil
	s.registrations[reg.ID] = stored
	if assessment != nil {
		if assessment.ID == 0 {
			assessment.ID = s.nextSeq()
		}
		s.assessments[assessment.ID] = *assessment
	}
	return nil
}

func (s *MemoryStore) SaveRegistrationIdentity(_ context.Context, reg *models.EmergencyRegistration,
	expectedStatus int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.registrations[reg.ID]
	if !ok {
		return errors.NewNotFoundError("phiếu cấp cứu", fmt.Sprintf("%d", reg.ID))
	}
	if current.PatientID != nil {
		return errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
			"đã có danh tính", "liên kết danh tính")
	}
	if current.Status != expectedStatus {
		return errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
			models.RegStatusName(current.Status), "cập nhật từ trạng thái "+models.RegStatusName(expectedStatus))
	}
	stored := *reg
	stored.Assessments = nil
	stored.Patient = nil
	s.registrations[reg.ID] = stored
	return nil
}

func (s *MemoryStore) GetAdmission(_ context.Context, id uint) (*models.InpatientAdmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	adm, ok := s.admissions[id]
	if !ok {
		return nil, errors.NewNotFoundError("đợt nhập viện", fmt.Sprintf("%d", id))
	}
	for _, a := range s.assignments {
		if a.AdmissionID == id {
			adm.Assignments = append(adm.Assignments, a)
		}
	}
	sort.Slice(adm.Assignments, func(i, j int) bool {
		return adm.Assignments[i].AssignedAt.Before(adm.Assignments[j].AssignedAt)
	})
	if p, ok := s.patients[adm.PatientID]; ok {
		adm.Patient = &p
	}
	return &adm, nil
}

func (s *MemoryStore) ListAdmissions(_ context.Context, f AdmissionFilters) ([]models.InpatientAdmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.InpatientAdmission
	for _, adm := range s.admissions {
		if f.Status != nil && adm.Status != *f.Status {
			continue
		}
		if f.PatientID != nil && adm.PatientID != *f.PatientID {
			continue
		}
		if f.From != nil && adm.AdmittedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !adm.AdmittedAt.Before(*f.To) {
			continue
		}
		out = append(out, adm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdmittedAt.After(out[j].AdmittedAt) })
	return out, nil
}

func (s *MemoryStore) HasActiveAdmission(_ context.Context, patientID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasActiveAdmissionLocked(patientID), nil
}

func (s *MemoryStore) CreatePatient(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextSeq()
	}
	s.patients[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, errors.NewNotFoundError("bệnh nhân", fmt.Sprintf("%d", id))
	}
	return &p, nil
}

func (s *MemoryStore) ListPatients(_ context.Context) ([]models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Patient
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateIntervention(_ context.Context, iv *models.EmergencyIntervention) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv.ID == 0 {
		iv.ID = s.nextSeq()
	}
	s.interventions[iv.ID] = *iv
	return nil
}

func (s *MemoryStore) GetIntervention(_ context.Context, id uint) (*models.EmergencyIntervention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interventions[id]
	if !ok {
		return nil, errors.NewNotFoundError("can thiệp cấp cứu", fmt.Sprintf("%d", id))
	}
	return &iv, nil
}

func (s *MemoryStore) SaveIntervention(_ context.Context, iv *models.EmergencyIntervention) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interventions[iv.ID]; !ok {
		return errors.NewNotFoundError("can thiệp cấp cứu", fmt.Sprintf("%d", iv.ID))
	}
	s.interventions[iv.ID] = *iv
	return nil
}

func (s *MemoryStore) ListInterventions(_ context.Context, registrationID uint, f InterventionFilters) ([]models.EmergencyIntervention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EmergencyIntervention
	for _, iv := range s.interventions {
		if iv.RegistrationID != registrationID {
			continue
		}
		if f.Type != nil && iv.Type != *f.Type {
			continue
		}
		if f.CriticalOnly && !models.IsCriticalIntervention(iv.Type) {
			continue
		}
		if f.WithComplications && !iv.HasComplication {
			continue
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
