package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/models"
	"hospital/repository"
	"hospital/services/logger"
)

// fakeClock cấp thời gian cố định, tua được, cho test các mốc và chỉ số phút
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fixture gom các service nối chung một MemoryStore và một đồng hồ
type fixture struct {
	store        *repository.MemoryStore
	clock        *fakeClock
	capacity     *CapacityService
	registration *RegistrationService
	admission    *AdmissionService
	intervention *InterventionService
}

func newFixture() *fixture {
	store := repository.NewMemoryStore()
	clock := newFakeClock()
	seq := NewMemorySequence()
	quiet := logger.NewDefaultLogger(logger.ErrorLevel)

	capacity := NewCapacityService(CapacityServiceOptions{Store: store, Clock: clock, Logger: quiet})
	return &fixture{
		store:    store,
		clock:    clock,
		capacity: capacity,
		registration: NewRegistrationService(RegistrationServiceOptions{
			Store: store, Sequence: seq, Clock: clock, Logger: quiet,
		}),
		admission: NewAdmissionService(AdmissionServiceOptions{
			Store: store, Capacity: capacity, Sequence: seq, Clock: clock, Logger: quiet,
		}),
		intervention: NewInterventionService(InterventionServiceOptions{
			Store: store, Clock: clock, Logger: quiet,
		}),
	}
}

func (f *fixture) seedPatient(t *testing.T, name string) uint {
	t.Helper()
	p := &models.Patient{FullName: name, Gender: "Nam", PhoneNumber: "0901234567"}
	require.NoError(t, f.store.CreatePatient(context.Background(), p))
	return p.ID
}

func (f *fixture) seedRoom(t *testing.T, name string, class, beds int, price float64) *models.Room {
	t.Helper()
	room := &models.Room{RoomName: name, Class: class, BasePrice: price}
	for i := 0; i < beds; i++ {
		room.Beds = append(room.Beds, models.Bed{BedName: name})
	}
	require.NoError(t, f.capacity.CreateRoom(context.Background(), room))
	return room
}

// seedActiveRegistration tạo phiếu cấp cứu của bệnh nhân đã biết, đã đến khoa
func (f *fixture) seedActiveRegistration(t *testing.T, patientID uint) *models.EmergencyRegistration {
	t.Helper()
	ctx := context.Background()
	reg, err := f.registration.Register(ctx, RegisterInput{
		PatientID:      &patientID,
		ChiefComplaint: "Đau ngực",
	})
	require.NoError(t, err)
	reg, err = f.registration.AcknowledgeArrival(ctx, reg.ID, nil)
	require.NoError(t, err)
	require.Equal(t, constants.RegStatusArrived, reg.Status)
	return reg
}
