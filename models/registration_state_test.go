package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/errors"
)

func newRegistration(status int) *EmergencyRegistration {
	return &EmergencyRegistration{
		ID:                 1,
		RegistrationNumber: "ER-20260901-0001",
		ChiefComplaint:     "Đau bụng",
		Status:             status,
	}
}

func TestRegistrationHappyPath(t *testing.T) {
	r := newRegistration(constants.RegStatusRegistered)

	require.NoError(t, r.MarkArrived())
	require.NoError(t, r.MarkTriaged())
	require.NoError(t, r.MarkInTreatment())
	require.NoError(t, r.MarkWaitingResults())
	require.NoError(t, r.MarkResumeTreatment())
	require.NoError(t, r.MarkClosed(constants.DispositionDischarged))

	assert.Equal(t, constants.RegStatusDischarged, r.Status)
	assert.True(t, r.IsTerminal())
	assert.False(t, r.IsActive())
}

func TestRegistrationArrivalOnlyFromRegistered(t *testing.T) {
	r := newRegistration(constants.RegStatusTriaged)
	err := r.MarkArrived()
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
	assert.Equal(t, constants.RegStatusTriaged, r.Status)
}

func TestRegistrationTreatmentRequiresTriageOrArrival(t *testing.T) {
	// Ca nhẹ có thể vào điều trị thẳng sau khi đến khoa, chưa cần phân loại
	r := newRegistration(constants.RegStatusArrived)
	require.NoError(t, r.MarkInTreatment())

	r = newRegistration(constants.RegStatusRegistered)
	err := r.MarkInTreatment()
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
}

func TestRegistrationRetriageFromAnyActive(t *testing.T) {
	level := 3
	for _, status := range []int{
		constants.RegStatusRegistered,
		constants.RegStatusArrived,
		constants.RegStatusTriaged,
		constants.RegStatusInTreatment,
		constants.RegStatusWaitingResults,
	} {
		r := newRegistration(status)
		r.TriageLevel = &level
		assert.NoError(t, r.MarkTriaged(), "phân loại lại phải hợp lệ từ %s", RegStatusName(status))
		assert.Equal(t, constants.RegStatusTriaged, r.Status)
	}
}

func TestRegistrationFirstTriageOnlyBeforeTreatment(t *testing.T) {
	// Lần đầu: hợp lệ từ Đã đăng ký và Đã đến khoa
	for _, status := range []int{constants.RegStatusRegistered, constants.RegStatusArrived} {
		r := newRegistration(status)
		require.NoError(t, r.MarkTriaged())
		assert.Equal(t, constants.RegStatusTriaged, r.Status)
	}

	// Chưa từng phân loại mà đã vào điều trị thì không phân loại lần đầu được nữa
	for _, status := range []int{constants.RegStatusInTreatment, constants.RegStatusWaitingResults} {
		r := newRegistration(status)
		err := r.MarkTriaged()
		require.Error(t, err, "phân loại lần đầu phải bị từ chối từ %s", RegStatusName(status))
		assert.True(t, errors.IsStateConflict(err))
		assert.Equal(t, status, r.Status)
	}
}

func TestRegistrationTerminalIsImmutable(t *testing.T) {
	terminals := []int{
		constants.RegStatusAdmitted,
		constants.RegStatusDischarged,
		constants.RegStatusLeftWithoutTreatment,
		constants.RegStatusTransferred,
		constants.RegStatusDeceased,
	}
	for _, status := range terminals {
		r := newRegistration(status)
		assert.Error(t, r.MarkArrived())
		assert.Error(t, r.MarkTriaged())
		assert.Error(t, r.MarkInTreatment())
		assert.Error(t, r.MarkAdmitted())
		assert.Error(t, r.MarkClosed(constants.DispositionDischarged))
		assert.Equal(t, status, r.Status, "trạng thái đã chốt không được thay đổi")
	}
}

func TestRegistrationWaitingResultsRoundTrip(t *testing.T) {
	r := newRegistration(constants.RegStatusTriaged)
	require.Error(t, r.MarkWaitingResults(), "chưa điều trị thì chưa chờ kết quả được")
	require.Error(t, r.MarkResumeTreatment())

	require.NoError(t, r.MarkInTreatment())
	require.NoError(t, r.MarkWaitingResults())
	require.Error(t, r.MarkWaitingResults())
	require.NoError(t, r.MarkResumeTreatment())
	assert.Equal(t, constants.RegStatusInTreatment, r.Status)
}

func TestRegistrationMarkClosedDispositions(t *testing.T) {
	cases := map[int]int{
		constants.DispositionDischarged:           constants.RegStatusDischarged,
		constants.DispositionTransferred:          constants.RegStatusTransferred,
		constants.DispositionDeceased:             constants.RegStatusDeceased,
		constants.DispositionLeftWithoutTreatment: constants.RegStatusLeftWithoutTreatment,
	}
	for disposition, want := range cases {
		r := newRegistration(constants.RegStatusInTreatment)
		require.NoError(t, r.MarkClosed(disposition))
		assert.Equal(t, want, r.Status)
	}

	r := newRegistration(constants.RegStatusInTreatment)
	err := r.MarkClosed(99)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestRegistrationIsIdentified(t *testing.T) {
	r := newRegistration(constants.RegStatusRegistered)
	assert.False(t, r.IsIdentified())

	id := uint(7)
	r.PatientID = &id
	assert.True(t, r.IsIdentified())
}

func TestMinutesBetween(t *testing.T) {
	from := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, MinutesBetween(from, from.Add(30*time.Second)))
	assert.Equal(t, 12, MinutesBetween(from, from.Add(12*time.Minute)))
	assert.Equal(t, 90, MinutesBetween(from, from.Add(90*time.Minute+59*time.Second)))
}
