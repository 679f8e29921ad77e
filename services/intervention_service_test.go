package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/errors"
	"hospital/repository"
)

func TestRecordIntervention(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Nguyễn Văn An")
	reg := f.seedActiveRegistration(t, patientID)

	nurse := uint(4)
	iv, err := f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID,
		Type:           constants.InterventionVascularAccess,
		PerformedBy:    &nurse,
		Notes:          "Kim 18G tay phải",
	})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), iv.OccurredAt)
	assert.Nil(t, iv.StartedAt, "chỉ hồi sức mới có mốc bắt đầu")

	// Can thiệp thường không bật cờ nguy kịch
	stored, err := f.registration.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.False(t, stored.Critical)
}

func TestRecordInterventionValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Trần Thị Bích")
	reg := f.seedActiveRegistration(t, patientID)

	_, err := f.intervention.Record(ctx, RecordInput{RegistrationID: reg.ID, Type: 99})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	// Phiếu đã chốt không nhận thêm can thiệp
	_, err = f.registration.Discharge(ctx, reg.ID, constants.DispositionDischarged, "", nil)
	require.NoError(t, err)
	_, err = f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID, Type: constants.InterventionBloodGas,
	})
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
}

func TestCriticalInterventionRaisesFlag(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Lê Văn Chiến")
	reg := f.seedActiveRegistration(t, patientID)

	_, err := f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID, Type: constants.InterventionDefibrillation,
	})
	require.NoError(t, err)

	stored, err := f.registration.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.True(t, stored.Critical)

	// Cờ đã bật thì các can thiệp sau giữ nguyên
	_, err = f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID, Type: constants.InterventionBloodGas,
	})
	require.NoError(t, err)
	stored, err = f.registration.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.True(t, stored.Critical)
}

func TestResuscitationLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Phan Văn Đạt")
	reg := f.seedActiveRegistration(t, patientID)

	iv, err := f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID, Type: constants.InterventionResuscitation,
	})
	require.NoError(t, err)
	require.NotNil(t, iv.StartedAt)
	assert.Equal(t, f.clock.Now(), *iv.StartedAt)

	f.clock.Advance(18 * time.Minute)
	iv, err = f.intervention.RecordROSC(ctx, iv.ID)
	require.NoError(t, err)
	assert.True(t, iv.ROSCAchieved)
	assert.Equal(t, f.clock.Now(), *iv.ROSCAt)

	f.clock.Advance(7 * time.Minute)
	iv, err = f.intervention.EndResuscitation(ctx, iv.ID)
	require.NoError(t, err)
	d, ok := iv.Duration()
	require.True(t, ok)
	assert.Equal(t, 25*time.Minute, d)

	// Kết thúc lần hai bị từ chối, mốc cũ giữ nguyên
	_, err = f.intervention.EndResuscitation(ctx, iv.ID)
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
}

func TestROSCOnlyOnResuscitation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Hồ Thị Em")
	reg := f.seedActiveRegistration(t, patientID)

	iv, err := f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID, Type: constants.InterventionIntubation,
	})
	require.NoError(t, err)

	_, err = f.intervention.RecordROSC(ctx, iv.ID)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	_, err = f.intervention.EndResuscitation(ctx, iv.ID)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAddComplicationAppendOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Dương Văn Phú")
	reg := f.seedActiveRegistration(t, patientID)

	iv, err := f.intervention.Record(ctx, RecordInput{
		RegistrationID: reg.ID, Type: constants.InterventionChestTube,
	})
	require.NoError(t, err)

	_, err = f.intervention.AddComplication(ctx, iv.ID, "")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	iv, err = f.intervention.AddComplication(ctx, iv.ID, "Chảy máu chân ống")
	require.NoError(t, err)
	iv, err = f.intervention.AddComplication(ctx, iv.ID, "Nhiễm trùng tại chỗ")
	require.NoError(t, err)
	assert.Equal(t, "Chảy máu chân ống; Nhiễm trùng tại chỗ", iv.Complications)
	assert.True(t, iv.HasComplication)
}

func TestListInterventionsFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Trịnh Văn Quang")
	reg := f.seedActiveRegistration(t, patientID)

	types := []int{
		constants.InterventionVascularAccess,
		constants.InterventionResuscitation,
		constants.InterventionBloodGas,
	}
	var withComplication uint
	for _, typ := range types {
		iv, err := f.intervention.Record(ctx, RecordInput{RegistrationID: reg.ID, Type: typ})
		require.NoError(t, err)
		if typ == constants.InterventionBloodGas {
			withComplication = iv.ID
		}
		f.clock.Advance(time.Minute)
	}
	_, err := f.intervention.AddComplication(ctx, withComplication, "Tụ máu nơi chọc")
	require.NoError(t, err)

	all, err := f.intervention.ListForRegistration(ctx, reg.ID, repository.InterventionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].OccurredAt.Before(all[1].OccurredAt), "nhật ký xếp theo thời gian ghi")

	out, err := f.intervention.ListForRegistration(ctx, reg.ID, repository.InterventionFilters{CriticalOnly: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, constants.InterventionResuscitation, out[0].Type)

	out, err = f.intervention.ListForRegistration(ctx, reg.ID, repository.InterventionFilters{WithComplications: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, constants.InterventionBloodGas, out[0].Type)

	_, err = f.intervention.ListForRegistration(ctx, 9999, repository.InterventionFilters{})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
