package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/errors"
)

func TestIsCriticalIntervention(t *testing.T) {
	critical := []int{
		constants.InterventionResuscitation,
		constants.InterventionDefibrillation,
		constants.InterventionIntubation,
		constants.InterventionChestTube,
	}
	for _, typ := range critical {
		assert.True(t, IsCriticalIntervention(typ), InterventionTypeName(typ))
	}
	assert.False(t, IsCriticalIntervention(constants.InterventionBloodGas))
	assert.False(t, IsCriticalIntervention(constants.InterventionVascularAccess))
	assert.False(t, IsCriticalIntervention(constants.InterventionTransfusion))
}

func TestRecordROSC(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 15, 0, 0, time.UTC)

	i := &EmergencyIntervention{Type: constants.InterventionResuscitation}
	require.NoError(t, i.RecordROSC(at))
	assert.True(t, i.ROSCAchieved)
	assert.Equal(t, at, *i.ROSCAt)

	i = &EmergencyIntervention{Type: constants.InterventionDefibrillation}
	err := i.RecordROSC(at)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.False(t, i.ROSCAchieved)
}

func TestAppendComplication(t *testing.T) {
	i := &EmergencyIntervention{Type: constants.InterventionIntubation}
	assert.False(t, i.HasComplication)

	i.AppendComplication("")
	assert.False(t, i.HasComplication)
	assert.Empty(t, i.Complications)

	i.AppendComplication("Tràn khí màng phổi")
	i.AppendComplication("Tụt huyết áp")
	assert.True(t, i.HasComplication)
	assert.Equal(t, "Tràn khí màng phổi; Tụt huyết áp", i.Complications)
}

func TestInterventionDuration(t *testing.T) {
	i := &EmergencyIntervention{Type: constants.InterventionResuscitation}
	_, ok := i.Duration()
	assert.False(t, ok)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)
	i.StartedAt = &start
	_, ok = i.Duration()
	assert.False(t, ok)

	i.EndedAt = &end
	d, ok := i.Duration()
	require.True(t, ok)
	assert.Equal(t, 25*time.Minute, d)
}
