package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/errors"
)

func newRoomWithBed() (*Room, *Bed) {
	room := &Room{
		RoomId:        1,
		RoomName:      "P101",
		Class:         constants.RoomClassStandard,
		TotalBeds:     2,
		AvailableBeds: 2,
		BasePrice:     400000,
		Active:        true,
	}
	bed := &Bed{BedId: 10, RoomID: 1, BedName: "P101-1", Status: constants.BedStatusFree}
	return room, bed
}

func TestBedOccupyRelease(t *testing.T) {
	room, bed := newRoomWithBed()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, bed.Occupy(room, 5, 12, now))
	assert.Equal(t, constants.BedStatusOccupied, bed.Status)
	assert.Equal(t, uint(5), *bed.PatientID)
	assert.Equal(t, uint(12), *bed.AdmissionID)
	assert.Equal(t, now, *bed.OccupiedSince)
	assert.Equal(t, 1, room.AvailableBeds)

	// Giường đang có người thì không nhận thêm, bộ đếm giữ nguyên
	err := bed.Occupy(room, 6, 13, now)
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
	assert.Equal(t, uint(5), *bed.PatientID)
	assert.Equal(t, 1, room.AvailableBeds)

	require.NoError(t, bed.Release(room))
	assert.Equal(t, constants.BedStatusFree, bed.Status)
	assert.Nil(t, bed.PatientID)
	assert.Nil(t, bed.AdmissionID)
	assert.Nil(t, bed.OccupiedSince)
	assert.Equal(t, 2, room.AvailableBeds)

	err = bed.Release(room)
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
	assert.Equal(t, 2, room.AvailableBeds, "trả giường trống không được cộng bộ đếm")
}

func TestBedOccupyWrongRoom(t *testing.T) {
	room, bed := newRoomWithBed()
	bed.RoomID = 99
	err := bed.Occupy(room, 5, 12, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsConsistency(err))
	assert.Equal(t, constants.BedStatusFree, bed.Status)
	assert.Equal(t, 2, room.AvailableBeds)
}

func TestBedOccupyCounterExhausted(t *testing.T) {
	room, bed := newRoomWithBed()
	room.AvailableBeds = 0
	err := bed.Occupy(room, 5, 12, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsConsistency(err))
	assert.Equal(t, constants.BedStatusFree, bed.Status)
}

func TestBedMaintenance(t *testing.T) {
	room, bed := newRoomWithBed()

	require.NoError(t, bed.EnterMaintenance(room))
	assert.Equal(t, constants.BedStatusMaintenance, bed.Status)
	assert.Equal(t, 1, room.AvailableBeds)

	// Giường bảo trì không nhận bệnh nhân
	err := bed.Occupy(room, 5, 12, time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))

	require.NoError(t, bed.ExitMaintenance(room))
	assert.Equal(t, constants.BedStatusFree, bed.Status)
	assert.Equal(t, 2, room.AvailableBeds)

	// Giường đang có người không được kéo vào bảo trì
	require.NoError(t, bed.Occupy(room, 5, 12, time.Now()))
	err = bed.EnterMaintenance(room)
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
	assert.Equal(t, constants.BedStatusOccupied, bed.Status)
}

func TestRoomCountFreeBeds(t *testing.T) {
	room := &Room{
		RoomId: 1, TotalBeds: 3, AvailableBeds: 1,
		Beds: []Bed{
			{BedId: 1, RoomID: 1, Status: constants.BedStatusFree},
			{BedId: 2, RoomID: 1, Status: constants.BedStatusOccupied},
			{BedId: 3, RoomID: 1, Status: constants.BedStatusMaintenance},
		},
	}
	assert.Equal(t, 1, room.CountFreeBeds())
	assert.Equal(t, room.AvailableBeds, room.CountFreeBeds())
}

func TestAssignmentTypeFor(t *testing.T) {
	assert.Equal(t, constants.AssignmentUpgrade,
		AssignmentTypeFor(constants.RoomClassStandard, constants.RoomClassVIP))
	assert.Equal(t, constants.AssignmentDowngrade,
		AssignmentTypeFor(constants.RoomClassVIP, constants.RoomClassEconomy))
	assert.Equal(t, constants.AssignmentTransfer,
		AssignmentTypeFor(constants.RoomClassDeluxe, constants.RoomClassDeluxe))
}
