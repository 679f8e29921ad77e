package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"
	"hospital/repository"
)

func TestCreateAdmissionDirect(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Nguyễn Văn An")
	room := f.seedRoom(t, "P501", constants.RoomClassStandard, 2, 400000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID:          &patientID,
		RoomClass:          &class,
		AdmittingDiagnosis: "Viêm phổi",
		PaymentMethod:      "insurance",
	})
	require.NoError(t, err)

	assert.Equal(t, "ADM-20260901-0001", adm.AdmissionNumber)
	assert.Equal(t, constants.AdmissionStatusAdmitted, adm.Status)
	assert.Equal(t, room.RoomId, adm.CurrentRoomID)
	assert.Equal(t, float64(400000), adm.CurrentRate)
	assert.Equal(t, constants.DefaultDepositDays, adm.DepositDays)
	assert.Equal(t, float64(1200000), adm.RequiredDeposit, "cọc = giá phòng x 3 ngày mặc định")

	// Giường bị chiếm và trỏ ngược về đợt nhập viện vừa tạo
	stored, err := f.capacity.GetRoom(ctx, room.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableBeds)
	bed, err := f.store.GetBed(ctx, adm.CurrentBedID)
	require.NoError(t, err)
	assert.Equal(t, constants.BedStatusOccupied, bed.Status)
	assert.Equal(t, patientID, *bed.PatientID)
	assert.Equal(t, adm.ID, *bed.AdmissionID)

	assignments, err := f.admission.Assignments(ctx, adm.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, constants.AssignmentInitial, assignments[0].Type)
	assert.Equal(t, adm.ID, assignments[0].AdmissionID)
	assert.Equal(t, float64(400000), assignments[0].DailyRate)
	assert.True(t, assignments[0].IsCurrent())
}

func TestCreateAdmissionCustomDepositDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Trần Văn Bảo")
	f.seedRoom(t, "P502", constants.RoomClassVIP, 1, 1500000)

	class := constants.RoomClassVIP
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID:          &patientID,
		RoomClass:          &class,
		AdmittingDiagnosis: "Theo dõi sau mổ",
		DepositDays:        5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, adm.DepositDays)
	assert.Equal(t, float64(7500000), adm.RequiredDeposit)
}

func TestCreateAdmissionSpecificRoomAndBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Lê Thị Cúc")
	room := f.seedRoom(t, "P503", constants.RoomClassDeluxe, 2, 800000)
	wanted := room.Beds[1].BedId

	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID:          &patientID,
		RoomID:             &room.RoomId,
		BedID:              &wanted,
		AdmittingDiagnosis: "Sỏi thận",
	})
	require.NoError(t, err)
	assert.Equal(t, wanted, adm.CurrentBedID)

	// Chỉ định hạng không khớp phòng bị chặn từ đầu
	class := constants.RoomClassVIP
	other := f.seedPatient(t, "Người khác")
	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID:          &other,
		RoomID:             &room.RoomId,
		RoomClass:          &class,
		AdmittingDiagnosis: "Khác",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestCreateAdmissionNoCapacity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.seedPatient(t, "Phạm Văn Dũng")
	second := f.seedPatient(t, "Hoàng Thị Én")
	room := f.seedRoom(t, "P504", constants.RoomClassStandard, 1, 400000)

	class := constants.RoomClassStandard
	_, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &first, RoomClass: &class, AdmittingDiagnosis: "Sốt xuất huyết",
	})
	require.NoError(t, err)

	// Hết giường: lỗi nghiệp vụ, không để lại dấu vết gì
	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &second, RoomClass: &class, AdmittingDiagnosis: "Sốt xuất huyết",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCapacity(err))

	admissions, err := f.admission.List(ctx, repository.AdmissionFilters{PatientID: &second})
	require.NoError(t, err)
	assert.Empty(t, admissions)
	stored, err := f.capacity.GetRoom(ctx, room.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableBeds)
}

func TestOneActiveAdmissionPerPatient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Vũ Văn Giáp")
	f.seedRoom(t, "P505", constants.RoomClassStandard, 4, 400000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Tiểu đường biến chứng",
	})
	require.NoError(t, err)

	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Trùng đợt",
	})
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))

	// Sau khi xuất viện mới nhập lại được
	f.clock.Advance(24 * time.Hour)
	_, err = f.admission.DischargePatient(ctx, adm.ID)
	require.NoError(t, err)
	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Đợt mới",
	})
	require.NoError(t, err)
}

func TestConvertRegistrationToAdmission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Đặng Thị Hoa")
	f.seedRoom(t, "P506", constants.RoomClassICU, 2, 2500000)

	reg := f.seedActiveRegistration(t, patientID)
	a := normalAssessment()
	a.DifficultyBreathing = true
	reg, _, err := f.registration.PerformTriage(ctx, reg.ID, a, nil)
	require.NoError(t, err)

	f.clock.Advance(90 * time.Minute)
	class := constants.RoomClassICU
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		RegistrationID:     &reg.ID,
		RoomClass:          &class,
		AdmittingDiagnosis: "Suy hô hấp cấp",
	})
	require.NoError(t, err)
	assert.Equal(t, patientID, adm.PatientID)
	assert.Equal(t, reg.ID, *adm.RegistrationID)

	// Phiếu cấp cứu được chốt trong cùng đơn vị nguyên tử với đợt nhập viện
	closed, err := f.registration.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RegStatusAdmitted, closed.Status)
	assert.Equal(t, constants.DispositionAdmitted, *closed.Disposition)
	assert.Equal(t, adm.ID, *closed.AdmissionID)
	assert.Equal(t, f.clock.Now(), *closed.ConvertedAt)
	assert.Equal(t, 90, *closed.TotalEDMinutes)

	// Phiếu đã chốt không chuyển đổi lần hai được
	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		RegistrationID: &reg.ID, RoomClass: &class, AdmittingDiagnosis: "Lặp lại",
	})
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
}

func TestConvertRequiresIdentity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedRoom(t, "P507", constants.RoomClassStandard, 2, 400000)

	reg, err := f.registration.Register(ctx, RegisterInput{ChiefComplaint: "Hôn mê"})
	require.NoError(t, err)

	class := constants.RoomClassStandard
	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		RegistrationID: &reg.ID, RoomClass: &class, AdmittingDiagnosis: "Hôn mê chưa rõ nguyên nhân",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err), "chưa xác định danh tính thì chưa chuyển nhập viện")
}

func TestDischargeComputesLengthOfStay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Ngô Văn Inh")
	room := f.seedRoom(t, "P508", constants.RoomClassStandard, 1, 400000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Viêm ruột thừa",
	})
	require.NoError(t, err)

	f.clock.Advance(2*24*time.Hour + 5*time.Hour)
	adm, err = f.admission.DischargePatient(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AdmissionStatusDischarged, adm.Status)
	assert.Equal(t, 2, *adm.LengthOfStay)
	assert.Equal(t, f.clock.Now(), *adm.DischargedAt)

	stored, err := f.capacity.GetRoom(ctx, room.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableBeds)
	assignments, err := f.admission.Assignments(ctx, adm.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.False(t, assignments[0].IsCurrent())

	_, err = f.admission.DischargePatient(ctx, adm.ID)
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err))
}

func TestTransferUpgrade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Lương Thị Kiều")
	standard := f.seedRoom(t, "P509", constants.RoomClassStandard, 2, 400000)
	vip := f.seedRoom(t, "P510", constants.RoomClassVIP, 2, 1500000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Gãy xương đùi",
	})
	require.NoError(t, err)

	f.clock.Advance(6 * time.Hour)
	result, err := f.admission.TransferPatient(ctx, adm.ID, vip.RoomId, nil, "Gia đình yêu cầu")
	require.NoError(t, err)

	assert.Equal(t, constants.AssignmentUpgrade, result.NewAssignment.Type)
	assert.Equal(t, float64(1500000), result.NewAssignment.DailyRate)
	assert.Equal(t, "Gia đình yêu cầu", result.NewAssignment.Reason)
	assert.False(t, result.ClosedAssignment.IsCurrent())
	assert.Equal(t, f.clock.Now(), *result.ClosedAssignment.ReleasedAt)

	// Snapshot đợt nhập viện theo phòng mới, lịch sử giữ giá cũ
	stored, err := f.admission.Get(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, vip.RoomId, stored.CurrentRoomID)
	assert.Equal(t, float64(1500000), stored.CurrentRate)
	require.Len(t, stored.Assignments, 2)
	assert.Equal(t, float64(400000), stored.Assignments[0].DailyRate)

	// Bộ đếm cả hai phòng đều đúng
	from, err := f.capacity.GetRoom(ctx, standard.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 2, from.AvailableBeds)
	to, err := f.capacity.GetRoom(ctx, vip.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 1, to.AvailableBeds)

	bed, err := f.store.GetBed(ctx, result.ToBed.BedId)
	require.NoError(t, err)
	assert.Equal(t, adm.ID, *bed.AdmissionID)
}

func TestTransferToFullRoom(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Tạ Văn Lâm")
	other := f.seedPatient(t, "Người giữ chỗ")
	f.seedRoom(t, "P511", constants.RoomClassStandard, 1, 400000)
	target := f.seedRoom(t, "P512", constants.RoomClassVIP, 1, 1500000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Xuất huyết tiêu hóa",
	})
	require.NoError(t, err)
	vipClass := constants.RoomClassVIP
	_, err = f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &other, RoomClass: &vipClass, AdmittingDiagnosis: "Giữ chỗ",
	})
	require.NoError(t, err)

	_, err = f.admission.TransferPatient(ctx, adm.ID, target.RoomId, nil, "Nâng hạng")
	require.Error(t, err)
	assert.True(t, errors.IsCapacity(err))

	// Không gì thay đổi: bệnh nhân vẫn ở phòng cũ, giường cũ vẫn của họ
	stored, err := f.admission.Get(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, adm.CurrentRoomID, stored.CurrentRoomID)
	current, err := f.store.GetCurrentAssignment(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, adm.CurrentBedID, current.BedID)
}

func TestRoomLockFollowsTransferredAdmission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Bùi Thị Oanh")
	old := f.seedRoom(t, "P515", constants.RoomClassStandard, 2, 400000)
	vip := f.seedRoom(t, "P516", constants.RoomClassVIP, 2, 1500000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Chấn thương sọ não",
	})
	require.NoError(t, err)
	_, err = f.admission.TransferPatient(ctx, adm.ID, vip.RoomId, nil, "Cần theo dõi sát")
	require.NoError(t, err)

	// Caller cầm id phòng đọc trước khi chuyển: khóa phải được khóa lại theo
	// phòng mới, phòng cũ đã nhả ra
	called := false
	err = f.admission.withCurrentRoomLock(ctx, adm.ID, old.RoomId, func(locked *models.InpatientAdmission) error {
		called = true
		assert.Equal(t, vip.RoomId, locked.CurrentRoomID)
		assert.False(t, f.capacity.lockFor(vip.RoomId).TryLock(), "phải đang giữ khóa phòng hiện tại")
		oldLock := f.capacity.lockFor(old.RoomId)
		require.True(t, oldLock.TryLock(), "khóa phòng cũ phải đã được nhả")
		oldLock.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)

	// Xuất viện sau chuyển phòng trả giường đúng phòng mới
	f.clock.Advance(24 * time.Hour)
	_, err = f.admission.DischargePatient(ctx, adm.ID)
	require.NoError(t, err)
	from, err := f.capacity.GetRoom(ctx, old.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 2, from.AvailableBeds)
	to, err := f.capacity.GetRoom(ctx, vip.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 2, to.AvailableBeds)
}

func TestCancelAdmission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Đinh Thị Mai")
	room := f.seedRoom(t, "P513", constants.RoomClassStandard, 1, 400000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Nhập nhầm",
	})
	require.NoError(t, err)

	adm, err = f.admission.CancelAdmission(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AdmissionStatusCancelled, adm.Status)

	stored, err := f.capacity.GetRoom(ctx, room.RoomId)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableBeds, "hủy phải trả lại giường")
	assignments, err := f.admission.Assignments(ctx, adm.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.False(t, assignments[0].IsCurrent())
}

func TestCancelBlockedAfterTreatment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patientID := f.seedPatient(t, "Cao Văn Nam")
	f.seedRoom(t, "P514", constants.RoomClassStandard, 1, 400000)

	class := constants.RoomClassStandard
	adm, err := f.admission.CreateAdmission(ctx, CreateAdmissionInput{
		PatientID: &patientID, RoomClass: &class, AdmittingDiagnosis: "Viêm tụy cấp",
	})
	require.NoError(t, err)
	adm, err = f.admission.StartTreatment(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AdmissionStatusInTreatment, adm.Status)

	_, err = f.admission.CancelAdmission(ctx, adm.ID)
	require.Error(t, err)
	assert.True(t, errors.IsStateConflict(err), "đã có hoạt động lâm sàng thì không hủy được")
}
