package constants

// Trạng thái phiếu đăng ký cấp cứu
const (
	RegStatusRegistered           = 0
	RegStatusArrived              = 1
	RegStatusTriaged              = 2
	RegStatusInTreatment          = 3
	RegStatusWaitingResults       = 4
	RegStatusAdmitted             = 5
	RegStatusDischarged           = 6
	RegStatusLeftWithoutTreatment = 7
	RegStatusTransferred          = 8
	RegStatusDeceased             = 9
)

// Trạng thái nhập viện nội trú
const (
	AdmissionStatusAdmitted    = 0
	AdmissionStatusInTreatment = 1
	AdmissionStatusDischarged  = 2
	AdmissionStatusTransferred = 3
	AdmissionStatusDeceased    = 4
	AdmissionStatusCancelled   = 5
)

// Trạng thái giường
const (
	BedStatusFree        = 0
	BedStatusOccupied    = 1
	BedStatusMaintenance = 2
)

// Hạng phòng, xếp theo thứ tự tăng dần
const (
	RoomClassEconomy  = 0
	RoomClassStandard = 1
	RoomClassDeluxe   = 2
	RoomClassVIP      = 3
	RoomClassICU      = 4
)

// Khu điều trị cấp cứu
const (
	ZoneMinor         = 0
	ZoneUrgent        = 1
	ZoneUrgentHigh    = 2
	ZoneCritical      = 3
	ZoneResuscitation = 4
	ZoneIsolation     = 5
)

// Loại phân công giường
const (
	AssignmentInitial   = 0
	AssignmentTransfer  = 1
	AssignmentUpgrade   = 2
	AssignmentDowngrade = 3
)

// Loại can thiệp cấp cứu
const (
	InterventionResuscitation  = 0
	InterventionAirway         = 1
	InterventionVascularAccess = 2
	InterventionChestTube      = 3
	InterventionDefibrillation = 4
	InterventionTransfusion    = 5
	InterventionIntubation     = 6
	InterventionBloodGas       = 7
)

// Hình thức rời khoa cấp cứu
const (
	DispositionDischarged           = 0
	DispositionAdmitted             = 1
	DispositionTransferred          = 2
	DispositionDeceased             = 3
	DispositionLeftWithoutTreatment = 4
)

// Vai trò nhân viên
const (
	RoleAdmin  = 1
	RoleDoctor = 2
	RoleNurse  = 3
	RoleClerk  = 4
)

// Số ngày đặt cọc mặc định khi nhập viện
const DefaultDepositDays = 3
