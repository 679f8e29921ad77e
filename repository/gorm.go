package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"hospital/constants"
	"hospital/errors"
	"hospital/models"

	"gorm.io/gorm"
)

// GormStore implement Store trên PostgreSQL qua GORM
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func notFoundOr(err error, entity string, id uint) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NewNotFoundError(entity, fmt.Sprintf("%d", id))
	}
	return errors.NewAppError(errors.ErrCodeDBError, "lỗi truy vấn "+entity, err)
}

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "không tạo được phòng", err)
	}
	return nil
}

func (s *GormStore) GetRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).Preload("Beds").First(&room, roomID).Error; err != nil {
		return nil, notFoundOr(err, "phòng", roomID)
	}
	return &room, nil
}

func (s *GormStore) GetBed(ctx context.Context, bedID uint) (*models.Bed, error) {
	var bed models.Bed
	if err := s.db.WithContext(ctx).First(&bed, bedID).Error; err != nil {
		return nil, notFoundOr(err, "giường", bedID)
	}
	return &bed, nil
}

func (s *GormStore) ListRooms(ctx context.Context, class *int, onlyAvailable bool) ([]models.Room, error) {
	tx := s.db.WithContext(ctx).Preload("Beds").Where("active = ?", true)
	if class != nil {
		tx = tx.Where("class = ?", *class)
	}
	if onlyAvailable {
		tx = tx.Where("available_beds > 0")
	}
	var rooms []models.Room
	if err := tx.Order("room_id").Find(&rooms).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "không truy vấn được danh sách phòng", err)
	}
	return rooms, nil
}

func (s *GormStore) SaveBed(ctx context.Context, room *models.Room, bed *models.Bed) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Beds").Save(room).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được phòng", err)
		}
		if err := tx.Save(bed).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được giường", err)
		}
		return nil
	})
}

func (s *GormStore) GetCurrentAssignment(ctx context.Context, admissionID uint) (*models.BedAssignment, error) {
	var a models.BedAssignment
	err := s.db.WithContext(ctx).
		Where("admission_id = ? AND released_at IS NULL", admissionID).
		First(&a).Error
	if err != nil {
		return nil, notFoundOr(err, "phân công giường của đợt nhập viện", admissionID)
	}
	return &a, nil
}

func (s *GormStore) ListAssignments(ctx context.Context, admissionID uint) ([]models.BedAssignment, error) {
	var as []models.BedAssignment
	err := s.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("assigned_at").
		Find(&as).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "không truy vấn được lịch sử phân công giường", err)
	}
	return as, nil
}

func (s *GormStore) ApplyCapacityMutation(ctx context.Context, m *CapacityMutation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.CreateAdmission != nil {
			// Kiểm tra một-đợt-nhập-viện-đang-hoạt-động ngay trong transaction;
			// index unique partial trong schema là chốt chặn cuối.
			var count int64
			err := tx.Model(&models.InpatientAdmission{}).
				Where("patient_id = ? AND status IN ?", m.CreateAdmission.PatientID,
					[]int{constants.AdmissionStatusAdmitted, constants.AdmissionStatusInTreatment}).
				Count(&count).Error
			if err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không kiểm tra được đợt nhập viện đang hoạt động", err)
			}
			if count > 0 {
				return errors.NewStateConflictError(
					fmt.Sprintf("bệnh nhân %d", m.CreateAdmission.PatientID),
					"đang có đợt nhập viện hoạt động", "tạo đợt nhập viện mới")
			}
		}
		for _, room := range m.Rooms {
			if err := tx.Omit("Beds").Save(room).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được phòng", err)
			}
		}
		for _, a := range m.SaveAssignments {
			if err := tx.Save(a).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không đóng được phân công giường", err)
			}
		}
		if m.CreateAdmission != nil {
			if err := tx.Omit("Patient", "Assignments").Create(m.CreateAdmission).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không tạo được đợt nhập viện", err)
			}
		}
		for _, bed := range m.Beds {
			// Giường chiếm trước khi đợt nhập viện có id thì điền lại sau khi tạo
			if m.CreateAdmission != nil && bed.AdmissionID != nil && *bed.AdmissionID == 0 {
				id := m.CreateAdmission.ID
				bed.AdmissionID = &id
			}
			if err := tx.Save(bed).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được giường", err)
			}
		}
		for _, a := range m.CreateAssignments {
			if a.AdmissionID == 0 && m.CreateAdmission != nil {
				a.AdmissionID = m.CreateAdmission.ID
			}
			if err := tx.Create(a).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không tạo được phân công giường", err)
			}
		}
		if m.SaveAdmission != nil {
			if err := tx.Omit("Patient", "Assignments").Save(m.SaveAdmission).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được đợt nhập viện", err)
			}
		}
		if m.SaveRegistration != nil {
			if m.CreateAdmission != nil && m.SaveRegistration.AdmissionID == nil {
				id := m.CreateAdmission.ID
				m.SaveRegistration.AdmissionID = &id
			}
			if m.RegistrationExpectedStatus != nil {
				res := tx.Model(&models.EmergencyRegistration{}).
					Where("id = ? AND status = ?", m.SaveRegistration.ID, *m.RegistrationExpectedStatus).
					Select("*").Omit("id", "created_at").
					Updates(m.SaveRegistration)
				if res.Error != nil {
					return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được phiếu cấp cứu", res.Error)
				}
				if res.RowsAffected == 0 {
					return errors.NewStateConflictError("phiếu cấp cứu "+m.SaveRegistration.RegistrationNumber,
						"đã bị thay đổi đồng thời", "cập nhật từ trạng thái "+models.RegStatusName(*m.RegistrationExpectedStatus))
				}
			} else if err := tx.Omit("Patient", "Assessments").Save(m.SaveRegistration).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được phiếu cấp cứu", err)
			}
		}
		return nil
	})
}

func (s *GormStore) CreateRegistration(ctx context.Context, reg *models.EmergencyRegistration) error {
	if err := s.db.WithContext(ctx).Omit("Patient", "Assessments").Create(reg).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "không tạo được phiếu cấp cứu", err)
	}
	return nil
}

func (s *GormStore) GetRegistration(ctx context.Context, id uint) (*models.EmergencyRegistration, error) {
	var reg models.EmergencyRegistration
	err := s.db.WithContext(ctx).Preload("Patient").Preload("Assessments").First(&reg, id).Error
	if err != nil {
		return nil, notFoundOr(err, "phiếu cấp cứu", id)
	}
	return &reg, nil
}

func (s *GormStore) ListRegistrations(ctx context.Context, f RegistrationFilters) ([]models.EmergencyRegistration, error) {
	tx := s.db.WithContext(ctx).Model(&models.EmergencyRegistration{}).Preload("Patient")
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.Zone != nil {
		tx = tx.Where("triage_zone = ?", *f.Zone)
	}
	if f.Critical != nil {
		tx = tx.Where("critical = ?", *f.Critical)
	}
	if f.Unidentified != nil {
		if *f.Unidentified {
			tx = tx.Where("patient_id IS NULL")
		} else {
			tx = tx.Where("patient_id IS NOT NULL")
		}
	}
	if f.From != nil {
		tx = tx.Where("registered_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("registered_at < ?", *f.To)
	}
	var regs []models.EmergencyRegistration
	if err := tx.Order("registered_at DESC").Find(&regs).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "không truy vấn được danh sách phiếu cấp cứu", err)
	}
	return regs, nil
}

func (s *GormStore) SaveRegistrationGuarded(ctx context.Context, reg *models.EmergencyRegistration,
	expectedStatus int, assessment *models.TriageAssessment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Điều kiện trạng thái được kiểm tra lại ngay lúc ghi: hai caller đua
		// nhau thì chỉ một bên có RowsAffected > 0, bên kia nhận StateConflict.
		res := tx.Model(&models.EmergencyRegistration{}).
			Where("id = ? AND status = ?", reg.ID, expectedStatus).
			Select("*").Omit("id", "created_at").
			Updates(reg)
		if res.Error != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được phiếu cấp cứu", res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.EmergencyRegistration
			if err := tx.First(&current, reg.ID).Error; err != nil {
				return notFoundOr(err, "phiếu cấp cứu", reg.ID)
			}
			return errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
				models.RegStatusName(current.Status), "cập nhật từ trạng thái "+models.RegStatusName(expectedStatus))
		}
		if assessment != nil {
			if err := tx.Create(assessment).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "không lưu được lần đánh giá phân loại", err)
			}
		}
		return nil
	})
}

func (s *GormStore) SaveRegistrationIdentity(ctx context.Context, reg *models.EmergencyRegistration,
	expectedStatus int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Liên kết một chiều: điều kiện patient_id còn trống nằm ngay trong
		// WHERE, lần liên kết thứ hai có RowsAffected = 0.
		res := tx.Model(&models.EmergencyRegistration{}).
			Where("id = ? AND status = ? AND patient_id IS NULL", reg.ID, expectedStatus).
			Select("*").Omit("id", "created_at").
			Updates(reg)
		if res.Error != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được phiếu cấp cứu", res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.EmergencyRegistration
			if err := tx.First(&current, reg.ID).Error; err != nil {
				return notFoundOr(err, "phiếu cấp cứu", reg.ID)
			}
			if current.PatientID != nil {
				return errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
					"đã có danh tính", "liên kết danh tính")
			}
			return errors.NewStateConflictError("phiếu cấp cứu "+reg.RegistrationNumber,
				models.RegStatusName(current.Status), "cập nhật từ trạng thái "+models.RegStatusName(expectedStatus))
		}
		return nil
	})
}

func (s *GormStore) GetAdmission(ctx context.Context, id uint) (*models.InpatientAdmission, error) {
	var adm models.InpatientAdmission
	err := s.db.WithContext(ctx).Preload("Patient").Preload("Assignments").First(&adm, id).Error
	if err != nil {
		return nil, notFoundOr(err, "đợt nhập viện", id)
	}
	return &adm, nil
}

func (s *GormStore) ListAdmissions(ctx context.Context, f AdmissionFilters) ([]models.InpatientAdmission, error) {
	tx := s.db.WithContext(ctx).Model(&models.InpatientAdmission{}).Preload("Patient")
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.PatientID != nil {
		tx = tx.Where("patient_id = ?", *f.PatientID)
	}
	if f.From != nil {
		tx = tx.Where("admitted_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("admitted_at < ?", *f.To)
	}
	var adms []models.InpatientAdmission
	if err := tx.Order("admitted_at DESC").Find(&adms).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "không truy vấn được danh sách nhập viện", err)
	}
	return adms, nil
}

func (s *GormStore) HasActiveAdmission(ctx context.Context, patientID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.InpatientAdmission{}).
		Where("patient_id = ? AND status IN ?", patientID,
			[]int{constants.AdmissionStatusAdmitted, constants.AdmissionStatusInTreatment}).
		Count(&count).Error
	if err != nil {
		return false, errors.NewAppError(errors.ErrCodeDBError, "không kiểm tra được đợt nhập viện đang hoạt động", err)
	}
	return count > 0, nil
}

func (s *GormStore) CreatePatient(ctx context.Context, p *models.Patient) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "không tạo được hồ sơ bệnh nhân", err)
	}
	return nil
}

func (s *GormStore) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var p models.Patient
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "bệnh nhân", id)
	}
	return &p, nil
}

func (s *GormStore) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var ps []models.Patient
	if err := s.db.WithContext(ctx).Find(&ps).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "không truy vấn được danh sách bệnh nhân", err)
	}
	return ps, nil
}

func (s *GormStore) CreateIntervention(ctx context.Context, iv *models.EmergencyIntervention) error {
	if err := s.db.WithContext(ctx).Create(iv).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "không ghi được can thiệp cấp cứu", err)
	}
	return nil
}

func (s *GormStore) GetIntervention(ctx context.Context, id uint) (*models.EmergencyIntervention, error) {
	var iv models.EmergencyIntervention
	if err := s.db.WithContext(ctx).First(&iv, id).Error; err != nil {
		return nil, notFoundOr(err, "can thiệp cấp cứu", id)
	}
	return &iv, nil
}

func (s *GormStore) SaveIntervention(ctx context.Context, iv *models.EmergencyIntervention) error {
	if err := s.db.WithContext(ctx).Save(iv).Error; err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "không cập nhật được can thiệp cấp cứu", err)
	}
	return nil
}

func (s *GormStore) ListInterventions(ctx context.Context, registrationID uint, f InterventionFilters) ([]models.EmergencyIntervention, error) {
	tx := s.db.WithContext(ctx).Where("registration_id = ?", registrationID)
	if f.Type != nil {
		tx = tx.Where("type = ?", *f.Type)
	}
	if f.CriticalOnly {
		tx = tx.Where("type IN ?", []int{
			constants.InterventionResuscitation,
			constants.InterventionDefibrillation,
			constants.InterventionIntubation,
			constants.InterventionChestTube,
		})
	}
	if f.WithComplications {
		tx = tx.Where("has_complication = ?", true)
	}
	var ivs []models.EmergencyIntervention
	if err := tx.Order("occurred_at").Find(&ivs).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "không truy vấn được danh sách can thiệp", err)
	}
	return ivs, nil
}
