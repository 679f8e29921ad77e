package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hospital/models"
)

var DB *gorm.DB

func getDBConfigByEnv(env string) string {
	var user, password, host, port, name string

	switch env {
	case "dev":
		user = os.Getenv("DEV_DB_USER")
		password = os.Getenv("DEV_DB_PASSWORD")
		host = os.Getenv("DEV_DB_HOST")
		port = os.Getenv("DEV_DB_PORT")
		name = os.Getenv("DEV_DB_NAME")
	case "prod":
		user = os.Getenv("PROD_DB_USER")
		password = os.Getenv("PROD_DB_PASSWORD")
		host = os.Getenv("PROD_DB_HOST")
		port = os.Getenv("PROD_DB_PORT")
		name = os.Getenv("PROD_DB_NAME")
	default:
		log.Fatalf("Unknown environment: %s", env)
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require TimeZone=Asia/Ho_Chi_Minh",
		host, user, password, name, port)
}

func ConnectDB() {
	var err error
	env := os.Getenv("ENV")
	dsn := getDBConfigByEnv(env)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Fail to connect to db : %v", err)
	}

	fmt.Println("Successfully connected to db")
}

// MigrateDB tạo schema và các index ràng buộc nghiệp vụ
func MigrateDB() {
	if err := DB.AutoMigrate(
		&models.Patient{},
		&models.Room{},
		&models.Bed{},
		&models.EmergencyRegistration{},
		&models.TriageAssessment{},
		&models.InpatientAdmission{},
		&models.BedAssignment{},
		&models.EmergencyIntervention{},
	); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	// Chốt chặn cuối cùng cho quy tắc mỗi bệnh nhân một đợt nhập viện hoạt động:
	// unique index một phần trên các trạng thái đang hoạt động
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_admission
		ON inpatient_admissions (patient_id) WHERE status IN (0, 1)`).Error; err != nil {
		log.Fatalf("Failed to create active admission index: %v", err)
	}
}
