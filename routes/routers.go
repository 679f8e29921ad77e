package routes

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"

	"hospital/constants"
	"hospital/controllers"
	middlewares "hospital/middleware"
	"hospital/repository"
	"hospital/services"
)

// Services gom các service được bơm vào tầng HTTP
type Services struct {
	Registration *services.RegistrationService
	Admission    *services.AdmissionService
	Capacity     *services.CapacityService
	Intervention *services.InterventionService
	Lookup       *services.PatientLookupService
}

func SetupRoutes(router *gin.Engine, store repository.Store, svcs Services,
	redisCli *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) {

	registrationController := controllers.NewRegistrationController(svcs.Registration, redisCli, cld)
	admissionController := controllers.NewAdmissionController(svcs.Admission)
	roomController := controllers.NewRoomController(svcs.Capacity, redisCli)
	interventionController := controllers.NewInterventionController(svcs.Intervention)
	patientController := controllers.NewPatientController(store, svcs.Lookup)

	clinical := []int{constants.RoleAdmin, constants.RoleDoctor, constants.RoleNurse}
	frontDesk := []int{constants.RoleAdmin, constants.RoleDoctor, constants.RoleNurse, constants.RoleClerk}

	v1 := router.Group("/api/v1")

	// Tiếp nhận và dòng trạng thái cấp cứu
	v1.POST("/registrations", middlewares.AuthMiddleware(frontDesk...), registrationController.Register)
	v1.GET("/registrations", registrationController.GetBoard)
	v1.GET("/registrations/:id", registrationController.GetRegistration)
	v1.PUT("/registrations/:id/arrival", middlewares.AuthMiddleware(frontDesk...), registrationController.AcknowledgeArrival)
	v1.PUT("/registrations/:id/triage", middlewares.AuthMiddleware(clinical...), registrationController.PerformTriage)
	v1.PUT("/registrations/:id/treatment", middlewares.AuthMiddleware(clinical...), registrationController.StartTreatment)
	v1.PUT("/registrations/:id/waitResults", middlewares.AuthMiddleware(clinical...), registrationController.WaitForResults)
	v1.PUT("/registrations/:id/resumeTreatment", middlewares.AuthMiddleware(clinical...), registrationController.ResumeTreatment)
	v1.PUT("/registrations/:id/identity", middlewares.AuthMiddleware(frontDesk...), registrationController.ResolveIdentity)
	v1.POST("/registrations/:id/photo", middlewares.AuthMiddleware(frontDesk...), registrationController.UploadPhoto)
	v1.PUT("/registrations/:id/disposition", middlewares.AuthMiddleware(clinical...), registrationController.Discharge)

	// Nhật ký can thiệp cấp cứu
	v1.POST("/registrations/:id/interventions", middlewares.AuthMiddleware(clinical...), interventionController.Record)
	v1.GET("/registrations/:id/interventions", interventionController.ListForRegistration)
	v1.PUT("/interventions/:id/rosc", middlewares.AuthMiddleware(clinical...), interventionController.RecordROSC)
	v1.PUT("/interventions/:id/end", middlewares.AuthMiddleware(clinical...), interventionController.EndResuscitation)
	v1.PUT("/interventions/:id/complication", middlewares.AuthMiddleware(clinical...), interventionController.AddComplication)

	// Nhập viện nội trú
	v1.POST("/admissions", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleDoctor), admissionController.CreateAdmission)
	v1.GET("/admissions", admissionController.ListAdmissions)
	v1.GET("/admissions/:id", admissionController.GetAdmission)
	v1.GET("/admissions/:id/assignments", admissionController.ListAssignments)
	v1.PUT("/admissions/:id/treatment", middlewares.AuthMiddleware(clinical...), admissionController.StartTreatment)
	v1.PUT("/admissions/:id/discharge", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleDoctor), admissionController.Discharge)
	v1.PUT("/admissions/:id/transfer", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleDoctor), admissionController.Transfer)
	v1.PUT("/admissions/:id/cancel", middlewares.AuthMiddleware(constants.RoleAdmin, constants.RoleDoctor), admissionController.Cancel)

	// Phòng và giường
	v1.POST("/rooms", middlewares.AuthMiddleware(constants.RoleAdmin), roomController.CreateRoom)
	v1.GET("/rooms", roomController.ListRooms)
	v1.GET("/rooms/:id", roomController.GetRoom)
	v1.PUT("/beds/:id/maintenance", middlewares.AuthMiddleware(constants.RoleAdmin), roomController.SetBedMaintenance)

	// Danh bạ bệnh nhân
	v1.POST("/patients", middlewares.AuthMiddleware(frontDesk...), patientController.CreatePatient)
	v1.GET("/patients", patientController.ListPatients)
	v1.GET("/patients/:id", patientController.GetPatient)
	v1.GET("/patientSuggest", patientController.Suggest)

	// ws
	v1.GET("/test-broadcast", func(c *gin.Context) {
		message := []byte("Thông báo từ backend: kiểm tra kênh sự kiện")
		fmt.Println("Broadcasting message:", string(message))
		m.Broadcast(message)
		c.String(200, "Broadcast message sent!")
	})
}
