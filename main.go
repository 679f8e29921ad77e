package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hospital/config"
	"hospital/jobs"
	"hospital/repository"
	"hospital/routes"
	"hospital/services"
	"hospital/services/logger"
	"hospital/services/notification"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	config.MigrateDB()

	store := repository.NewGormStore(config.DB)
	appLogger := logger.NewDefaultLogger(logger.InfoLevel)
	notifier := notification.NewMelodyService(m)
	sequence := services.NewRedisSequence(config.RedisClient)

	capacity := services.NewCapacityService(services.CapacityServiceOptions{
		Store:  store,
		Logger: appLogger.Named("capacity"),
	})
	registration := services.NewRegistrationService(services.RegistrationServiceOptions{
		Store:    store,
		Sequence: sequence,
		Logger:   appLogger.Named("registration"),
		Notifier: notifier,
	})
	admission := services.NewAdmissionService(services.AdmissionServiceOptions{
		Store:    store,
		Capacity: capacity,
		Sequence: sequence,
		Logger:   appLogger.Named("admission"),
		Notifier: notifier,
	})
	intervention := services.NewInterventionService(services.InterventionServiceOptions{
		Store:  store,
		Logger: appLogger.Named("intervention"),
	})
	lookup := services.NewPatientLookupService(store)

	jobs.SetCapacityAuditor(capacity)
	if err := jobs.InitCronJobs(c, m); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, store, routes.Services{
		Registration: registration,
		Admission:    admission,
		Capacity:     capacity,
		Intervention: intervention,
		Lookup:       lookup,
	}, config.RedisClient, config.Cloudinary, m)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
