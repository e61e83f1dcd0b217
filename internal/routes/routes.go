package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"healthcare-appointment-service/internal/auth"
	"healthcare-appointment-service/internal/handlers"
	"healthcare-appointment-service/internal/middleware"
	"healthcare-appointment-service/internal/models"
	"healthcare-appointment-service/internal/repository"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, verifier auth.Verifier, logger zerolog.Logger) {
	repo := repository.NewAppointmentRepository(db, logger)
	appointmentHandler := handlers.NewAppointmentHandler(repo, logger)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Appointment Microservice Running"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Every appointment route requires a bearer credential resolved by the
	// external auth service; per-route role sets narrow access further.
	api := router.Group("/api/appointments")
	api.Use(middleware.AuthMiddleware(verifier, logger))
	{
		api.GET("/", appointmentHandler.GetAppointments)
		api.POST("/",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RoleStaff),
			appointmentHandler.CreateAppointment)

		api.GET("/id/:appointment_id", appointmentHandler.GetAppointmentByID)
		api.PUT("/id/:appointment_id/status",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RoleStaff),
			appointmentHandler.UpdateAppointmentStatus)

		// Ownership rules for PATIENT and DOCTOR callers are applied inside
		// the handlers via the authz policy.
		api.GET("/patient/:patient_id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RoleStaff, models.RolePatient),
			appointmentHandler.GetPatientAppointments)
		api.GET("/patient/:patient_id/status/:status",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RoleStaff, models.RolePatient),
			appointmentHandler.GetPatientAppointmentCount)
		api.GET("/doctor/:doctor_id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RoleStaff),
			appointmentHandler.GetDoctorAppointments)
		api.GET("/doctor/:doctor_id/status/:status",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RoleStaff),
			appointmentHandler.GetDoctorAppointmentCount)
		api.GET("/facility/:facility_id",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff),
			appointmentHandler.GetFacilityAppointments)

		api.GET("/count/:status",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff),
			appointmentHandler.GetAppointmentCountByStatus)

		api.GET("/slots/available", appointmentHandler.GetAvailableSlots)
	}
}
