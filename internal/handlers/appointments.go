package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"healthcare-appointment-service/internal/authz"
	"healthcare-appointment-service/internal/middleware"
	"healthcare-appointment-service/internal/models"
	"healthcare-appointment-service/internal/repository"
	"healthcare-appointment-service/internal/scheduling"
	"healthcare-appointment-service/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Repo   *repository.AppointmentRepository
	Logger zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(repo *repository.AppointmentRepository, logger zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo, Logger: logger}
}

// CreateAppointmentRequest represents the request body for creating an
// appointment. The id and status are never accepted from the caller.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required"`
	PatientID       string `json:"patientId" binding:"required"`
	FacilityID      string `json:"facilityId" binding:"required"`
	DoctorName      string `json:"doctorName" binding:"required,min=2,max=100"`
	PatientName     string `json:"patientName" binding:"required,min=2,max=100"`
	AppointmentDate string `json:"appointmentDate" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"appointmentStartTime" binding:"required,datetime=15:04:05"`
	EndTime         string `json:"appointmentEndTime" binding:"required,datetime=15:04:05"`
	PurposeOfVisit  string `json:"purposeOfVisit" binding:"required,min=2,max=255"`
	Description     string `json:"description" binding:"omitempty,max=500"`
}

// CreateAppointment handles creating a new appointment. The repository
// allocates the id and rejects overlapping bookings.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.EndTime <= req.StartTime {
		utils.BadRequest(c, "appointmentEndTime must be after appointmentStartTime")
		return
	}
	if req.AppointmentDate < time.Now().Format("2006-01-02") {
		utils.BadRequest(c, "appointmentDate must be today or later")
		return
	}

	appointment := models.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		FacilityID:      req.FacilityID,
		DoctorName:      req.DoctorName,
		PatientName:     req.PatientName,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		PurposeOfVisit:  req.PurposeOfVisit,
		Description:     req.Description,
	}

	if err := h.Repo.Create(c.Request.Context(), &appointment); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			utils.Conflict(c, "Doctor already has an appointment scheduled during this time")
			return
		}
		h.Logger.Error().Err(err).Msg("failed to create appointment")
		utils.InternalServerError(c)
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointments handles fetching all appointments.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments, err := h.Repo.All(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to fetch appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its
// human-readable id.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Repo.ByAppointmentID(c.Request.Context(), c.Param("appointment_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
			return
		}
		h.Logger.Error().Err(err).Msg("failed to fetch appointment")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for updating
// an appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAppointmentStatus overwrites the status of an appointment. Any
// valid status may replace any other; conflicts are not re-checked.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	status, ok := models.ParseStatus(req.Status)
	if !ok {
		utils.BadRequest(c, "status must be one of SCHEDULED, COMPLETED, CANCELLED, PENDING")
		return
	}

	appointment, err := h.Repo.UpdateStatus(c.Request.Context(), c.Param("appointment_id"), status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "Appointment not found")
			return
		}
		h.Logger.Error().Err(err).Msg("failed to update appointment status")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}

// GetPatientAppointments lists a patient's appointments. Patients may only
// list their own.
func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	patientID := c.Param("patient_id")
	if !h.authorizeOwner(c, authz.OwnerPatient, patientID, "Patients can only view their own appointments") {
		return
	}

	appointments, err := h.Repo.ByPatient(c.Request.Context(), patientID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to fetch patient appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetDoctorAppointments lists a doctor's appointments. Doctors may only
// list their own.
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	if !h.authorizeOwner(c, authz.OwnerDoctor, doctorID, "Doctors can only view their own appointments") {
		return
	}

	appointments, err := h.Repo.ByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to fetch doctor appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetFacilityAppointments lists all appointments at a facility.
func (h *AppointmentHandler) GetFacilityAppointments(c *gin.Context) {
	appointments, err := h.Repo.ByFacility(c.Request.Context(), c.Param("facility_id"))
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to fetch facility appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentCountByStatus returns the aggregate count of appointments
// in the status named in the path.
func (h *AppointmentHandler) GetAppointmentCountByStatus(c *gin.Context) {
	status, ok := models.ParseStatus(c.Param("status"))
	if !ok {
		utils.BadRequest(c, "status must be one of scheduled, pending, cancelled, completed")
		return
	}

	count, err := h.Repo.CountByStatus(c.Request.Context(), status)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to count appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointment count fetched successfully", gin.H{"status": status, "count": count})
}

// GetDoctorAppointmentCount returns how many appointments a doctor has in
// a given status. Doctors may only query their own counts.
func (h *AppointmentHandler) GetDoctorAppointmentCount(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	if !h.authorizeOwner(c, authz.OwnerDoctor, doctorID, "Doctors can only view their own appointment counts") {
		return
	}

	status, ok := models.ParseStatus(c.Param("status"))
	if !ok {
		utils.BadRequest(c, "status must be one of SCHEDULED, COMPLETED, CANCELLED, PENDING")
		return
	}

	count, err := h.Repo.CountByDoctorAndStatus(c.Request.Context(), doctorID, status)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to count doctor appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointment count fetched successfully",
		gin.H{"doctorId": doctorID, "status": status, "count": count})
}

// GetPatientAppointmentCount returns how many appointments a patient has in
// a given status. Patients may only query their own counts.
func (h *AppointmentHandler) GetPatientAppointmentCount(c *gin.Context) {
	patientID := c.Param("patient_id")
	if !h.authorizeOwner(c, authz.OwnerPatient, patientID, "Patients can only view their own appointment counts") {
		return
	}

	status, ok := models.ParseStatus(c.Param("status"))
	if !ok {
		utils.BadRequest(c, "status must be one of SCHEDULED, COMPLETED, CANCELLED, PENDING")
		return
	}

	count, err := h.Repo.CountByPatientAndStatus(c.Request.Context(), patientID, status)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to count patient appointments")
		utils.InternalServerError(c)
		return
	}
	utils.Success(c, "Appointment count fetched successfully",
		gin.H{"patientId": patientID, "status": status, "count": count})
}

// GetAvailableSlots computes the open hourly slots for a doctor on a date
// by subtracting booked intervals from the working-hour grid.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Query("doctor_id")
	if doctorID == "" {
		utils.BadRequest(c, "doctor_id query parameter is required")
		return
	}
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.BadRequest(c, "date query parameter must be in YYYY-MM-DD format")
		return
	}

	booked, err := h.Repo.BookedSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to fetch booked slots")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Available slots fetched successfully", scheduling.AvailableSlots(booked))
}

// authorizeOwner enforces the row-level visibility rule for the caller. It
// writes the error response and returns false when access is refused.
func (h *AppointmentHandler) authorizeOwner(c *gin.Context, owner authz.OwnerKind, ownerID, message string) bool {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Caller identity not resolved")
		return false
	}
	if err := authz.CanRead(identity, owner, ownerID); err != nil {
		utils.Forbidden(c, message)
		return false
	}
	return true
}
