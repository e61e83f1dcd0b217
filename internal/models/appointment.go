package models

import "strings"

// Role enum, as resolved by the external auth service.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RoleStaff   Role = "STAFF"
	RolePatient Role = "PATIENT"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusPending   AppointmentStatus = "PENDING"
)

// ParseStatus normalizes s to a known appointment status. The second return
// value is false when s is not one of the four valid statuses.
func ParseStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(strings.ToUpper(s)) {
	case StatusScheduled:
		return StatusScheduled, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusPending:
		return StatusPending, true
	}
	return "", false
}

// Appointment represents a scheduled medical appointment.
//
// Doctor, patient and facility IDs reference entities owned by other
// services and are stored opaquely; no referential integrity is enforced
// here. Dates and times are kept in their canonical string forms
// ("2006-01-02" and "15:04:05") so interval comparisons can run both
// in SQL and in Go.
type Appointment struct {
	BaseModel
	AppointmentID   string            `gorm:"size:50;uniqueIndex" json:"appointmentId"`
	DoctorID        string            `gorm:"size:50;index" json:"doctorId"`
	PatientID       string            `gorm:"size:50;index" json:"patientId"`
	FacilityID      string            `gorm:"size:50;index" json:"facilityId"`
	DoctorName      string            `gorm:"size:100" json:"doctorName"`
	PatientName     string            `gorm:"size:100" json:"patientName"`
	AppointmentDate string            `gorm:"type:date" json:"appointmentDate"`
	StartTime       string            `gorm:"column:appointment_start_time;type:time" json:"appointmentStartTime"`
	EndTime         string            `gorm:"column:appointment_end_time;type:time" json:"appointmentEndTime"`
	PurposeOfVisit  string            `gorm:"size:255" json:"purposeOfVisit"`
	Description     string            `gorm:"type:text" json:"description,omitempty"`
	Status          AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
}
