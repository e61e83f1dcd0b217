package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthcare-appointment-service/internal/models"
	"healthcare-appointment-service/internal/scheduling"
)

var (
	// ErrNotFound is returned when no appointment matches the given id.
	ErrNotFound = errors.New("appointment not found")
	// ErrConflict is returned when the requested interval overlaps an
	// existing non-cancelled appointment for the same doctor and date.
	ErrConflict = errors.New("doctor already has an appointment scheduled during this time")
)

// Two creations racing on the same sequence value lose to the unique index
// on appointment_id; the loser re-reads the sequence and tries again.
const createAttempts = 3

// AppointmentRepository persists appointments on the shared relational
// store. All methods take an explicit context; transactions roll back on
// any error return.
type AppointmentRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewAppointmentRepository creates a repository over db.
func NewAppointmentRepository(db *gorm.DB, logger zerolog.Logger) *AppointmentRepository {
	return &AppointmentRepository{db: db, logger: logger}
}

// Create allocates the next appointment id, checks for conflicting
// bookings and inserts the appointment, all within one transaction. The
// caller's id and status fields are overwritten: ids are always generated
// server-side and new appointments are always SCHEDULED.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		err := r.tryCreate(ctx, appt)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost an id race to a concurrent creation.
			r.logger.Warn().Int("attempt", attempt+1).Msg("lost appointment id race, retrying")
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("allocating appointment id: %w", lastErr)
}

func (r *AppointmentRepository) tryCreate(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// appointment_id is a varchar; ordering by length first keeps
		// widened identifiers (APT10000 and up) ahead of APT9999.
		var last models.Appointment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("LENGTH(appointment_id) DESC, appointment_id DESC").
			First(&last).Error
		lastID := ""
		switch {
		case err == nil:
			lastID = last.AppointmentID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Empty store, sequence starts at APT0001.
		default:
			return fmt.Errorf("reading last appointment id: %w", err)
		}

		nextID, err := scheduling.NextAppointmentID(lastID)
		if err != nil {
			return fmt.Errorf("generating appointment id: %w", err)
		}

		// Half-open interval overlap against every non-cancelled
		// appointment for this doctor and date. Back-to-back bookings
		// (end == start) do not conflict. The row locks serialize
		// concurrent creations targeting the same doctor-day.
		var conflicts int64
		err = tx.Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND appointment_date = ? AND status <> ?",
				appt.DoctorID, appt.AppointmentDate, models.StatusCancelled).
			Where("appointment_start_time < ? AND appointment_end_time > ?",
				appt.EndTime, appt.StartTime).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("checking for conflicting appointments: %w", err)
		}
		if conflicts > 0 {
			return ErrConflict
		}

		appt.AppointmentID = nextID
		appt.Status = models.StatusScheduled
		if err := tx.Create(appt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return fmt.Errorf("inserting appointment: %w", err)
		}
		return nil
	})
}

// All returns every appointment, ordered by date and start time.
func (r *AppointmentRepository) All(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Order("appointment_date, appointment_start_time").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("fetching appointments: %w", err)
	}
	return appts, nil
}

// ByAppointmentID returns the appointment with the given human-readable id.
func (r *AppointmentRepository) ByAppointmentID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment %s: %w", appointmentID, err)
	}
	return &appt, nil
}

// UpdateStatus overwrites the status of an appointment. No transition
// legality is enforced and no conflict check is re-run; status is the only
// field ever mutated after creation.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, appointmentID string, status models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := r.ByAppointmentID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(appt).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("updating status of appointment %s: %w", appointmentID, err)
	}
	return appt, nil
}

// ByPatient returns all appointments for a patient.
func (r *AppointmentRepository) ByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.byOwner(ctx, "patient_id", patientID)
}

// ByDoctor returns all appointments for a doctor.
func (r *AppointmentRepository) ByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.byOwner(ctx, "doctor_id", doctorID)
}

// ByFacility returns all appointments at a facility.
func (r *AppointmentRepository) ByFacility(ctx context.Context, facilityID string) ([]models.Appointment, error) {
	return r.byOwner(ctx, "facility_id", facilityID)
}

func (r *AppointmentRepository) byOwner(ctx context.Context, column, id string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where(column+" = ?", id).
		Order("appointment_date, appointment_start_time").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("fetching appointments by %s: %w", column, err)
	}
	return appts, nil
}

// CountByStatus returns the number of appointments in the given status.
func (r *AppointmentRepository) CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting appointments by status: %w", err)
	}
	return count, nil
}

// CountByDoctorAndStatus returns the number of a doctor's appointments in
// the given status.
func (r *AppointmentRepository) CountByDoctorAndStatus(ctx context.Context, doctorID string, status models.AppointmentStatus) (int64, error) {
	return r.countByOwnerAndStatus(ctx, "doctor_id", doctorID, status)
}

// CountByPatientAndStatus returns the number of a patient's appointments in
// the given status.
func (r *AppointmentRepository) CountByPatientAndStatus(ctx context.Context, patientID string, status models.AppointmentStatus) (int64, error) {
	return r.countByOwnerAndStatus(ctx, "patient_id", patientID, status)
}

func (r *AppointmentRepository) countByOwnerAndStatus(ctx context.Context, column, id string, status models.AppointmentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where(column+" = ? AND status = ?", id, status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting appointments by %s and status: %w", column, err)
	}
	return count, nil
}

// BookedSlots returns the start/end intervals of every non-cancelled
// appointment for a doctor on a date, for slot-availability calculation.
func (r *AppointmentRepository) BookedSlots(ctx context.Context, doctorID, date string) ([]scheduling.TimeSlot, error) {
	var rows []struct {
		StartTime string `gorm:"column:appointment_start_time"`
		EndTime   string `gorm:"column:appointment_end_time"`
	}
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Select("appointment_start_time, appointment_end_time").
		Where("doctor_id = ? AND appointment_date = ? AND status <> ?",
			doctorID, date, models.StatusCancelled).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching booked slots: %w", err)
	}

	slots := make([]scheduling.TimeSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, scheduling.TimeSlot{StartTime: row.StartTime, EndTime: row.EndTime})
	}
	return slots, nil
}
