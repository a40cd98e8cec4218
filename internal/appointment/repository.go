package appointment

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/types"
)

// Repository provides database operations for appointments
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new appointment repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `
	a.id, a.patient_id, a.doctor_id,
	to_char(a.appointment_date, 'YYYY-MM-DD'),
	to_char(a.appointment_time, 'HH24:MI'),
	COALESCE(a.note, ''), a.status, a.created_at, a.updated_at`

// Create inserts a booking. The slot uniqueness constraint on
// (doctor_id, appointment_date, appointment_time) rejects double booking.
func (r *Repository) Create(ctx context.Context, appt *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, note, status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		appt.ID, appt.PatientID, appt.DoctorID,
		appt.AppointmentDate, appt.AppointmentTime, appt.Reason, appt.Status,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("the doctor already has an appointment at that time")
		}
		return errors.Wrap(err, "failed to create appointment")
	}
	return nil
}

// GetByID retrieves an appointment with its patient contact joined in,
// so a status change can be notified without a second lookup.
func (r *Repository) GetByID(ctx context.Context, id types.ID) (*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `,
			d.full_name, COALESCE(p.full_name, ''), u.email
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		JOIN users u ON u.id = p.user_id
		WHERE a.id = $1`

	var appt Appointment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&appt.ID, &appt.PatientID, &appt.DoctorID,
		&appt.AppointmentDate, &appt.AppointmentTime,
		&appt.Reason, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
		&appt.DoctorName, &appt.PatientName, &appt.PatientEmail,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("appointment", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get appointment")
	}
	return &appt, nil
}

// ListByPatient lists a patient's appointments, newest slot first.
func (r *Repository) ListByPatient(ctx context.Context, patientID types.ID) ([]*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `, d.full_name
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}
	defer rows.Close()

	var appointments []*Appointment
	for rows.Next() {
		var appt Appointment
		err := rows.Scan(
			&appt.ID, &appt.PatientID, &appt.DoctorID,
			&appt.AppointmentDate, &appt.AppointmentTime,
			&appt.Reason, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
			&appt.DoctorName,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan appointment")
		}
		appointments = append(appointments, &appt)
	}
	return appointments, rows.Err()
}

// ListByDoctor lists a doctor's appointments, earliest slot first.
func (r *Repository) ListByDoctor(ctx context.Context, doctorID types.ID) ([]*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `, COALESCE(p.full_name, '')
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date, a.appointment_time`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}
	defer rows.Close()

	var appointments []*Appointment
	for rows.Next() {
		var appt Appointment
		err := rows.Scan(
			&appt.ID, &appt.PatientID, &appt.DoctorID,
			&appt.AppointmentDate, &appt.AppointmentTime,
			&appt.Reason, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
			&appt.PatientName,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan appointment")
		}
		appointments = append(appointments, &appt)
	}
	return appointments, rows.Err()
}

// DoctorIDForUser resolves the doctor profile owned by an authenticated user.
func (r *Repository) DoctorIDForUser(ctx context.Context, userID types.ID) (types.ID, error) {
	var id types.ID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM doctors WHERE user_id = $1`, userID,
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", errors.NotFound("doctor", userID.String())
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve doctor")
	}
	return id, nil
}

// UpdateStatus settles a pending booking. Only pending rows transition,
// so a doctor cannot flip a decision after the fact.
func (r *Repository) UpdateStatus(ctx context.Context, id types.ID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		id, status, StatusPending,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update appointment")
	}
	if tag.RowsAffected() == 0 {
		return errors.Conflict("appointment is not pending")
	}
	return nil
}
