package hospital

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/types"
)

// Repository provides database operations for the hospital directory
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new hospital repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Hospital Operations ---

const hospitalColumns = `id, name, address, COALESCE(city, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(specialties, ''), COALESCE(description, ''),
	latitude, longitude, COALESCE(external_code, ''), created_at, updated_at`

// CreateHospital creates a new hospital
func (r *Repository) CreateHospital(ctx context.Context, h *Hospital) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospitals (id, name, address, city, phone, email, specialties,
			description, latitude, longitude, external_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''))`,
		h.ID, h.Name, h.Address, h.City, h.Phone, h.Email, h.Specialties,
		h.Description, h.Latitude, h.Longitude, h.ExternalCode,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("hospital with this external code already exists")
		}
		return errors.Wrap(err, "failed to create hospital")
	}
	return nil
}

// GetHospital retrieves a hospital by ID
func (r *Repository) GetHospital(ctx context.Context, id types.ID) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id)
	h, err := scanHospital(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("hospital", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hospital")
	}
	return h, nil
}

// ListHospitals lists hospitals with optional search/city filters
func (r *Repository) ListHospitals(ctx context.Context, filter ListFilter) ([]*Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE 1=1`
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(` AND city = $%d`, len(args))
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hospitals")
	}
	defer rows.Close()

	var hospitals []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan hospital")
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, rows.Err()
}

// UpsertByExternalCode inserts or refreshes a hospital synced from an
// external information system, keyed by its external code.
func (r *Repository) UpsertByExternalCode(ctx context.Context, h *Hospital) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospitals (id, name, address, city, phone, email, external_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_code) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			updated_at = NOW()`,
		h.ID, h.Name, h.Address, h.City, h.Phone, h.Email, h.ExternalCode,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert hospital")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHospital(row rowScanner) (*Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.Name, &h.Address, &h.City, &h.Phone, &h.Email,
		&h.Specialties, &h.Description, &h.Latitude, &h.Longitude,
		&h.ExternalCode, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// --- Doctor Operations ---

// CreateDoctor creates a new doctor
func (r *Repository) CreateDoctor(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, full_name, specialty, email, phone, hospital_id,
			bio, years_experience, education)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		d.ID, d.FullName, d.Specialty, d.Email, d.Phone, d.HospitalID,
		d.Bio, d.YearsExperience, d.Education,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("doctor with this email already exists")
		}
		return errors.Wrap(err, "failed to create doctor")
	}
	return nil
}

// GetDoctor retrieves a doctor by ID
func (r *Repository) GetDoctor(ctx context.Context, id types.ID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, specialty, COALESCE(email, ''), COALESCE(phone, ''),
			hospital_id, COALESCE(bio, ''), COALESCE(years_experience, 0),
			COALESCE(education, ''), created_at
		FROM doctors WHERE id = $1`, id)

	var d Doctor
	err := row.Scan(&d.ID, &d.FullName, &d.Specialty, &d.Email, &d.Phone,
		&d.HospitalID, &d.Bio, &d.YearsExperience, &d.Education, &d.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("doctor", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get doctor")
	}
	return &d, nil
}

// ListDoctors lists doctors with an optional specialty filter
func (r *Repository) ListDoctors(ctx context.Context, filter ListFilter) ([]*Doctor, error) {
	query := `
		SELECT id, full_name, specialty, COALESCE(email, ''), COALESCE(phone, ''),
			hospital_id, COALESCE(bio, ''), COALESCE(years_experience, 0),
			COALESCE(education, ''), created_at
		FROM doctors WHERE 1=1`
	var args []any

	if filter.Specialty != "" {
		args = append(args, filter.Specialty)
		query += fmt.Sprintf(` AND specialty = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND full_name ILIKE $%d`, len(args))
	}
	query += ` ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list doctors")
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.FullName, &d.Specialty, &d.Email, &d.Phone,
			&d.HospitalID, &d.Bio, &d.YearsExperience, &d.Education, &d.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan doctor")
		}
		doctors = append(doctors, &d)
	}
	return doctors, rows.Err()
}
