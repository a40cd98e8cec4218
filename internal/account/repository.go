package account

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/types"
)

// Repository provides database operations for users and patients
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new account repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a user and its patient profile in one transaction.
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, username, role, hashed_password, full_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		user.ID, user.Email, user.Username, user.Role, user.HashedPassword, user.FullName,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("email or username already registered")
		}
		return errors.Wrap(err, "failed to create user")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO patients (id, user_id, full_name)
		VALUES ($1, $2, $3)`,
		types.NewID(), user.ID, user.FullName,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create patient profile")
	}

	return tx.Commit(ctx)
}

// GetByUsername retrieves a user by username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id types.ID) (*User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT id, email, username, role, hashed_password, COALESCE(full_name, ''), is_active, created_at
		FROM users ` + where

	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.Role,
		&user.HashedPassword, &user.FullName, &user.IsActive, &user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user", "")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return &user, nil
}

// GetPatientByUserID retrieves the patient profile owned by a user
func (r *Repository) GetPatientByUserID(ctx context.Context, userID types.ID) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, COALESCE(full_name, ''), COALESCE(phone, ''), created_at
		FROM patients WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", userID.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get patient")
	}
	return &p, nil
}
