package hospital

import (
	"time"

	"github.com/vietcare/platform/internal/shared/types"
)

// Hospital is a directory entry. ExternalCode links a record to its source
// row in an external hospital information system, when synced.
type Hospital struct {
	ID           types.ID  `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Specialties  string    `json:"specialties,omitempty"`
	Description  string    `json:"description,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	ExternalCode string    `json:"external_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Doctor is a practitioner listed in the directory.
type Doctor struct {
	ID              types.ID  `json:"id"`
	FullName        string    `json:"full_name"`
	Specialty       string    `json:"specialty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	HospitalID      *types.ID `json:"hospital_id,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	YearsExperience int       `json:"years_experience,omitempty"`
	Education       string    `json:"education,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateHospitalRequest is the hospital creation payload.
type CreateHospitalRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Specialties string   `json:"specialties"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// CreateDoctorRequest is the doctor creation payload.
type CreateDoctorRequest struct {
	FullName        string    `json:"full_name"`
	Specialty       string    `json:"specialty"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	HospitalID      *types.ID `json:"hospital_id"`
	Bio             string    `json:"bio"`
	YearsExperience int       `json:"years_experience"`
	Education       string    `json:"education"`
}

// ListFilter narrows directory listings.
type ListFilter struct {
	Search    string
	City      string
	Specialty string
}
