package appointment

import (
	"time"

	"github.com/vietcare/platform/internal/shared/types"
)

// Appointment statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Appointment is a booking of a patient with a doctor at a specific slot.
// DoctorName, PatientName and PatientEmail are joined for display and
// notification and are not stored on the appointment row.
type Appointment struct {
	ID              types.ID  `json:"id"`
	PatientID       types.ID  `json:"patient_id"`
	DoctorID        types.ID  `json:"doctor_id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Reason          string    `json:"reason,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	DoctorName   string `json:"doctor_name,omitempty"`
	PatientName  string `json:"patient_name,omitempty"`
	PatientEmail string `json:"-"`
}

// BookRequest is the booking payload submitted by a patient.
type BookRequest struct {
	DoctorID        types.ID `json:"doctor_id"`
	AppointmentDate string   `json:"appointment_date"`
	AppointmentTime string   `json:"appointment_time"`
	Reason          string   `json:"reason"`
}

// UpdateStatusRequest is the payload a doctor submits to settle a booking.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ValidStatus reports whether s is a settled status a doctor may set.
func ValidStatus(s string) bool {
	return s == StatusConfirmed || s == StatusRejected
}
