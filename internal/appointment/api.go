package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vietcare/platform/internal/account"
	"github.com/vietcare/platform/internal/notification"
	"github.com/vietcare/platform/internal/shared/auth"
	"github.com/vietcare/platform/internal/shared/config"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/events"
	"github.com/vietcare/platform/internal/shared/logging"
	"github.com/vietcare/platform/internal/shared/metrics"
	"github.com/vietcare/platform/internal/shared/types"
)

// Notifier enqueues outbound mail without blocking the caller.
type Notifier interface {
	Enqueue(msg notification.Message)
}

// Handler provides HTTP handlers for appointments
type Handler struct {
	repo     *Repository
	accounts *account.Repository
	notifier Notifier
	bus      *events.Bus
	log      zerolog.Logger
}

// NewHandler creates a new appointment handler. notifier and bus may be
// nil when those subsystems are disabled.
func NewHandler(repo *Repository, accounts *account.Repository, notifier Notifier, bus *events.Bus) *Handler {
	return &Handler{
		repo:     repo,
		accounts: accounts,
		notifier: notifier,
		bus:      bus,
		log:      logging.Component("appointment"),
	}
}

// Routes registers the appointment routes. All routes require auth.
func (h *Handler) Routes(authCfg config.AuthConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Middleware(authCfg))

	r.With(auth.RequireRole(auth.RolePatient)).Post("/", h.Book)
	r.With(auth.RequireRole(auth.RolePatient)).Get("/me", h.ListMine)
	r.With(auth.RequireRole(auth.RoleDoctor)).Get("/doctor", h.ListForDoctor)
	r.With(auth.RequireRole(auth.RoleDoctor)).Patch("/{appointmentID}/status", h.UpdateStatus)

	return r
}

// Book creates a pending appointment for the authenticated patient.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if fieldErrs := validateBooking(req); len(fieldErrs) > 0 {
		writeError(w, errors.Validation("validation failed", fieldErrs))
		return
	}

	patient, err := h.accounts.GetPatientByUserID(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	appt := &Appointment{
		ID:              types.NewID(),
		PatientID:       patient.ID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Reason:          req.Reason,
		Status:          StatusPending,
	}

	if err := h.repo.Create(r.Context(), appt); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordAppointmentBooked()
	h.publish(events.TypeAppointmentBooked, map[string]any{
		"appointment_id": appt.ID,
		"doctor_id":      appt.DoctorID,
		"date":           appt.AppointmentDate,
		"time":           appt.AppointmentTime,
	})

	writeJSON(w, http.StatusCreated, appt)
}

// ListMine lists the authenticated patient's appointments.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	patient, err := h.accounts.GetPatientByUserID(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	appointments, err := h.repo.ListByPatient(r.Context(), patient.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  appointments,
		"total": len(appointments),
	})
}

// ListForDoctor lists the authenticated doctor's appointments.
func (h *Handler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	doctorID, err := h.repo.DoctorIDForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	appointments, err := h.repo.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  appointments,
		"total": len(appointments),
	})
}

// UpdateStatus lets the owning doctor confirm or reject a pending booking.
// The patient is emailed about the outcome.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "appointmentID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid appointment ID"))
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if !ValidStatus(req.Status) {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"status": "status must be confirmed or rejected",
		}))
		return
	}

	appt, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	doctorID, err := h.repo.DoctorIDForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if appt.DoctorID != doctorID {
		writeError(w, errors.Forbidden("appointment belongs to another doctor"))
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	appt.Status = req.Status

	if h.notifier != nil && appt.PatientEmail != "" {
		h.notifier.Enqueue(notification.RenderAppointment(notification.AppointmentNotice{
			PatientName:  appt.PatientName,
			PatientEmail: appt.PatientEmail,
			DoctorName:   appt.DoctorName,
			Date:         appt.AppointmentDate,
			Time:         appt.AppointmentTime,
			Confirmed:    req.Status == StatusConfirmed,
		}))
	}

	h.publish(events.TypeAppointmentStatus, map[string]any{
		"appointment_id": appt.ID,
		"status":         appt.Status,
	})

	writeJSON(w, http.StatusOK, appt)
}

func validateBooking(req BookRequest) map[string]string {
	fieldErrs := make(map[string]string)
	if req.DoctorID.IsZero() {
		fieldErrs["doctor_id"] = "doctor_id is required"
	}
	if _, err := time.Parse("2006-01-02", req.AppointmentDate); err != nil {
		fieldErrs["appointment_date"] = "appointment_date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", req.AppointmentTime); err != nil {
		fieldErrs["appointment_time"] = "appointment_time must be HH:MM"
	}
	return fieldErrs
}

// publish emits a domain event, best effort.
func (h *Handler) publish(eventType string, data map[string]any) {
	if h.bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.bus.Publish(ctx, events.NewEvent(eventType, "appointment", data)); err != nil {
		h.log.Warn().Err(err).Str("type", eventType).Msg("failed to publish event")
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
