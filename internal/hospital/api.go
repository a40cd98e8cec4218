package hospital

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the hospital directory
type Handler struct {
	repo *Repository
}

// NewHandler creates a new hospital handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the directory routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/hospitals", func(r chi.Router) {
		r.Get("/", h.ListHospitals)
		r.Post("/", h.CreateHospital)
		r.Get("/{hospitalID}", h.GetHospital)
	})

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", h.ListDoctors)
		r.Post("/", h.CreateDoctor)
		r.Get("/{doctorID}", h.GetDoctor)
	})

	return r
}

// ListHospitals lists hospitals, optionally filtered by search or city
func (h *Handler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		City:   r.URL.Query().Get("city"),
	}

	hospitals, err := h.repo.ListHospitals(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  hospitals,
		"total": len(hospitals),
	})
}

// GetHospital gets a hospital by ID
func (h *Handler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	hospital, err := h.repo.GetHospital(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hospital)
}

// CreateHospital creates a new hospital
func (h *Handler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req CreateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name == "" || req.Address == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"name":    "name is required",
			"address": "address is required",
		}))
		return
	}

	hospital := &Hospital{
		ID:          types.NewID(),
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Email:       req.Email,
		Specialties: req.Specialties,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := h.repo.CreateHospital(r.Context(), hospital); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, hospital)
}

// ListDoctors lists doctors, optionally filtered by specialty
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Search:    r.URL.Query().Get("search"),
		Specialty: r.URL.Query().Get("specialty"),
	}

	doctors, err := h.repo.ListDoctors(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  doctors,
		"total": len(doctors),
	})
}

// GetDoctor gets a doctor by ID
func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "doctorID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid doctor ID"))
		return
	}

	doctor, err := h.repo.GetDoctor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}

// CreateDoctor creates a new doctor
func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.FullName == "" || req.Specialty == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"full_name": "full_name is required",
			"specialty": "specialty is required",
		}))
		return
	}

	doctor := &Doctor{
		ID:              types.NewID(),
		FullName:        req.FullName,
		Specialty:       req.Specialty,
		Email:           req.Email,
		Phone:           req.Phone,
		HospitalID:      req.HospitalID,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
		Education:       req.Education,
	}

	if err := h.repo.CreateDoctor(r.Context(), doctor); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doctor)
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
