package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/events"
	"github.com/vietcare/platform/internal/shared/logging"
	"github.com/vietcare/platform/internal/shared/metrics"
)

// Handler provides HTTP handlers for the triage module
type Handler struct {
	engine   *Engine
	elicitor *Elicitor
	bus      *events.Bus
	log      zerolog.Logger
}

// NewHandler creates a new triage handler. bus may be nil; event publishing
// is best effort.
func NewHandler(engine *Engine, elicitor *Elicitor, bus *events.Bus) *Handler {
	return &Handler{
		engine:   engine,
		elicitor: elicitor,
		bus:      bus,
		log:      logging.Component("triage"),
	}
}

// Routes registers the triage routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Status)
	r.Post("/predict", h.Predict)
	r.Post("/related", h.Related)
	r.Get("/all", h.AllSymptoms)

	return r
}

type symptomsRequest struct {
	Symptoms []string `json:"symptoms"`
}

// Status reports that the engine is loaded and serving
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Disease AI running"})
}

// Predict ranks candidate diseases for the submitted symptoms and suggests
// loosely related symptoms to ask about next
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req symptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if len(req.Symptoms) == 0 {
		metrics.RecordEmptyInput()
		writeError(w, errors.EmptyInput())
		return
	}

	res, err := h.engine.Infer(req.Symptoms)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == "EMPTY_INPUT" {
			metrics.RecordEmptyInput()
		}
		writeError(w, err)
		return
	}

	metrics.RecordPrediction()
	metrics.RecordUnknownSymptoms(res.UnknownDropped)
	h.publishPrediction(r.Context(), req.Symptoms, res)

	writeJSON(w, http.StatusOK, map[string]any{
		"results": res.Results,
		"related": h.elicitor.Related(req.Symptoms, relatedCap),
	})
}

// Related implements the strict (Mode B) elicitation endpoint
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	var req symptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	suggestions := h.elicitor.StrictRelated(req.Symptoms)

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(suggestions),
		"related": suggestions,
	})
}

// AllSymptoms returns the full vocabulary, sorted
func (h *Handler) AllSymptoms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"related": h.engine.Vocabulary().Symptoms(),
	})
}

// publishPrediction emits an audit event; failures are logged, never
// surfaced to the caller.
func (h *Handler) publishPrediction(ctx context.Context, symptoms []string, res *InferenceResult) {
	if h.bus == nil {
		return
	}

	top := ""
	if len(res.Results) > 0 {
		top = res.Results[0].Disease
	}
	event := events.NewEvent(events.TypePredictionServed, "triage", map[string]any{
		"symptom_count": len(symptoms),
		"top_disease":   top,
		"results":       len(res.Results),
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.bus.Publish(ctx, event); err != nil {
		h.log.Warn().Err(err).Msg("failed to publish prediction event")
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
