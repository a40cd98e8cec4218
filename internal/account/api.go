package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vietcare/platform/internal/shared/auth"
	"github.com/vietcare/platform/internal/shared/config"
	"github.com/vietcare/platform/internal/shared/errors"
	"github.com/vietcare/platform/internal/shared/types"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects passwords longer than 72 bytes.
const maxPasswordBytes = 72

// Handler provides HTTP handlers for registration and login
type Handler struct {
	repo    *Repository
	authCfg config.AuthConfig
}

// NewHandler creates a new account handler
func NewHandler(repo *Repository, authCfg config.AuthConfig) *Handler {
	return &Handler{repo: repo, authCfg: authCfg}
}

// Routes registers the account routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.authCfg))
		r.Get("/me", h.Me)
	})

	return r
}

// Register creates a new patient account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"email":    "email is required",
			"username": "username is required",
			"password": "password is required",
		}))
		return
	}
	if len(req.Password) > maxPasswordBytes {
		writeError(w, errors.BadRequest("password too long"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	user := &User{
		ID:             types.NewID(),
		Email:          req.Email,
		Username:       req.Username,
		Role:           auth.RolePatient,
		HashedPassword: string(hashed),
		FullName:       req.FullName,
		IsActive:       true,
	}

	if err := h.repo.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues an access token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	user, err := h.repo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, errors.Unauthorized("incorrect username or password"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		writeError(w, errors.Unauthorized("incorrect username or password"))
		return
	}
	if !user.IsActive {
		writeError(w, errors.Forbidden("inactive user"))
		return
	}

	token, err := auth.IssueToken(h.authCfg, user.ID, user.Username, user.Role)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("not authenticated"))
		return
	}

	user, err := h.repo.GetByID(r.Context(), claims.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
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
