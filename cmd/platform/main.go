package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/vietcare/platform/internal/account"
	"github.com/vietcare/platform/internal/adapters/his"
	"github.com/vietcare/platform/internal/appointment"
	"github.com/vietcare/platform/internal/hospital"
	"github.com/vietcare/platform/internal/notification"
	"github.com/vietcare/platform/internal/shared/config"
	"github.com/vietcare/platform/internal/shared/database"
	"github.com/vietcare/platform/internal/shared/events"
	"github.com/vietcare/platform/internal/shared/logging"
	"github.com/vietcare/platform/internal/shared/metrics"
	secmiddleware "github.com/vietcare/platform/internal/shared/middleware"
	"github.com/vietcare/platform/internal/triage"
)

// App holds all application dependencies
type App struct {
	Config   *config.Config
	DB       *database.DB
	Bus      *events.Bus
	Notifier *notification.Service
	HIS      *his.Adapter
	Log      zerolog.Logger
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Server.Env)
	app := &App{Config: cfg, Log: logging.Component("platform")}

	// Model artifacts are mandatory. A mispaired or missing artifact set
	// means every prediction would be wrong, so refuse to start.
	artifacts, err := triage.LoadArtifacts(cfg.Triage.ArtifactDir)
	if err != nil {
		app.Log.Fatal().Err(err).Str("dir", cfg.Triage.ArtifactDir).Msg("failed to load model artifacts")
	}
	app.Log.Info().
		Int("symptoms", artifacts.Vocabulary.Len()).
		Int("diseases", artifacts.Knowledge.Len()).
		Msg("model artifacts loaded")

	// Database is optional: triage works from artifacts alone, the
	// directory and booking modules mount only when a database is up.
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		app.Log.Warn().Err(err).Msg("database not available, running triage-only")
	} else {
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool); err != nil {
			app.Log.Warn().Err(err).Msg("migration failed")
		}
	}

	// Event bus is optional and best effort.
	if cfg.KurrentDB.Enabled {
		bus, err := events.NewBus(ctx, cfg.KurrentDB)
		if err != nil {
			app.Log.Warn().Err(err).Msg("KurrentDB not available, running without event streaming")
		} else {
			app.Bus = bus
			defer bus.Close()
			app.Log.Info().Msg("event bus initialized")
		}
	}

	// Outbound mail.
	var provider notification.EmailProvider = notification.NoopProvider{}
	if cfg.SMTP.Enabled {
		provider = notification.NewSMTPProvider(cfg.SMTP)
	}
	app.Notifier = notification.NewService(provider, 64)
	app.Notifier.Start(2)
	defer app.Notifier.Stop()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(secmiddleware.RateLimiter(cfg.RateLimitRPS, cfg.RateBurst))

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	engine := triage.NewEngine(
		artifacts.Vocabulary, artifacts.Knowledge, artifacts.Codec,
		artifacts.Model, artifacts.Resolver, cfg.Triage.StrictFilter,
	)
	elicitor := triage.NewElicitor(artifacts.Vocabulary, artifacts.Knowledge)
	triageHandler := triage.NewHandler(engine, elicitor, app.Bus)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/triage", triageHandler.Routes())

		if app.DB != nil {
			accountRepo := account.NewRepository(app.DB.Pool)
			accountHandler := account.NewHandler(accountRepo, cfg.Auth)
			// Tighter per-IP limit on credential endpoints.
			loginLimiter := secmiddleware.NewIPRateLimiter(10, 20)
			r.With(loginLimiter.Middleware).Mount("/auth", accountHandler.Routes())

			hospitalRepo := hospital.NewRepository(app.DB.Pool)
			hospitalHandler := hospital.NewHandler(hospitalRepo)
			r.Mount("/directory", hospitalHandler.Routes())

			apptRepo := appointment.NewRepository(app.DB.Pool)
			apptHandler := appointment.NewHandler(apptRepo, accountRepo, app.Notifier, app.Bus)
			r.Mount("/appointments", apptHandler.Routes(cfg.Auth))
		}
	})

	// Hospital information system sync runs only with a database to
	// mirror into.
	if cfg.HIS.Enabled && app.DB != nil {
		adapter, err := his.New(cfg.HIS, hospital.NewRepository(app.DB.Pool))
		if err != nil {
			app.Log.Warn().Err(err).Msg("HIS adapter not available")
		} else {
			app.HIS = adapter
			adapter.Start()
			defer adapter.Stop()
			app.Log.Info().Str("view", cfg.HIS.FacilityView).Msg("HIS sync started")
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		app.Log.Info().Msg("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			app.Log.Error().Err(err).Msg("server shutdown error")
		}
		close(done)
	}()

	app.Log.Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Bool("database", app.DB != nil).
		Bool("events", app.Bus != nil).
		Msg("server starting")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.Log.Fatal().Err(err).Msg("server error")
	}

	<-done
	app.Log.Info().Msg("server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
			"model":  "ready",
		}

		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				checks["database"] = "not ready: " + err.Error()
			} else {
				checks["database"] = "ready"
			}
		} else {
			checks["database"] = "not configured"
		}

		if app.Bus != nil {
			checks["events"] = "ready"
		} else {
			checks["events"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
