package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Auth         AuthConfig
	Triage       TriageConfig
	SMTP         SMTPConfig
	KurrentDB    KurrentDBConfig
	HIS          HISConfig
	CORSOrigins  []string
	RateLimitRPS int
	RateBurst    int
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL int // minutes
	Issuer         string
}

// TriageConfig holds everything the inference engine and the offline trainer
// need: artifact locations, source datasets, and the model policy knobs.
type TriageConfig struct {
	// ArtifactDir holds the persisted artifacts produced by the trainer:
	// symptom_list.json, disease_symptom_map.json, disease_model.gob,
	// label_codec.gob, descriptions.json, specialists.json.
	ArtifactDir string
	// DataDir holds the raw CSV sources consumed by the trainer.
	DataDir string

	// StrictFilter enables the containment ("hallucination") filter: drop
	// predicted diseases whose ground-truth symptoms do not cover the input.
	// Off by default — the statistical ranking is trusted over containment.
	StrictFilter bool

	SamplesPerDisease int
	Trees             int
	Seed              int64
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Enabled  bool
}

// KurrentDBConfig holds configuration for KurrentDB (EventStoreDB).
type KurrentDBConfig struct {
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
	Enabled  bool
}

// HISConfig configures the hospital information system sync adapter
// (external SQL Server polled for hospital directory records).
type HISConfig struct {
	Enabled      bool
	DSN          string
	PollInterval int // seconds
	FacilityView string
}

func Load() (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "vietcare"),
			Password: getEnv("DB_PASSWORD", "vietcare"),
			Database: getEnv("DB_NAME", "vietcare"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			AccessTokenTTL: getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 60),
			Issuer:         getEnv("JWT_ISSUER", "vietcare-platform"),
		},
		Triage: TriageConfig{
			ArtifactDir:       getEnv("TRIAGE_ARTIFACT_DIR", "artifacts"),
			DataDir:           getEnv("TRIAGE_DATA_DIR", "data"),
			StrictFilter:      getEnvBool("TRIAGE_STRICT_FILTER", false),
			SamplesPerDisease: getEnvInt("TRIAGE_SAMPLES_PER_DISEASE", 80),
			Trees:             getEnvInt("TRIAGE_TREES", 150),
			Seed:              int64(getEnvInt("TRIAGE_SEED", 42)),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Hệ thống đặt lịch khám"),
			Enabled:  getEnvBool("SMTP_ENABLED", false),
		},
		KurrentDB: KurrentDBConfig{
			Host:     getEnv("KURRENTDB_HOST", "localhost"),
			Port:     getEnvInt("KURRENTDB_PORT", 2113),
			Insecure: getEnvBool("KURRENTDB_INSECURE", true),
			Username: getEnv("KURRENTDB_USERNAME", ""),
			Password: getEnv("KURRENTDB_PASSWORD", ""),
			Enabled:  getEnvBool("KURRENTDB_ENABLED", false),
		},
		HIS: HISConfig{
			Enabled:      getEnvBool("HIS_SYNC_ENABLED", false),
			DSN:          getEnv("HIS_DSN", ""),
			PollInterval: getEnvInt("HIS_POLL_INTERVAL_SECONDS", 300),
			FacilityView: getEnv("HIS_FACILITY_VIEW", "dbo.Facilities"),
		},
		CORSOrigins:  getEnvSlice("CORS_ORIGINS", []string{"http://localhost:5000", "http://127.0.0.1:5000"}),
		RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 100),
		RateBurst:    getEnvInt("RATE_LIMIT_BURST", 200),
	}

	if cfg.Triage.SamplesPerDisease < 1 {
		return nil, fmt.Errorf("TRIAGE_SAMPLES_PER_DISEASE must be >= 1")
	}
	if cfg.Triage.Trees < 1 {
		return nil, fmt.Errorf("TRIAGE_TREES must be >= 1")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
