package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Triage.SamplesPerDisease != 80 {
		t.Errorf("Expected 80 samples per disease, got %d", cfg.Triage.SamplesPerDisease)
	}
	if cfg.Triage.Trees != 150 {
		t.Errorf("Expected 150 trees, got %d", cfg.Triage.Trees)
	}
	if cfg.Triage.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Triage.Seed)
	}
	if cfg.Triage.StrictFilter {
		t.Error("Strict filter must default to off")
	}
	if cfg.IsProduction() {
		t.Error("Expected development environment by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("TRIAGE_STRICT_FILTER", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production environment")
	}
	if !cfg.Triage.StrictFilter {
		t.Error("Expected strict filter enabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsInvalidTriageSettings(t *testing.T) {
	t.Setenv("TRIAGE_SAMPLES_PER_DISEASE", "0")
	if _, err := Load(); err == nil {
		t.Error("Expected error for zero samples per disease")
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "names", SSLMode: "require"}
	want := "host=db port=5433 user=u password=p dbname=names sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
