package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DatabaseURL == "" {
		t.Error("DatabaseURL should have a default")
	}
	if cfg.TickIntervalSeconds != 60 {
		t.Errorf("TickIntervalSeconds = %d, want 60", cfg.TickIntervalSeconds)
	}
	if cfg.FetchTimeoutSeconds != 10 {
		t.Errorf("FetchTimeoutSeconds = %d, want 10", cfg.FetchTimeoutSeconds)
	}
	if cfg.ThresholdsFile != "" {
		t.Errorf("ThresholdsFile should default to empty, got %q", cfg.ThresholdsFile)
	}
	if cfg.ScorerURL != "" {
		t.Errorf("ScorerURL should default to empty, got %q", cfg.ScorerURL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("TICK_INTERVAL_SECONDS", "30")
	t.Setenv("SCORER_URL", "http://ml-service:8000")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://test:test@db:5432/test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.TickIntervalSeconds != 30 {
		t.Errorf("TickIntervalSeconds = %d, want 30", cfg.TickIntervalSeconds)
	}
	if cfg.ScorerURL != "http://ml-service:8000" {
		t.Errorf("ScorerURL = %q", cfg.ScorerURL)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("TICK_INTERVAL_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.TickIntervalSeconds != 60 {
		t.Errorf("TickIntervalSeconds = %d, want default 60", cfg.TickIntervalSeconds)
	}
}
