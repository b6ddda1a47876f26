package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "jobscout")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for missing required env")
	}
	if !strings.Contains(err.Error(), "APP_NAME") {
		t.Fatalf("expected missing key in error, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "localhost" || cfg.Database.Port != "5432" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Redis.RecommendationTTL != time.Hour {
		t.Fatalf("expected 1h recommendation TTL, got %v", cfg.Redis.RecommendationTTL)
	}
	if !cfg.Scheduler.Enabled || !cfg.Scheduler.IngestEnabled {
		t.Fatalf("expected scheduler enabled by default: %+v", cfg.Scheduler)
	}
	if cfg.Scheduler.IngestSpec != "0 2 * * *" {
		t.Fatalf("unexpected default ingest spec: %q", cfg.Scheduler.IngestSpec)
	}
	if cfg.Ingest.Workers != 4 {
		t.Fatalf("expected 4 ingest workers, got %d", cfg.Ingest.Workers)
	}
	if cfg.Match.TechWeight != 0.5 || cfg.Match.LocationWeight != 0.3 || cfg.Match.ExperienceWeight != 0.2 {
		t.Fatalf("unexpected default match weights: %+v", cfg.Match)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RECOMMENDATION_CACHE_TTL", "30m")
	t.Setenv("SCHEDULE_MORNING_BRIEFING_ENABLED", "false")
	t.Setenv("INGEST_WORKERS", "8")
	t.Setenv("SOURCE_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Redis.RecommendationTTL != 30*time.Minute {
		t.Fatalf("expected 30m TTL, got %v", cfg.Redis.RecommendationTTL)
	}
	if cfg.Scheduler.MorningEnabled {
		t.Fatalf("expected morning briefing disabled")
	}
	if cfg.Ingest.Workers != 8 {
		t.Fatalf("expected 8 workers, got %d", cfg.Ingest.Workers)
	}
	if cfg.Sources.Timeout != 3*time.Second {
		t.Fatalf("expected 3s source timeout, got %v", cfg.Sources.Timeout)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RECOMMENDATION_CACHE_TTL", "not-a-duration")
	t.Setenv("INGEST_WORKERS", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.RecommendationTTL != time.Hour {
		t.Fatalf("expected fallback TTL, got %v", cfg.Redis.RecommendationTTL)
	}
	if cfg.Ingest.Workers != 4 {
		t.Fatalf("expected fallback workers, got %d", cfg.Ingest.Workers)
	}
}
