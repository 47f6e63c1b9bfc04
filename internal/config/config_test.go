package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STORAGE_DRIVER")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver: %s", cfg.StorageDriver)
	}
	if cfg.DivisionCount != 2 || cfg.DivisionSize != 8 || cfg.PromotionCount != 2 {
		t.Fatalf("unexpected league defaults: %d/%d/%d", cfg.DivisionCount, cfg.DivisionSize, cfg.PromotionCount)
	}
	if cfg.GameweekInterval != 24*time.Hour {
		t.Fatalf("unexpected gameweek interval: %s", cfg.GameweekInterval)
	}
	if cfg.MatchWinReward != 250 || cfg.MatchDrawReward != 100 {
		t.Fatalf("unexpected rewards: %d/%d", cfg.MatchWinReward, cfg.MatchDrawReward)
	}
	if cfg.SimMaxGoals != 9 {
		t.Fatalf("unexpected sim max goals: %d", cfg.SimMaxGoals)
	}
}

func TestLoad_LeagueRuleParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DIVISION_COUNT", "3")
	t.Setenv("DIVISION_SIZE", "6")
	t.Setenv("PROMOTION_COUNT", "1")
	t.Setenv("GAMEWEEK_INTERVAL", "12h")
	t.Setenv("SIM_WORKER_COUNT", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DivisionCount != 3 || cfg.DivisionSize != 6 || cfg.PromotionCount != 1 {
		t.Fatalf("unexpected league rules: %d/%d/%d", cfg.DivisionCount, cfg.DivisionSize, cfg.PromotionCount)
	}
	if cfg.GameweekInterval != 12*time.Hour {
		t.Fatalf("unexpected gameweek interval: %s", cfg.GameweekInterval)
	}
	if cfg.SimWorkerCount != 8 {
		t.Fatalf("unexpected worker count: %d", cfg.SimWorkerCount)
	}
}

func TestLoad_EconomyRequiresBaseURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ECONOMY_ENABLED", "true")
	t.Setenv("ECONOMY_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ECONOMY_ENABLED=true without ECONOMY_BASE_URL")
	}
}

func TestLoad_RosterRequiresBaseURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ROSTER_ENABLED", "true")
	t.Setenv("ROSTER_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ROSTER_ENABLED=true without ROSTER_BASE_URL")
	}
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for prod without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
	if _, err := Load(); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=https://token@api.uptrace.dev/1234")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1234" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}
