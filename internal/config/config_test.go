package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prepai")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("LLM.Timeout = %v", cfg.LLM.Timeout)
	}
}

func TestLoadConfigRequiredFields(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "secret")
		if _, err := LoadConfig(); err == nil {
			t.Error("expected an error without DATABASE_URL")
		}
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/prepai")
		t.Setenv("JWT_SECRET", "")
		if _, err := LoadConfig(); err == nil {
			t.Error("expected an error without JWT_SECRET")
		}
	})
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("D1", "90s")
	t.Setenv("D2", "30")
	t.Setenv("D3", "bogus")

	if got := getEnvDuration("D1", time.Minute); got != 90*time.Second {
		t.Errorf("duration string = %v", got)
	}
	if got := getEnvDuration("D2", time.Minute); got != 30*time.Second {
		t.Errorf("plain seconds = %v", got)
	}
	if got := getEnvDuration("D3", time.Minute); got != time.Minute {
		t.Errorf("fallback = %v", got)
	}
	if got := getEnvDuration("D_MISSING", time.Minute); got != time.Minute {
		t.Errorf("missing = %v", got)
	}
}
