package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.InputSize != 640 {
		t.Errorf("InputSize = %d, want 640", cfg.InputSize)
	}
	if cfg.AlertsSubject != "alerts" {
		t.Errorf("AlertsSubject = %q, want alerts", cfg.AlertsSubject)
	}
	if cfg.VideoFrameInterval != 33*time.Millisecond {
		t.Errorf("VideoFrameInterval = %v, want 33ms", cfg.VideoFrameInterval)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("MODEL_PATH", "/opt/models/custom.onnx")
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("VIDEO_FRAME_INTERVAL", "100ms")

	cfg := Load()

	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.ModelPath != "/opt/models/custom.onnx" {
		t.Errorf("ModelPath = %q", cfg.ModelPath)
	}
	if cfg.NatsEnabled {
		t.Error("NatsEnabled = true with NATS_ENABLED=false")
	}
	if cfg.VideoFrameInterval != 100*time.Millisecond {
		t.Errorf("VideoFrameInterval = %v, want 100ms", cfg.VideoFrameInterval)
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("NATS_ENABLED", "maybe")

	cfg := Load()

	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want default 8000 on parse failure", cfg.Port)
	}
	if !cfg.NatsEnabled {
		t.Error("NatsEnabled should fall back to default true on parse failure")
	}
}
