package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCountersAppearInExposition(t *testing.T) {
	m := New()
	m.SessionsStarted.Add(1)
	m.FramesProcessed.Add(42)
	m.AlertsEmitted.Add(3)
	m.ProcessErrors.Add(2)
	m.ObserveInference(150 * time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading exposition body: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		"worker_sessions_started_total 1",
		"worker_frames_processed_total 42",
		"worker_alerts_emitted_total 3",
		"worker_process_errors_total 2",
		"worker_inference_latency_ms 150",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestObserveInferenceKeepsLatest(t *testing.T) {
	m := New()
	m.ObserveInference(100 * time.Millisecond)
	m.ObserveInference(25 * time.Millisecond)

	if got := m.InferenceLatencyMs.Load(); got != 25 {
		t.Errorf("InferenceLatencyMs = %d, want 25", got)
	}
}
