package session

import (
	"errors"
	"testing"
	"time"

	"argus-worker-go/internal/models"
)

// fakeEngine returns canned detections and records what it was asked.
type fakeEngine struct {
	detections []models.Detection
	err        error

	calls           int
	lastMinimum     float64
	lastClassFilter []int
}

func (e *fakeEngine) ClassNames() []string {
	return []string{"person", "car", "dog"}
}

func (e *fakeEngine) Infer(frame *models.Frame, minConfidence float64, classFilter []int) ([]models.Detection, error) {
	e.calls++
	e.lastMinimum = minConfidence
	e.lastClassFilter = append([]int(nil), classFilter...)
	return e.detections, e.err
}

func (e *fakeEngine) Close() error { return nil }

func testFrame() *models.Frame {
	// 4x4 BGR frame, all gray
	data := make([]byte, 4*4*3)
	for i := range data {
		data[i] = 128
	}
	return &models.Frame{
		Data:      data,
		Width:     4,
		Height:    4,
		Channels:  3,
		Timestamp: time.Now(),
	}
}

func detection(classID int, className string, confidence float64) models.Detection {
	return models.Detection{
		ClassID:    classID,
		ClassName:  className,
		Confidence: confidence,
		Box:        models.BoundingBox{X: 0, Y: 0, Width: 2, Height: 2},
	}
}

func TestProcessBelowThresholdEmitsNothing(t *testing.T) {
	eng := &fakeEngine{detections: []models.Detection{detection(0, "person", 0.42)}}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())

	frame := testFrame()
	annotated, alerts, err := fp.Process(frame, policy.Snapshot(), "camera:0")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("alerts = %v, want none", alerts)
	}
	if annotated != frame {
		t.Error("frame below threshold should come back unmodified")
	}
}

func TestProcessAboveThresholdEmitsAlert(t *testing.T) {
	eng := &fakeEngine{detections: []models.Detection{detection(0, "person", 0.61)}}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())

	frame := testFrame()
	annotated, alerts, err := fp.Process(frame, policy.Snapshot(), "video:/data/clip.mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}

	alert := alerts[0]
	if alert.ClassName != "person" {
		t.Errorf("alert class = %q, want person", alert.ClassName)
	}
	if alert.Confidence != 0.61 {
		t.Errorf("alert confidence = %v, want 0.61", alert.Confidence)
	}
	if alert.Source != "video:/data/clip.mp4" {
		t.Errorf("alert source = %q", alert.Source)
	}
	if alert.Timestamp.IsZero() {
		t.Error("alert timestamp not set")
	}

	if annotated == frame {
		t.Error("annotated frame should be a copy, not the input")
	}
	if annotated.Width != frame.Width || annotated.Height != frame.Height {
		t.Errorf("annotated dimensions %dx%d, want %dx%d",
			annotated.Width, annotated.Height, frame.Width, frame.Height)
	}

	// The input buffer must stay untouched
	for i, b := range frame.Data {
		if b != 128 {
			t.Fatalf("input frame mutated at byte %d", i)
		}
	}
}

func TestProcessPerClassThresholds(t *testing.T) {
	eng := &fakeEngine{detections: []models.Detection{
		detection(0, "person", 0.55),
		detection(1, "car", 0.55),
	}}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())
	policy.SetThreshold("car", 0.8)

	_, alerts, err := fp.Process(testFrame(), policy.Snapshot(), "camera:0")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ClassName != "person" {
		t.Errorf("alerts = %v, want single person alert", alerts)
	}
}

func TestProcessDisabledClassExcludedFromFilter(t *testing.T) {
	eng := &fakeEngine{}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())
	policy.SetEnabled("car", false)

	if _, _, err := fp.Process(testFrame(), policy.Snapshot(), "camera:0"); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	// person=0, dog=2; car=1 must be absent from the engine's filter
	for _, id := range eng.lastClassFilter {
		if id == 1 {
			t.Errorf("class filter %v contains disabled class id 1", eng.lastClassFilter)
		}
	}
	if len(eng.lastClassFilter) != 2 {
		t.Errorf("class filter = %v, want two enabled ids", eng.lastClassFilter)
	}
}

func TestProcessUsesEffectiveMinimum(t *testing.T) {
	eng := &fakeEngine{}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())
	policy.SetThreshold("person", 0.9)
	policy.SetThreshold("car", 0.25)
	policy.SetThreshold("dog", 0.7)

	if _, _, err := fp.Process(testFrame(), policy.Snapshot(), "camera:0"); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if eng.lastMinimum != 0.25 {
		t.Errorf("engine pruning bound = %v, want 0.25", eng.lastMinimum)
	}
}

func TestProcessAllClassesDisabledIsNoOp(t *testing.T) {
	eng := &fakeEngine{detections: []models.Detection{detection(0, "person", 0.99)}}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())
	for _, class := range eng.ClassNames() {
		policy.SetEnabled(class, false)
	}

	frame := testFrame()
	annotated, alerts, err := fp.Process(frame, policy.Snapshot(), "camera:0")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if eng.calls != 0 {
		t.Error("engine invoked although every class is disabled")
	}
	if annotated != frame || len(alerts) != 0 {
		t.Error("no-op cycle must return the input frame and no alerts")
	}
}

func TestProcessInferenceErrorSurfaces(t *testing.T) {
	wantErr := errors.New("backend exploded")
	eng := &fakeEngine{err: wantErr}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())

	_, _, err := fp.Process(testFrame(), policy.Snapshot(), "camera:0")
	if !errors.Is(err, wantErr) {
		t.Errorf("Process error = %v, want wrapped %v", err, wantErr)
	}
}

func TestProcessAlertOrderMatchesEngine(t *testing.T) {
	eng := &fakeEngine{detections: []models.Detection{
		detection(2, "dog", 0.7),
		detection(0, "person", 0.9),
		detection(1, "car", 0.8),
	}}
	fp := NewFrameProcessor(eng)
	policy := NewThresholdPolicy(eng.ClassNames())

	_, alerts, err := fp.Process(testFrame(), policy.Snapshot(), "camera:0")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	want := []string{"dog", "person", "car"}
	if len(alerts) != len(want) {
		t.Fatalf("got %d alerts, want %d", len(alerts), len(want))
	}
	for i, class := range want {
		if alerts[i].ClassName != class {
			t.Errorf("alerts[%d] = %q, want %q", i, alerts[i].ClassName, class)
		}
	}
}
