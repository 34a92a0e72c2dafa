package session

import (
	"errors"
	"testing"
)

func newTestPolicy() *ThresholdPolicy {
	return NewThresholdPolicy([]string{"person", "car", "dog"})
}

func TestPolicyDefaults(t *testing.T) {
	p := newTestPolicy()

	for _, class := range []string{"person", "car", "dog"} {
		v, err := p.Threshold(class)
		if err != nil {
			t.Fatalf("Threshold(%q) returned error: %v", class, err)
		}
		if v != DefaultThreshold {
			t.Errorf("Threshold(%q) = %v, want %v", class, v, DefaultThreshold)
		}
		if !p.IsEnabled(class) {
			t.Errorf("IsEnabled(%q) = false, want true", class)
		}
	}
}

func TestSetThresholdValidation(t *testing.T) {
	p := newTestPolicy()

	if err := p.SetThreshold("person", 1.5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetThreshold(1.5) error = %v, want ErrInvalidArgument", err)
	}
	if err := p.SetThreshold("person", -0.1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetThreshold(-0.1) error = %v, want ErrInvalidArgument", err)
	}
	if err := p.SetThreshold("unicorn", 0.5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetThreshold(unknown class) error = %v, want ErrInvalidArgument", err)
	}

	// A rejected update must not change anything
	v, _ := p.Threshold("person")
	if v != DefaultThreshold {
		t.Errorf("threshold changed after rejected update: %v", v)
	}

	if err := p.SetThreshold("person", 0.7); err != nil {
		t.Fatalf("SetThreshold(0.7) returned error: %v", err)
	}
	if v, _ := p.Threshold("person"); v != 0.7 {
		t.Errorf("Threshold(person) = %v, want 0.7", v)
	}

	// Boundary values are legal
	if err := p.SetThreshold("car", 0); err != nil {
		t.Errorf("SetThreshold(0) returned error: %v", err)
	}
	if err := p.SetThreshold("car", 1); err != nil {
		t.Errorf("SetThreshold(1) returned error: %v", err)
	}
}

func TestSetEnabledUnknownClass(t *testing.T) {
	p := newTestPolicy()

	if err := p.SetEnabled("unicorn", false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetEnabled(unknown class) error = %v, want ErrInvalidArgument", err)
	}
	if err := p.SetEnabled("dog", false); err != nil {
		t.Fatalf("SetEnabled(dog, false) returned error: %v", err)
	}
	if p.IsEnabled("dog") {
		t.Error("IsEnabled(dog) = true after disabling")
	}
}

func TestEffectiveMinimumSkipsDisabled(t *testing.T) {
	p := newTestPolicy()
	p.SetThreshold("person", 0.9)
	p.SetThreshold("car", 0.3)
	p.SetThreshold("dog", 0.6)

	if v := p.EffectiveMinimum(); v != 0.3 {
		t.Errorf("EffectiveMinimum() = %v, want 0.3", v)
	}

	p.SetEnabled("car", false)
	if v := p.EffectiveMinimum(); v != 0.6 {
		t.Errorf("EffectiveMinimum() with car disabled = %v, want 0.6", v)
	}

	p.SetEnabled("person", false)
	p.SetEnabled("dog", false)
	if v := p.EffectiveMinimum(); v != 0 {
		t.Errorf("EffectiveMinimum() with all disabled = %v, want 0", v)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	p := newTestPolicy()
	p.SetEnabled("car", false)

	snap := p.Snapshot()

	// Mutations after the snapshot must not leak into it
	p.SetThreshold("person", 0.95)
	p.SetEnabled("dog", false)

	if snap.Thresholds["person"] != DefaultThreshold {
		t.Errorf("snapshot threshold changed: %v", snap.Thresholds["person"])
	}
	if !snap.Enabled["dog"] {
		t.Error("snapshot enablement changed after SetEnabled")
	}

	// person=0, car=1, dog=2; car is disabled
	want := []int{0, 2}
	if len(snap.EnabledClassIDs) != len(want) {
		t.Fatalf("EnabledClassIDs = %v, want %v", snap.EnabledClassIDs, want)
	}
	for i, id := range want {
		if snap.EnabledClassIDs[i] != id {
			t.Errorf("EnabledClassIDs[%d] = %d, want %d", i, snap.EnabledClassIDs[i], id)
		}
	}
}

func TestSnapshotEffectiveMinimum(t *testing.T) {
	p := newTestPolicy()
	p.SetThreshold("person", 0.8)
	p.SetThreshold("car", 0.2)
	p.SetEnabled("car", false)
	p.SetThreshold("dog", 0.4)

	if v := p.Snapshot().EffectiveMinimum(); v != 0.4 {
		t.Errorf("snapshot EffectiveMinimum() = %v, want 0.4", v)
	}
}
