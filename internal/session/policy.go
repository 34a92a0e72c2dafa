package session

import (
	"fmt"
	"sync"
)

// DefaultThreshold is seeded for every class known to the loaded model.
const DefaultThreshold = 0.5

// ThresholdPolicy holds per-class confidence thresholds and class
// enablement for one session. The class list is fixed for the lifetime of
// a loaded model; thresholds and enablement are mutable from the control
// goroutine while the frame loop reads consistent snapshots.
type ThresholdPolicy struct {
	mu         sync.RWMutex
	classNames []string       // ordered by class id
	classIDs   map[string]int // name -> id
	thresholds map[string]float64
	enabled    map[string]bool
}

// PolicySnapshot is an immutable copy of the policy taken once per
// processed frame, so an in-flight process cycle never observes a
// half-applied mutation.
type PolicySnapshot struct {
	Thresholds      map[string]float64
	Enabled         map[string]bool
	EnabledClassIDs []int // ordered by class id
}

// NewThresholdPolicy seeds a policy from the model's ordered class names:
// every class starts at DefaultThreshold and enabled.
func NewThresholdPolicy(classNames []string) *ThresholdPolicy {
	p := &ThresholdPolicy{
		classNames: append([]string(nil), classNames...),
		classIDs:   make(map[string]int, len(classNames)),
		thresholds: make(map[string]float64, len(classNames)),
		enabled:    make(map[string]bool, len(classNames)),
	}
	for id, name := range classNames {
		p.classIDs[name] = id
		p.thresholds[name] = DefaultThreshold
		p.enabled[name] = true
	}
	return p
}

// ClassNames returns the ordered class list the policy was built from.
func (p *ThresholdPolicy) ClassNames() []string {
	return append([]string(nil), p.classNames...)
}

// SetThreshold updates the minimum confidence for one class.
func (p *ThresholdPolicy) SetThreshold(className string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%w: threshold %.3f outside [0,1]", ErrInvalidArgument, value)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.classIDs[className]; !ok {
		return fmt.Errorf("%w: unknown class %q", ErrInvalidArgument, className)
	}
	p.thresholds[className] = value
	return nil
}

// SetEnabled toggles whether detections of one class are considered at all.
func (p *ThresholdPolicy) SetEnabled(className string, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.classIDs[className]; !ok {
		return fmt.Errorf("%w: unknown class %q", ErrInvalidArgument, className)
	}
	p.enabled[className] = enabled
	return nil
}

// Threshold returns the configured minimum confidence for a class.
func (p *ThresholdPolicy) Threshold(className string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.thresholds[className]
	if !ok {
		return 0, fmt.Errorf("%w: unknown class %q", ErrInvalidArgument, className)
	}
	return v, nil
}

// IsEnabled reports whether a class participates in detection.
func (p *ThresholdPolicy) IsEnabled(className string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled[className]
}

// EffectiveMinimum returns the lowest threshold across enabled classes.
// It is only a coarse engine-side prune; the per-class comparison in the
// frame processor is the authoritative filter.
func (p *ThresholdPolicy) EffectiveMinimum() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return effectiveMinimum(p.classNames, p.thresholds, p.enabled)
}

// Snapshot copies the current policy for one process cycle.
func (p *ThresholdPolicy) Snapshot() PolicySnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := PolicySnapshot{
		Thresholds: make(map[string]float64, len(p.thresholds)),
		Enabled:    make(map[string]bool, len(p.enabled)),
	}
	for name, v := range p.thresholds {
		snap.Thresholds[name] = v
	}
	for id, name := range p.classNames {
		if p.enabled[name] {
			snap.Enabled[name] = true
			snap.EnabledClassIDs = append(snap.EnabledClassIDs, id)
		}
	}
	return snap
}

// EffectiveMinimum on a snapshot mirrors the live policy's value at the
// time the snapshot was taken.
func (s PolicySnapshot) EffectiveMinimum() float64 {
	min := 0.0
	first := true
	for name, v := range s.Thresholds {
		if !s.Enabled[name] {
			continue
		}
		if first || v < min {
			min = v
			first = false
		}
	}
	if first {
		return 0
	}
	return min
}

func effectiveMinimum(names []string, thresholds map[string]float64, enabled map[string]bool) float64 {
	min := 0.0
	first := true
	for _, name := range names {
		if !enabled[name] {
			continue
		}
		if v := thresholds[name]; first || v < min {
			min = v
			first = false
		}
	}
	if first {
		return 0
	}
	return min
}
