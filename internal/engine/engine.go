// Package engine wraps the object-detection model behind a narrow
// interface. The session core treats it as an opaque collaborator: it
// loads once, exposes the model's class list, and detects on one frame at
// a time.
package engine

import (
	"errors"

	"argus-worker-go/internal/models"
)

// ErrModelLoad marks a model that is missing, unreadable, or structurally
// invalid. Fatal to session startup; there is no automatic retry.
var ErrModelLoad = errors.New("model load failed")

// Engine performs object detection on single frames.
//
// Infer must be safe to call repeatedly with different frames and must not
// retain the frame buffer beyond its return. minConfidence is a coarse,
// class-agnostic lower bound used to prune obviously irrelevant candidates
// early; classFilter restricts detection to the given class ids (nil means
// all classes). Only one Infer call is in flight per session.
type Engine interface {
	ClassNames() []string
	Infer(frame *models.Frame, minConfidence float64, classFilter []int) ([]models.Detection, error)
	Close() error
}
