package session

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"argus-worker-go/internal/engine"
	"argus-worker-go/internal/models"
)

// FrameProcessor runs one inference/filter/annotate cycle. It has no side
// effects beyond its return values and never touches source or controller
// state.
type FrameProcessor struct {
	engine engine.Engine
}

// NewFrameProcessor wraps a loaded inference engine.
func NewFrameProcessor(eng engine.Engine) *FrameProcessor {
	return &FrameProcessor{engine: eng}
}

// Process detects on one frame under a policy snapshot.
//
// The engine is asked to prune below the effective minimum across enabled
// classes; that bound is class-agnostic, so the per-class threshold
// comparison here is the authoritative filter. With no enabled classes the
// cycle is a defined no-op: the input frame comes back unannotated with no
// alerts. The input frame is never mutated; boxes are drawn on a copy.
// Alerts preserve the engine's detection order.
func (fp *FrameProcessor) Process(frame *models.Frame, policy PolicySnapshot, sourceDesc string) (*models.Frame, []models.AlertRecord, error) {
	if len(policy.EnabledClassIDs) == 0 {
		return frame, nil, nil
	}

	detections, err := fp.engine.Infer(frame, policy.EffectiveMinimum(), policy.EnabledClassIDs)
	if err != nil {
		return frame, nil, fmt.Errorf("inference: %w", err)
	}

	retained := detections[:0:0]
	for _, det := range detections {
		if !policy.Enabled[det.ClassName] {
			continue
		}
		if det.Confidence < policy.Thresholds[det.ClassName] {
			continue
		}
		retained = append(retained, det)
	}

	if len(retained) == 0 {
		return frame, nil, nil
	}

	annotated, err := drawDetections(frame, retained)
	if err != nil {
		// Detection itself succeeded; alerts still go out on a clean frame.
		log.Warn().Err(err).Msg("Failed to annotate frame")
		annotated = frame
	}

	now := time.Now()
	alerts := make([]models.AlertRecord, 0, len(retained))
	for _, det := range retained {
		alerts = append(alerts, models.AlertRecord{
			ClassName:  det.ClassName,
			Confidence: det.Confidence,
			Timestamp:  now,
			Source:     sourceDesc,
		})
	}

	return annotated, alerts, nil
}

var boxColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

// drawDetections renders boxes and labels onto a copy of the frame.
func drawDetections(frame *models.Frame, detections []models.Detection) (*models.Frame, error) {
	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("building matrix from frame: %w", err)
	}
	canvas := mat.Clone()
	mat.Close()
	defer canvas.Close()

	for _, det := range detections {
		x1 := clamp(det.Box.X, 0, frame.Width-1)
		y1 := clamp(det.Box.Y, 0, frame.Height-1)
		x2 := clamp(det.Box.X+det.Box.Width, x1+1, frame.Width)
		y2 := clamp(det.Box.Y+det.Box.Height, y1+1, frame.Height)

		rect := image.Rect(x1, y1, x2, y2)
		gocv.Rectangle(&canvas, rect, boxColor, 2)

		label := fmt.Sprintf("%s %.2f", det.ClassName, det.Confidence)
		labelOrigin := image.Pt(x1, y1-6)
		if labelOrigin.Y < 12 {
			labelOrigin.Y = y1 + 16
		}
		gocv.PutText(&canvas, label, labelOrigin, gocv.FontHersheySimplex, 0.5, boxColor, 1)
	}

	annotated := &models.Frame{
		Data:      canvas.ToBytes(),
		Width:     frame.Width,
		Height:    frame.Height,
		Channels:  frame.Channels,
		Timestamp: frame.Timestamp,
	}
	return annotated, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
