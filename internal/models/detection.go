package models

import (
	"time"
)

// BoundingBox locates a detection inside a frame, in pixel coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection is one model-reported object instance. Immutable once created
// by the inference engine.
type Detection struct {
	ClassID    int         `json:"class_id"`
	ClassName  string      `json:"class_name"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// AlertRecord is a detection that passed the threshold/enablement filter,
// destined for operator notification. Ownership passes to the alert sink
// on emission.
type AlertRecord struct {
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
}
