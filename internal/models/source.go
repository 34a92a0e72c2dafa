package models

import (
	"fmt"
)

// SourceKind selects the frame source variant.
type SourceKind string

const (
	SourceCamera SourceKind = "camera"
	SourceVideo  SourceKind = "video"
	SourceImage  SourceKind = "image"
)

// Source is a tagged variant describing where frames come from. Exactly one
// source is active per session.
type Source struct {
	Kind        SourceKind `json:"kind"`
	DeviceIndex int        `json:"device_index,omitempty"`
	Path        string     `json:"path,omitempty"`
}

// CameraSource describes a local capture device.
func CameraSource(deviceIndex int) Source {
	return Source{Kind: SourceCamera, DeviceIndex: deviceIndex}
}

// VideoSource describes a video file played back in a loop.
func VideoSource(path string) Source {
	return Source{Kind: SourceVideo, Path: path}
}

// ImageSource describes a single still image.
func ImageSource(path string) Source {
	return Source{Kind: SourceImage, Path: path}
}

// Describe returns a short operator-facing description of the source.
func (s Source) Describe() string {
	switch s.Kind {
	case SourceCamera:
		return fmt.Sprintf("camera:%d", s.DeviceIndex)
	case SourceVideo:
		return fmt.Sprintf("video:%s", s.Path)
	case SourceImage:
		return fmt.Sprintf("image:%s", s.Path)
	default:
		return "unset"
	}
}

// IsZero reports whether no source has been configured.
func (s Source) IsZero() bool {
	return s.Kind == ""
}
