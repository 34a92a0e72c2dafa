package models

import (
	"time"
)

// Frame is one decoded image handed through the pipeline. Pixel data is
// packed BGR (8 bits per channel), row-major, matching what the capture
// layer produces. The buffer is owned by whoever holds the frame; the
// annotation step always works on a copy.
type Frame struct {
	Data      []byte    `json:"-"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Channels  int       `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// Clone returns a frame with its own copy of the pixel buffer.
func (f *Frame) Clone() *Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return &Frame{
		Data:      data,
		Width:     f.Width,
		Height:    f.Height,
		Channels:  f.Channels,
		Timestamp: f.Timestamp,
	}
}
