package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"argus-worker-go/internal/models"
)

// FrameSource is what the controller's loop consumes. SourceManager is the
// production implementation; tests substitute recording fakes.
type FrameSource interface {
	// SetSource switches the active source, always releasing the previous
	// handle before acquiring the new one.
	SetSource(src models.Source) error
	// EnsureOpen acquires the configured source if it is not already open.
	EnsureOpen() error
	// Next blocks until a frame is available. It returns ErrEndOfSource
	// once a still image has been served, and ErrSourceRead on a fatal
	// mid-stream failure.
	Next() (*models.Frame, error)
	// Close releases the capture/decoder handle. Idempotent.
	Close() error
	// Current returns the configured source descriptor.
	Current() models.Source
	// IsOpen reports whether a capture/decoder handle is held.
	IsOpen() bool
}

// SourceManager owns exactly one frame source and its acquisition/release
// lifecycle. At most one capture/decoder handle is open at any time; all
// handle access is serialized by the manager's lock.
type SourceManager struct {
	mu     sync.Mutex
	source models.Source

	capture *gocv.VideoCapture // camera or video decoder
	still   *models.Frame      // decoded image for SourceImage
	served  bool               // still image already delivered
	open    bool
}

// NewSourceManager returns a manager with no source configured.
func NewSourceManager() *SourceManager {
	return &SourceManager{}
}

// SetSource switches the active source. Correctness requirement: two
// sources must never be open simultaneously, so the previous handle is
// released before the new one is acquired. On open failure the manager is
// left closed with the new source configured.
func (sm *SourceManager) SetSource(src models.Source) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.open {
		sm.closeLocked()
	}
	sm.source = src

	if err := sm.openLocked(); err != nil {
		return err
	}

	log.Info().Str("source", src.Describe()).Msg("Source switched")
	return nil
}

// EnsureOpen acquires the configured source if needed.
func (sm *SourceManager) EnsureOpen() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.open {
		return nil
	}
	return sm.openLocked()
}

// Current returns the configured source descriptor.
func (sm *SourceManager) Current() models.Source {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.source
}

// IsOpen reports whether a handle is currently held.
func (sm *SourceManager) IsOpen() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.open
}

// Next blocks until the source yields a frame. Video files loop: at end of
// stream the decoder is reopened from the beginning instead of failing. A
// still image is served once, then ErrEndOfSource.
func (sm *SourceManager) Next() (*models.Frame, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.open {
		return nil, fmt.Errorf("%w: no open source", ErrSourceRead)
	}

	switch sm.source.Kind {
	case models.SourceImage:
		if sm.served {
			return nil, ErrEndOfSource
		}
		sm.served = true
		return sm.still.Clone(), nil

	case models.SourceCamera:
		frame, ok := sm.readFrame()
		if !ok {
			return nil, fmt.Errorf("%w: camera %d stopped delivering frames", ErrSourceRead, sm.source.DeviceIndex)
		}
		return frame, nil

	case models.SourceVideo:
		if frame, ok := sm.readFrame(); ok {
			return frame, nil
		}
		// End of file: loop playback by reopening the decoder.
		sm.closeLocked()
		if err := sm.openLocked(); err != nil {
			return nil, fmt.Errorf("%w: reopening %s: %v", ErrSourceRead, sm.source.Path, err)
		}
		frame, ok := sm.readFrame()
		if !ok {
			return nil, fmt.Errorf("%w: %s yields no frames after reopen", ErrSourceRead, sm.source.Path)
		}
		log.Debug().Str("path", sm.source.Path).Msg("Video looped back to first frame")
		return frame, nil

	default:
		return nil, fmt.Errorf("%w: no source configured", ErrSourceRead)
	}
}

// Close releases the handle. Safe to call repeatedly and from the control
// goroutine once the loop has confirmed it will not read again.
func (sm *SourceManager) Close() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.closeLocked()
	return nil
}

func (sm *SourceManager) openLocked() error {
	switch sm.source.Kind {
	case models.SourceCamera:
		cap, err := gocv.OpenVideoCapture(sm.source.DeviceIndex)
		if err != nil {
			return fmt.Errorf("%w: opening camera %d: %v", ErrSourceUnavailable, sm.source.DeviceIndex, err)
		}
		if !cap.IsOpened() {
			cap.Close()
			return fmt.Errorf("%w: camera %d did not open", ErrSourceUnavailable, sm.source.DeviceIndex)
		}
		sm.capture = cap

	case models.SourceVideo:
		if _, err := os.Stat(sm.source.Path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, sm.source.Path, err)
		}
		cap, err := gocv.VideoCaptureFile(sm.source.Path)
		if err != nil {
			return fmt.Errorf("%w: opening %s: %v", ErrSourceUnavailable, sm.source.Path, err)
		}
		if !cap.IsOpened() {
			cap.Close()
			return fmt.Errorf("%w: %s is not a readable video", ErrSourceUnavailable, sm.source.Path)
		}
		sm.capture = cap

	case models.SourceImage:
		mat := gocv.IMRead(sm.source.Path, gocv.IMReadColor)
		if mat.Empty() {
			mat.Close()
			return fmt.Errorf("%w: %s is not a decodable image", ErrSourceUnavailable, sm.source.Path)
		}
		sm.still = matToFrame(&mat)
		mat.Close()
		sm.served = false

	default:
		return fmt.Errorf("%w: no source configured", ErrSourceUnavailable)
	}

	sm.open = true
	log.Debug().Str("source", sm.source.Describe()).Msg("Source opened")
	return nil
}

func (sm *SourceManager) closeLocked() {
	if !sm.open {
		return
	}
	if sm.capture != nil {
		if err := sm.capture.Close(); err != nil {
			log.Warn().Err(err).Str("source", sm.source.Describe()).Msg("Failed to release capture handle")
		}
		sm.capture = nil
	}
	sm.still = nil
	sm.served = false
	sm.open = false
	log.Debug().Str("source", sm.source.Describe()).Msg("Source closed")
}

// readFrame performs one blocking decoder read under the manager's lock.
func (sm *SourceManager) readFrame() (*models.Frame, bool) {
	img := gocv.NewMat()
	defer img.Close()

	if ok := sm.capture.Read(&img); !ok || img.Empty() {
		return nil, false
	}
	return matToFrame(&img), true
}

func matToFrame(mat *gocv.Mat) *models.Frame {
	return &models.Frame{
		Data:      mat.ToBytes(),
		Width:     mat.Cols(),
		Height:    mat.Rows(),
		Channels:  mat.Channels(),
		Timestamp: time.Now(),
	}
}
