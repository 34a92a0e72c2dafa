// Package publisher serves the annotated frame stream over HTTP as MJPEG.
package publisher

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"argus-worker-go/internal/models"
)

// MJPEGPublisher holds the latest annotated frame as JPEG and streams it
// to HTTP viewers. It is a display sink: the session loop hands it frames
// and never blocks on slow viewers.
type MJPEGPublisher struct {
	quality int

	jpegMutex  sync.RWMutex
	latestJPEG []byte

	notifyMutex sync.Mutex
	notify      map[chan struct{}]bool
}

func NewMJPEGPublisher(quality int) *MJPEGPublisher {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &MJPEGPublisher{
		quality: quality,
		notify:  make(map[chan struct{}]bool),
	}
}

// Show encodes the frame to JPEG, stores it as the latest image, and nudges
// waiting viewers. Implements the session display sink.
func (p *MJPEGPublisher) Show(frame *models.Frame) error {
	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return fmt.Errorf("failed to create Mat from frame data: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, p.quality})
	if err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}

	b := buf.GetBytes()
	jpegCopy := make([]byte, len(b))
	copy(jpegCopy, b)
	buf.Close()

	p.jpegMutex.Lock()
	p.latestJPEG = jpegCopy
	p.jpegMutex.Unlock()

	p.notifyViewers()
	return nil
}

func (p *MJPEGPublisher) notifyViewers() {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	for ch := range p.notify {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (p *MJPEGPublisher) subscribe() chan struct{} {
	ch := make(chan struct{}, 5)
	p.notifyMutex.Lock()
	p.notify[ch] = true
	p.notifyMutex.Unlock()
	return ch
}

func (p *MJPEGPublisher) unsubscribe(ch chan struct{}) {
	p.notifyMutex.Lock()
	delete(p.notify, ch)
	p.notifyMutex.Unlock()
}

func (p *MJPEGPublisher) latest() []byte {
	p.jpegMutex.RLock()
	defer p.jpegMutex.RUnlock()
	return p.latestJPEG
}

// ServeHTTP streams multipart MJPEG until the viewer disconnects. Before
// the first frame arrives a placeholder image is served so players render
// immediately.
func (p *MJPEGPublisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	boundary := "frame"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	notify := p.subscribe()
	defer p.unsubscribe(notify)

	writePart := func(jpeg []byte) bool {
		if _, err := io.WriteString(w, "--"+boundary+"\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpeg))); err != nil {
			return false
		}
		if _, err := w.Write(jpeg); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	first := p.latest()
	if len(first) == 0 {
		first = p.placeholderJPEG()
	}
	if len(first) > 0 {
		if !writePart(first) {
			return
		}
	}

	keepaliveTicker := time.NewTicker(2 * time.Second)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-notify:
			if buf := p.latest(); len(buf) > 0 {
				if !writePart(buf) {
					return
				}
			}
		case <-keepaliveTicker.C:
			if buf := p.latest(); len(buf) > 0 {
				if !writePart(buf) {
					return
				}
			}
		}
	}
}

func (p *MJPEGPublisher) placeholderJPEG() []byte {
	placeholder := gocv.NewMatWithSize(360, 640, gocv.MatTypeCV8UC3)
	defer placeholder.Close()

	placeholder.SetTo(gocv.Scalar{Val1: 64, Val2: 64, Val3: 64, Val4: 0})

	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.PutText(&placeholder, "No session running",
		image.Pt(20, 180), gocv.FontHersheySimplex, 1.0, textColor, 2)
	gocv.PutText(&placeholder, "Start a detection session to view the stream",
		image.Pt(20, 220), gocv.FontHersheySimplex, 0.6, textColor, 1)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, placeholder, []int{gocv.IMWriteJpegQuality, p.quality})
	if err != nil {
		return nil
	}
	defer buf.Close()

	b := buf.GetBytes()
	jpegCopy := make([]byte, len(b))
	copy(jpegCopy, b)
	return jpegCopy
}

// Shutdown logs termination; viewers are ended by server shutdown.
func (p *MJPEGPublisher) Shutdown() {
	log.Info().Msg("MJPEG publisher shutting down")
}
