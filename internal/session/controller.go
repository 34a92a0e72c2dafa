package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"argus-worker-go/internal/engine"
	"argus-worker-go/internal/metrics"
	"argus-worker-go/internal/models"
)

// State is the atomic lifecycle state of a detection session.
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// AlertSink receives alert records in emission order. Delivery is
// fire-and-forget: errors are logged by the controller and never fail the
// frame loop.
type AlertSink interface {
	Notify(alert models.AlertRecord) error
}

// DisplaySink receives annotated frames. Same fire-and-forget contract as
// AlertSink.
type DisplaySink interface {
	Show(frame *models.Frame) error
}

const stopTimeout = 5 * time.Second

// Controller drives the detect-and-alert loop for one session: it owns the
// frame source lifecycle, runs the inference/filter/annotate cycle on a
// dedicated goroutine, and forwards results to the display and alert
// sinks. Control operations are safe to call concurrently with the loop.
type Controller struct {
	source    FrameSource
	processor *FrameProcessor
	policy    *ThresholdPolicy
	engine    engine.Engine
	displays  []DisplaySink
	alerts    []AlertSink
	metrics   *metrics.Metrics

	// Minimum interval between video-file frames so short files do not
	// replay unthrottled. Camera reads pace themselves.
	videoFrameInterval time.Duration

	state int32

	mu       sync.Mutex // guards loopDone and lastErr
	loopDone chan struct{}
	lastErr  error
}

// ControllerOptions wires the controller's collaborators.
type ControllerOptions struct {
	Source             FrameSource
	Engine             engine.Engine
	Policy             *ThresholdPolicy
	Displays           []DisplaySink
	Alerts             []AlertSink
	Metrics            *metrics.Metrics
	VideoFrameInterval time.Duration
}

// NewController builds an idle session controller.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{
		source:             opts.Source,
		processor:          NewFrameProcessor(opts.Engine),
		policy:             opts.Policy,
		engine:             opts.Engine,
		displays:           opts.Displays,
		alerts:             opts.Alerts,
		metrics:            opts.Metrics,
		videoFrameInterval: opts.VideoFrameInterval,
	}
}

// State returns the current session state.
func (c *Controller) State() State {
	return State(atomic.LoadInt32(&c.state))
}

func (c *Controller) setState(s State) {
	atomic.StoreInt32(&c.state, int32(s))
}

func (c *Controller) casState(from, to State) bool {
	return atomic.CompareAndSwapInt32(&c.state, int32(from), int32(to))
}

// Policy exposes the session's threshold policy for the control surface.
func (c *Controller) Policy() *ThresholdPolicy {
	return c.policy
}

// Source returns the configured source descriptor.
func (c *Controller) Source() models.Source {
	return c.source.Current()
}

// LastError reports the error that ended the previous session, if any.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetSource switches the frame source. Permitted in any state; the running
// loop picks up the new source on its next frame pull. The previous handle
// is always released before the new one is acquired.
func (c *Controller) SetSource(src models.Source) error {
	return c.source.SetSource(src)
}

// Start transitions idle -> starting -> running and launches the frame
// loop. It requires a configured source and a loaded engine
// (ErrPrecondition otherwise) and fails with ErrSourceUnavailable if the
// source cannot be opened, returning the session to idle.
func (c *Controller) Start() error {
	if !c.casState(StateIdle, StateStarting) {
		return fmt.Errorf("%w: cannot start from state %s", ErrPrecondition, c.State())
	}

	if c.engine == nil {
		c.setState(StateIdle)
		return fmt.Errorf("%w: no inference engine loaded", ErrPrecondition)
	}
	if c.source.Current().IsZero() {
		c.setState(StateIdle)
		return fmt.Errorf("%w: no source configured", ErrPrecondition)
	}

	if err := c.source.EnsureOpen(); err != nil {
		c.setState(StateIdle)
		return err
	}

	c.mu.Lock()
	c.loopDone = make(chan struct{})
	c.lastErr = nil
	c.mu.Unlock()

	if !c.casState(StateStarting, StateRunning) {
		// Stopped while starting; release what we just acquired, then
		// unblock any Stop waiting on the channel we created above.
		_ = c.source.Close()
		c.setState(StateIdle)
		c.mu.Lock()
		close(c.loopDone)
		c.mu.Unlock()
		return fmt.Errorf("%w: session stopped during startup", ErrPrecondition)
	}

	log.Info().Str("source", c.source.Current().Describe()).Msg("Detection session started")
	if c.metrics != nil {
		c.metrics.SessionsStarted.Add(1)
	}

	go c.run()
	return nil
}

// Stop ends the session: the loop exits after the in-flight cycle
// completes (cooperative cancellation, never mid-read). Stop returns only
// once the source handle is released and the state is back to idle,
// regardless of which goroutine initiated the shutdown. Stop on an idle
// session is a no-op.
func (c *Controller) Stop() error {
	for {
		switch s := c.State(); s {
		case StateIdle:
			return nil
		case StateStopping:
			c.awaitLoop()
			c.finishStop()
			return nil
		case StateStarting, StateRunning:
			if c.casState(s, StateStopping) {
				c.awaitLoop()
				c.finishStop()
				return nil
			}
		}
	}
}

// finishStop releases the handle and returns to idle if the loop has not
// already done so (no loop running, or it missed the shutdown window).
func (c *Controller) finishStop() {
	if c.State() == StateIdle {
		return
	}
	_ = c.source.Close()
	c.setState(StateIdle)
	log.Info().Msg("Detection session stopped")
}

func (c *Controller) awaitLoop() {
	c.mu.Lock()
	done := c.loopDone
	c.mu.Unlock()
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(stopTimeout):
		log.Warn().Msg("Frame loop did not confirm shutdown in time")
	}
}

func (c *Controller) setLastErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// run is the frame loop: one dedicated goroutine per running session, the
// only writer of session state besides Start/Stop. State is checked at the
// top of each iteration so a stop lets the current cycle finish.
func (c *Controller) run() {
	c.mu.Lock()
	done := c.loopDone
	c.mu.Unlock()

	for c.State() == StateRunning {
		frame, err := c.source.Next()
		if err != nil {
			if errors.Is(err, ErrEndOfSource) {
				log.Info().Str("source", c.source.Current().Describe()).Msg("Source exhausted, session stopping")
			} else {
				log.Error().Err(err).Str("source", c.source.Current().Describe()).Msg("Source read failed, session stopping")
				c.setLastErr(err)
				if c.metrics != nil {
					c.metrics.SourceErrors.Add(1)
				}
			}
			c.casState(StateRunning, StateStopping)
			break
		}

		c.processOne(frame)

		if c.videoFrameInterval > 0 && c.source.Current().Kind == models.SourceVideo {
			time.Sleep(c.videoFrameInterval)
		}
	}

	// The loop owns teardown on the way out: the handle must be released
	// and the state back to idle before close(done) unblocks any waiter in
	// Stop.
	if c.State() == StateStopping {
		_ = c.source.Close()
		c.setState(StateIdle)
		log.Info().Msg("Detection session stopped")
	}

	close(done)
}

// processOne runs a single inference/filter/annotate cycle and forwards
// the results. A failed cycle is logged and skipped; only source-level
// errors end the session.
func (c *Controller) processOne(frame *models.Frame) {
	started := time.Now()
	snapshot := c.policy.Snapshot()
	sourceDesc := c.source.Current().Describe()

	annotated, alerts, err := c.processor.Process(frame, snapshot, sourceDesc)
	if err != nil {
		log.Warn().Err(err).Msg("Frame processing failed, skipping frame")
		if c.metrics != nil {
			c.metrics.ProcessErrors.Add(1)
		}
		return
	}

	if c.metrics != nil {
		c.metrics.FramesProcessed.Add(1)
		c.metrics.ObserveInference(time.Since(started))
	}

	for _, display := range c.displays {
		if err := display.Show(annotated); err != nil {
			log.Warn().Err(err).Msg("Display sink rejected frame")
		}
	}

	for _, alert := range alerts {
		for _, sink := range c.alerts {
			if err := sink.Notify(alert); err != nil {
				log.Warn().Err(err).Str("class", alert.ClassName).Msg("Alert sink rejected alert")
			}
		}
		if c.metrics != nil {
			c.metrics.AlertsEmitted.Add(1)
		}
	}
}
