package session

import (
	"errors"
)

// Error taxonomy for the detection session core. Callers match with
// errors.Is; call sites add context via fmt.Errorf("...: %w", err).
var (
	// ErrPrecondition marks an operation invalid for the current session
	// state. Recoverable: the caller corrects and retries.
	ErrPrecondition = errors.New("operation not valid in current session state")

	// ErrInvalidArgument marks threshold/enablement calls with out-of-range
	// values or unknown class names. Rejected synchronously, no state change.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSourceUnavailable marks a source that cannot be opened. The session
	// stays in (or returns to) idle.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceRead marks a mid-stream read failure. Fatal to the current
	// session: the loop stops and the source is closed.
	ErrSourceRead = errors.New("source read failed")

	// ErrEndOfSource signals that a finite source has produced its last
	// frame. Not a failure; the controller stops the session cleanly.
	ErrEndOfSource = errors.New("end of source")
)
