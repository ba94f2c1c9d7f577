package autoclicker

import "time"

// Injector emits synthetic left-button events. Implementations wrap a
// platform backend (uinput, XTest, robotgo) and are only called from the
// click loop goroutine.
type Injector interface {
	Press() error
	Release() error
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	// Interval is the pause between click cycles. Must be positive.
	Interval time.Duration
	// Hold is how long the button stays down within a cycle. Zero means
	// DefaultHold.
	Hold time.Duration
}

// DefaultHold is the press-to-release delay used when Config.Hold is unset.
const DefaultHold = 5 * time.Millisecond
