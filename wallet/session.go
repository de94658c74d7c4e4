package wallet

import (
	"errors"
	"log/slog"
	"time"
)

// Session is a snapshot of the session record. Empty strings and a zero
// Network mean "absent".
type Session struct {
	ID      string
	Account string
	Balance string // whole units (ether)
	Network int64  // chain identifier
	Loading bool
}

// Connected reports whether an account is set
func (s Session) Connected() bool {
	return s.Account != ""
}

// User-facing messages
const (
	MessageProviderAbsent = "MetaMask not detected. Please install MetaMask to use this service"
	MessageConnectFailed  = "There was an error connecting your wallet. Please try again."
)

var (
	ErrProviderAbsent = errors.New("wallet provider not detected")
	ErrAccessDenied   = errors.New("wallet access denied")
	ErrNotMounted     = errors.New("wallet session is not mounted")
	ErrClosed         = errors.New("wallet session is closed")
)

const defaultFetchTimeout = 15 * time.Second

// Option configures a Controller
type Option func(*Controller)

// WithNotifier sets where user-facing messages go. Defaults to a warning log line.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFetchTimeout bounds every single provider call
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(message string) {
	n.logger.Warn("wallet notification", slog.String("message", message))
}
