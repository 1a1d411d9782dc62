package terminator

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/vinayprograms/terminus/report"
)

// Common errors.
var (
	// ErrNilHandler indicates a registration with no handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrNegativePriority indicates a registration with a priority below zero.
	ErrNegativePriority = errors.New("negative priority")

	// ErrNegativeReservation indicates a registration with a reservation below zero.
	ErrNegativeReservation = errors.New("negative reservation")

	// ErrTerminated indicates the shutdown pass already ran. Handlers
	// registered after that point are never run.
	ErrTerminated = errors.New("terminator already completed")
)

// DefaultPriority is assigned to handlers registered without WithPriority.
const DefaultPriority = 5

// DefaultBaseReservation is the memory reserved when the first handler
// registers, before any per-handler extras. 100 KiB.
const DefaultBaseReservation = 100 * 1024

// Handler is implemented by components that need cleanup at process exit.
type Handler interface {
	// Run performs the cleanup. It is called at most once, sequentially
	// with all other handlers, with no deadline and no cancellation.
	// Implementations must not assume any other handler has run.
	Run() error
}

// HandlerFunc is a convenience type for simple cleanup functions.
type HandlerFunc func() error

// Run implements Handler.
func (f HandlerFunc) Run() error {
	return f()
}

// State is the lifecycle state of a Terminator.
type State int

const (
	// StateUninitialized means nothing has registered yet: no signal
	// binding is installed and no memory is reserved.
	StateUninitialized State = iota

	// StateReady means at least one handler is registered, the exit
	// notifier is armed, and the reservation buffer is held.
	StateReady

	// StateCompleted means the shutdown pass ran. Terminal.
	StateCompleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Registration is the immutable record of one registered handler.
type Registration struct {
	// ID uniquely identifies this registration, for report correlation.
	ID uuid.UUID

	// Name identifies the handler in diagnostics. Defaults to the
	// handler's dynamic type when not set via WithName.
	Name string

	// Handler is the registered handler.
	Handler Handler

	// Priority orders execution: lower runs first. Never negative.
	Priority int

	// Reservation is the extra memory in bytes reserved for this handler.
	Reservation int

	// Location is the source location of the registering call site.
	Location string

	// seq is the insertion order, the tiebreak for equal priorities.
	seq int
}

// Outcome is the result of running a single handler.
type Outcome struct {
	// Registration identifies the handler that ran.
	Registration *Registration

	// Err is nil on success. A panic inside Run is recovered and
	// converted to an error.
	Err error

	// Panicked is true when Err came from a recovered panic.
	Panicked bool

	// Duration is how long the handler ran.
	Duration time.Duration
}

// Summary is the complete result of a shutdown pass.
type Summary struct {
	// Outcomes holds one entry per handler, in execution order.
	Outcomes []Outcome

	// TotalDuration covers the entire pass.
	TotalDuration time.Duration
}

// Failed returns true if any handler failed.
func (s *Summary) Failed() bool {
	for _, o := range s.Outcomes {
		if o.Err != nil {
			return true
		}
	}
	return false
}

// FailedHandlers returns the names of handlers that failed.
func (s *Summary) FailedHandlers() []string {
	var failed []string
	for _, o := range s.Outcomes {
		if o.Err != nil {
			failed = append(failed, o.Registration.Name)
		}
	}
	return failed
}

// Config configures a Terminator.
type Config struct {
	// DefaultPriority is assigned to handlers registered without a
	// priority. Default: 5
	DefaultPriority int

	// BaseReservation is the memory in bytes reserved at the first
	// registration, before per-handler extras. Default: 100 KiB
	BaseReservation int

	// Reporter receives handler failures during the shutdown pass.
	// When nil, or when Report itself fails, failures fall back to
	// FallbackWriter as plain text.
	Reporter report.Reporter

	// FallbackWriter receives plain-text failure diagnostics.
	// Default: os.Stderr
	FallbackWriter io.Writer

	// Notifier binds the terminator to the host's exit facility.
	// Default: a SignalNotifier for SIGINT and SIGTERM.
	Notifier Notifier

	// OnOutcome is called after each handler completes, success or not.
	// Can be used for logging.
	OnOutcome func(Outcome)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultPriority < 0 {
		return ErrNegativePriority
	}
	if c.BaseReservation < 0 {
		return ErrNegativeReservation
	}
	return nil
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPriority: DefaultPriority,
		BaseReservation: DefaultBaseReservation,
	}
}

// Option is a functional option for configuring a registration.
type Option func(*Registration)

// WithPriority sets the execution priority. Lower runs first.
// Negative values make Register fail with ErrNegativePriority.
func WithPriority(priority int) Option {
	return func(r *Registration) {
		r.Priority = priority
	}
}

// WithReservation reserves extra memory, in bytes, on top of the base
// reservation. Negative values make Register fail with
// ErrNegativeReservation.
func WithReservation(bytes int) Option {
	return func(r *Registration) {
		r.Reservation = bytes
	}
}

// WithName sets the handler name used in diagnostics.
func WithName(name string) Option {
	return func(r *Registration) {
		r.Name = name
	}
}
