package terminator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vinayprograms/terminus/report"
)

// osExit is indirected so Exit and signal handling are testable.
var osExit = os.Exit

// Terminator owns a registry of shutdown handlers and runs them exactly
// once when the process terminates.
type Terminator struct {
	config   Config
	notifier Notifier

	mu       sync.Mutex
	state    State
	handlers []*Registration
	seq      int

	reservation reservation

	once    sync.Once
	summary *Summary
	done    chan struct{}
}

// New creates a Terminator. Nothing is installed and no memory is
// reserved until the first registration.
func New(config Config) *Terminator {
	if config.DefaultPriority == 0 {
		config.DefaultPriority = DefaultConfig().DefaultPriority
	}
	if config.BaseReservation == 0 {
		config.BaseReservation = DefaultConfig().BaseReservation
	}
	if config.FallbackWriter == nil {
		config.FallbackWriter = os.Stderr
	}

	notifier := config.Notifier
	if notifier == nil {
		notifier = NewSignalNotifier()
	}

	return &Terminator{
		config:   config,
		notifier: notifier,
		done:     make(chan struct{}),
	}
}

// Register adds a handler to be run at shutdown. The first registration
// arms the exit notifier and allocates the base reservation; every
// registration with WithReservation grows the reservation by that many
// bytes, immediately.
//
// Register fails with ErrNilHandler, ErrNegativePriority or
// ErrNegativeReservation on bad input, and with ErrTerminated once the
// shutdown pass has started; a late handler is never run.
func (t *Terminator) Register(h Handler, opts ...Option) (*Registration, error) {
	return t.register(h, 1, opts)
}

// RegisterFunc is a convenience method for registering a function as a
// handler.
func (t *Terminator) RegisterFunc(fn func() error, opts ...Option) (*Registration, error) {
	return t.register(HandlerFunc(fn), 1, opts)
}

// register implements registration. skip counts stack frames between the
// exported entry point and the user's call site.
func (t *Terminator) register(h Handler, skip int, opts []Option) (*Registration, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	reg := &Registration{
		ID:       uuid.New(),
		Handler:  h,
		Priority: t.config.DefaultPriority,
		Location: callSite(skip + 2),
	}
	for _, opt := range opts {
		opt(reg)
	}
	if reg.Priority < 0 {
		return nil, ErrNegativePriority
	}
	if reg.Reservation < 0 {
		return nil, ErrNegativeReservation
	}
	if reg.Name == "" {
		reg.Name = fmt.Sprintf("%T", h)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateCompleted {
		return nil, ErrTerminated
	}

	if t.state == StateUninitialized {
		t.reservation.grow(t.config.BaseReservation)
		t.notifier.Arm(func() { t.Terminate() })
		t.state = StateReady
	}
	t.reservation.grow(reg.Reservation)

	reg.seq = t.seq
	t.seq++
	t.handlers = append(t.handlers, reg)

	return reg, nil
}

// callSite returns the file:line that is skip frames up the stack.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// IsReady reports whether at least one handler is registered and the
// shutdown pass has not run yet.
func (t *Terminator) IsReady() bool {
	return t.State() == StateReady
}

// State returns the current lifecycle state.
func (t *Terminator) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Len returns the number of registered handlers.
func (t *Terminator) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handlers)
}

// ReservedBytes returns the size of the reservation buffer currently
// held. Zero before the first registration and again once the shutdown
// pass has released it.
func (t *Terminator) ReservedBytes() int {
	return t.reservation.bytes()
}

// Terminate runs the shutdown pass: it disarms the notifier so further
// termination requests cannot interrupt the pass, releases the
// reservation buffer, sorts handlers by ascending priority (ties in
// registration order) and runs them sequentially. A failing handler is
// reported and the pass continues; nothing is retried.
//
// Terminate runs the pass at most once. Later and concurrent calls wait
// for the pass to finish and return the same Summary.
func (t *Terminator) Terminate() *Summary {
	t.once.Do(t.run)
	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

// run performs the single shutdown pass.
func (t *Terminator) run() {
	defer close(t.done)
	start := time.Now()

	t.mu.Lock()
	t.state = StateCompleted
	handlers := make([]*Registration, len(t.handlers))
	copy(handlers, t.handlers)
	t.mu.Unlock()

	// Step one: make the pass uninterruptible.
	t.notifier.Disarm()

	// Step two: return the reserved headroom before any handler needs it.
	t.reservation.release()

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority < handlers[j].Priority
	})

	outcomes := make([]Outcome, 0, len(handlers))
	for _, reg := range handlers {
		handlerStart := time.Now()
		panicked, err := runHandler(reg.Handler)

		outcome := Outcome{
			Registration: reg,
			Err:          err,
			Panicked:     panicked,
			Duration:     time.Since(handlerStart),
		}
		outcomes = append(outcomes, outcome)

		if err != nil {
			t.reportFailure(reg, err, panicked)
		}
		if t.config.OnOutcome != nil {
			t.config.OnOutcome(outcome)
		}
	}

	summary := &Summary{
		Outcomes:      outcomes,
		TotalDuration: time.Since(start),
	}

	t.mu.Lock()
	t.summary = summary
	t.mu.Unlock()
}

// runHandler executes one handler, converting a panic into an error.
func runHandler(h Handler) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	err = h.Run()
	return
}

// reportFailure delivers one failure to the configured reporter, falling
// back to the plain-text writer when there is no reporter or the
// reporter itself fails.
func (t *Terminator) reportFailure(reg *Registration, err error, panicked bool) {
	f := report.FailureFor(reg.ID.String(), reg.Name, reg.Location, err, panicked)

	if t.config.Reporter != nil {
		if rerr := t.config.Reporter.Report(f); rerr == nil {
			return
		}
	}

	io.WriteString(t.config.FallbackWriter, report.FormatFailure(f))
}

// Exit runs the shutdown pass and then exits the process with the given
// code.
func (t *Terminator) Exit(code int) {
	t.Terminate()
	osExit(code)
}

// Done returns a channel that is closed when the shutdown pass is
// complete.
func (t *Terminator) Done() <-chan struct{} {
	return t.done
}

// Result returns the Summary of the shutdown pass.
// Only valid after Done() is closed; nil before that.
func (t *Terminator) Result() *Summary {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.summary
	default:
		return nil
	}
}

// --- Default instance ---

var (
	defaultOnce sync.Once
	defaultTerm *Terminator
)

// Default returns the process-wide Terminator, created with
// DefaultConfig on first use.
func Default() *Terminator {
	defaultOnce.Do(func() {
		defaultTerm = New(DefaultConfig())
	})
	return defaultTerm
}

// Register adds a handler to the default Terminator.
func Register(h Handler, opts ...Option) (*Registration, error) {
	return Default().register(h, 1, opts)
}

// RegisterFunc registers a function with the default Terminator.
func RegisterFunc(fn func() error, opts ...Option) (*Registration, error) {
	return Default().register(HandlerFunc(fn), 1, opts)
}

// IsReady reports whether the default Terminator is ready.
func IsReady() bool {
	return Default().IsReady()
}

// Terminate runs the default Terminator's shutdown pass.
func Terminate() *Summary {
	return Default().Terminate()
}

// Exit runs the default Terminator's shutdown pass and then exits the
// process with the given code.
func Exit(code int) {
	Default().Exit(code)
}
