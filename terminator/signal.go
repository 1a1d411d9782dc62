package terminator

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Notifier binds a Terminator to the host's exit facility. The
// Terminator arms it on the first registration and disarms it as the
// first step of the shutdown pass.
//
// Arm must not invoke run synchronously; run is for the moment the host
// actually signals termination. After Disarm returns, run must never be
// invoked and further termination requests must not interrupt the
// process.
type Notifier interface {
	// Arm installs the binding. run is invoked at most once.
	Arm(run func())

	// Disarm removes the binding.
	Disarm()
}

// SignalNotifier is the production Notifier: it listens for termination
// signals, runs the shutdown pass on the first one and then exits with
// the conventional code for that signal (130 for SIGINT, 143 for
// SIGTERM). Disarm stops delivery and ignores the signals outright, so a
// second Ctrl-C cannot cut the pass short.
type SignalNotifier struct {
	signals []os.Signal

	mu    sync.Mutex
	ch    chan os.Signal
	armed bool
}

// NewSignalNotifier creates a notifier for the given signals.
// Defaults to SIGINT and SIGTERM.
func NewSignalNotifier(signals ...os.Signal) *SignalNotifier {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	return &SignalNotifier{signals: signals}
}

// Arm implements Notifier.
func (n *SignalNotifier) Arm(run func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.armed {
		return
	}
	n.armed = true
	n.ch = make(chan os.Signal, 1)
	signal.Notify(n.ch, n.signals...)

	ch := n.ch
	go func() {
		sig, ok := <-ch
		if !ok {
			return
		}
		run()
		osExit(ExitCode(sig))
	}()
}

// Disarm implements Notifier.
func (n *SignalNotifier) Disarm() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.armed {
		return
	}
	n.armed = false
	signal.Stop(n.ch)
	signal.Ignore(n.signals...)
	close(n.ch)
}

// Armed reports whether the notifier is currently armed.
func (n *SignalNotifier) Armed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.armed
}

// ExitCode returns the conventional exit code for a termination signal:
// 128 plus the signal number. 130 for SIGINT, 143 for SIGTERM.
func ExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

// ManualNotifier is a caller-driven Notifier. Trigger invokes the armed
// callback directly on the calling goroutine and does not exit the
// process. Useful for tests and for embedding the Terminator behind some
// other lifecycle mechanism.
type ManualNotifier struct {
	mu  sync.Mutex
	run func()
}

// Arm implements Notifier.
func (n *ManualNotifier) Arm(run func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.run == nil {
		n.run = run
	}
}

// Disarm implements Notifier.
func (n *ManualNotifier) Disarm() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.run = nil
}

// Armed reports whether the notifier is currently armed.
func (n *ManualNotifier) Armed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.run != nil
}

// Trigger invokes the armed callback, if any. It returns true if a
// callback ran.
func (n *ManualNotifier) Trigger() bool {
	n.mu.Lock()
	run := n.run
	n.mu.Unlock()

	if run == nil {
		return false
	}
	run()
	return true
}
