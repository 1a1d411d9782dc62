package terminator

import (
	"os"
	"syscall"
	"testing"
	"time"
)

// TestManualNotifier_Trigger tests that Trigger invokes the armed
// callback on the calling goroutine.
func TestManualNotifier_Trigger(t *testing.T) {
	n := &ManualNotifier{}

	if n.Trigger() {
		t.Fatal("expected Trigger to be a no-op before Arm")
	}

	var called bool
	n.Arm(func() { called = true })

	if !n.Trigger() {
		t.Fatal("expected Trigger to run the callback")
	}
	if !called {
		t.Fatal("expected the callback to be called")
	}
}

// TestManualNotifier_Disarm tests that Disarm drops the callback.
func TestManualNotifier_Disarm(t *testing.T) {
	n := &ManualNotifier{}

	var called bool
	n.Arm(func() { called = true })
	n.Disarm()

	if n.Armed() {
		t.Fatal("expected Armed false after Disarm")
	}
	if n.Trigger() {
		t.Fatal("expected Trigger to be a no-op after Disarm")
	}
	if called {
		t.Fatal("expected the callback not to run")
	}
}

// TestManualNotifier_ArmKeepsFirstCallback tests that a second Arm does
// not replace an armed callback.
func TestManualNotifier_ArmKeepsFirstCallback(t *testing.T) {
	n := &ManualNotifier{}

	var first, second bool
	n.Arm(func() { first = true })
	n.Arm(func() { second = true })

	n.Trigger()

	if !first || second {
		t.Fatalf("expected only the first callback to run, got first=%v second=%v", first, second)
	}
}

// TestSignalNotifier_Delivery tests that a delivered signal runs the
// callback and requests the conventional exit code. The signal is
// injected on the notifier's channel so the test process never receives
// a real one.
func TestSignalNotifier_Delivery(t *testing.T) {
	exitCode := make(chan int, 1)
	orig := osExit
	osExit = func(code int) { exitCode <- code }
	defer func() { osExit = orig }()

	ran := make(chan struct{})
	n := NewSignalNotifier(syscall.SIGTERM)
	n.Arm(func() { close(ran) })
	defer n.Disarm()

	n.ch <- syscall.SIGTERM

	select {
	case <-ran:
		// OK
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not run after signal delivery")
	}

	select {
	case code := <-exitCode:
		if code != 143 {
			t.Fatalf("expected exit code 143 for SIGTERM, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("process exit was not requested")
	}
}

// TestSignalNotifier_DisarmStopsDelivery tests that nothing runs after
// Disarm.
func TestSignalNotifier_DisarmStopsDelivery(t *testing.T) {
	n := NewSignalNotifier(syscall.SIGTERM)

	called := make(chan struct{}, 1)
	n.Arm(func() { called <- struct{}{} })

	if !n.Armed() {
		t.Fatal("expected Armed true after Arm")
	}

	n.Disarm()

	if n.Armed() {
		t.Fatal("expected Armed false after Disarm")
	}

	select {
	case <-called:
		t.Fatal("callback ran after Disarm")
	case <-time.After(50 * time.Millisecond):
		// OK
	}

	// Disarm again must be a no-op
	n.Disarm()
}

// TestSignalNotifier_ArmIdempotent tests double arming.
func TestSignalNotifier_ArmIdempotent(t *testing.T) {
	n := NewSignalNotifier(syscall.SIGTERM)
	defer n.Disarm()

	n.Arm(func() {})
	ch := n.ch
	n.Arm(func() {})

	if n.ch != ch {
		t.Fatal("expected the second Arm to be a no-op")
	}
}

// TestSignalNotifier_DefaultSignals tests the default signal set.
func TestSignalNotifier_DefaultSignals(t *testing.T) {
	n := NewSignalNotifier()

	if len(n.signals) != 2 {
		t.Fatalf("expected 2 default signals, got %d", len(n.signals))
	}
	want := map[os.Signal]bool{syscall.SIGINT: true, syscall.SIGTERM: true}
	for _, sig := range n.signals {
		if !want[sig] {
			t.Fatalf("unexpected default signal %v", sig)
		}
	}
}

// TestExitCode tests the signal to exit-code mapping.
func TestExitCode(t *testing.T) {
	if got := ExitCode(syscall.SIGINT); got != 130 {
		t.Errorf("ExitCode(SIGINT) = %d, want 130", got)
	}
	if got := ExitCode(syscall.SIGTERM); got != 143 {
		t.Errorf("ExitCode(SIGTERM) = %d, want 143", got)
	}
	if got := ExitCode(fakeSignal{}); got != 1 {
		t.Errorf("ExitCode(non-syscall signal) = %d, want 1", got)
	}
}

type fakeSignal struct{}

func (fakeSignal) String() string { return "fake" }
func (fakeSignal) Signal()        {}
