package report

import "sync"

// MemoryReporter collects failures in memory.
// Useful for testing and single-process scenarios.
type MemoryReporter struct {
	mu       sync.Mutex
	failures []Failure
}

// NewMemoryReporter creates a new in-memory reporter.
func NewMemoryReporter() *MemoryReporter {
	return &MemoryReporter{}
}

// Report implements Reporter.
func (r *MemoryReporter) Report(f Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
	return nil
}

// Failures returns a copy of all failures reported so far, in order.
func (r *MemoryReporter) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

// Len returns the number of failures reported so far.
func (r *MemoryReporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

// Reset discards all collected failures.
func (r *MemoryReporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = nil
}
