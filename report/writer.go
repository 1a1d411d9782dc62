package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// WriterReporter writes plain-text failure lines to an io.Writer. It is
// the zero-dependency sink and the shape the orchestrator's own fallback
// diagnostic takes when no reporter is configured.
type WriterReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterReporter creates a reporter that writes to w.
// If w is nil, os.Stdout is used.
func NewWriterReporter(w io.Writer) *WriterReporter {
	if w == nil {
		w = os.Stdout
	}
	return &WriterReporter{out: w}
}

// Report implements Reporter. Each failure becomes a single line:
// SEVERITY TIMESTAMP [handler] message (location)
func (r *WriterReporter) Report(f Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprint(r.out, FormatFailure(f))
	if err != nil {
		return fmt.Errorf("write failure report: %w", err)
	}
	return nil
}

// FormatFailure renders a failure as a single plain-text line, newline
// terminated. The orchestrator uses the same rendering for its fallback
// diagnostic so writer output and fallback output are identical.
func FormatFailure(f Failure) string {
	ts := f.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	timestamp := ts.UTC().Format("2006-01-02T15:04:05.000Z")

	severity := string(f.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	name := f.Handler
	if name == "" {
		name = f.HandlerID
	}

	line := fmt.Sprintf("%-9s %s", severity, timestamp)
	if name != "" {
		line += fmt.Sprintf(" [%s]", name)
	}
	line += " " + f.Message
	if f.Location != "" {
		line += fmt.Sprintf(" (%s)", f.Location)
	}
	return line + "\n"
}
