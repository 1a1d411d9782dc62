package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWriterReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	rep := NewWriterReporter(&buf)

	f := FailureFor("id-1", "database", "main.go:42", errors.New("connection refused"), false)
	if err := rep.Report(f); err != nil {
		t.Fatalf("Report error: %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "[database]") {
		t.Errorf("line missing handler name: %q", line)
	}
	if !strings.Contains(line, "An error occurred while processing the shutdown function: connection refused") {
		t.Errorf("line missing message: %q", line)
	}
	if !strings.Contains(line, "(main.go:42)") {
		t.Errorf("line missing location: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("line not newline terminated: %q", line)
	}
}

func TestWriterReporter_ReportsEachOnOwnLine(t *testing.T) {
	var buf bytes.Buffer
	rep := NewWriterReporter(&buf)

	rep.Report(FailureFor("a", "first", "", errors.New("one"), false))
	rep.Report(FailureFor("b", "second", "", errors.New("two"), true))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "one") || !strings.Contains(lines[1], "two") {
		t.Errorf("lines out of order: %q", lines)
	}
}

func TestWriterReporter_WriteError(t *testing.T) {
	rep := NewWriterReporter(failingWriter{})

	err := rep.Report(FailureFor("", "x", "", errors.New("boom"), false))
	if err == nil {
		t.Error("expected error from failing writer")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write refused")
}

func TestFormatFailure(t *testing.T) {
	f := Failure{
		Handler:  "cache",
		Message:  "An error occurred while processing the shutdown function: flush failed",
		Severity: SeverityException,
		Location: "cache.go:9",
		Time:     time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
	}

	line := FormatFailure(f)
	want := "exception 2025-06-01T12:30:45.000Z [cache] An error occurred while processing the shutdown function: flush failed (cache.go:9)\n"
	if line != want {
		t.Errorf("line = %q, want %q", line, want)
	}
}

func TestFormatFailure_Defaults(t *testing.T) {
	line := FormatFailure(Failure{Message: "m"})

	if !strings.HasPrefix(line, "error") {
		t.Errorf("empty severity should render as error: %q", line)
	}
	if strings.Contains(line, "[") {
		t.Errorf("no handler should mean no bracket: %q", line)
	}
}
