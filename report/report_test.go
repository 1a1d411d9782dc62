package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFailureFor_Error(t *testing.T) {
	f := FailureFor("id-1", "database", "main.go:42", errors.New("connection refused"), false)

	if f.Severity != SeverityError {
		t.Errorf("severity = %q, want %q", f.Severity, SeverityError)
	}
	if f.HandlerID != "id-1" {
		t.Errorf("handler id = %q, want %q", f.HandlerID, "id-1")
	}
	if f.Handler != "database" {
		t.Errorf("handler = %q, want %q", f.Handler, "database")
	}
	if f.Location != "main.go:42" {
		t.Errorf("location = %q, want %q", f.Location, "main.go:42")
	}
	if f.Time.IsZero() {
		t.Error("time not set")
	}
}

// The message format is a contract with downstream sinks: always the
// fixed prefix followed by the cause.
func TestFailureFor_MessageFormat(t *testing.T) {
	f := FailureFor("", "", "", errors.New("disk full"), false)

	want := "An error occurred while processing the shutdown function: disk full"
	if f.Message != want {
		t.Errorf("message = %q, want %q", f.Message, want)
	}
}

func TestFailureFor_Panic(t *testing.T) {
	f := FailureFor("id-2", "cache", "", errors.New("recovered: index out of range"), true)

	if f.Severity != SeverityException {
		t.Errorf("severity = %q, want %q", f.Severity, SeverityException)
	}
	if !strings.HasPrefix(f.Message, "An error occurred while processing the shutdown function: ") {
		t.Errorf("message missing prefix: %q", f.Message)
	}
}

func TestFailureFor_NilError(t *testing.T) {
	f := FailureFor("", "worker", "", nil, false)

	want := "An error occurred while processing the shutdown function: unknown error"
	if f.Message != want {
		t.Errorf("message = %q, want %q", f.Message, want)
	}
}

func TestSeverity_Valid(t *testing.T) {
	if !SeverityError.Valid() {
		t.Error("SeverityError should be valid")
	}
	if !SeverityException.Valid() {
		t.Error("SeverityException should be valid")
	}
	if Severity("warning").Valid() {
		t.Error("unknown severity should be invalid")
	}
}

func TestFailure_JSON(t *testing.T) {
	f := FailureFor("id-3", "queue", "worker.go:17", errors.New("drain failed"), false)
	f.Time = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// Field names are part of the wire contract.
	for _, key := range []string{`"handler_id"`, `"handler"`, `"message"`, `"severity"`, `"location"`, `"time"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing %s: %s", key, data)
		}
	}

	var got Failure
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.Handler != f.Handler || got.Message != f.Message || got.Severity != f.Severity {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, f)
	}
	if !got.Time.Equal(f.Time) {
		t.Errorf("time = %v, want %v", got.Time, f.Time)
	}
}

func TestFailure_JSONOmitsEmpty(t *testing.T) {
	f := Failure{Message: "An error occurred while processing the shutdown function: x", Severity: SeverityError}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, key := range []string{`"handler_id"`, `"location"`, `"time"`} {
		if strings.Contains(string(data), key) {
			t.Errorf("JSON should omit empty %s: %s", key, data)
		}
	}
}
