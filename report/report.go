package report

import (
	"encoding/json"
	"errors"
	"time"
)

// Common errors.
var (
	// ErrClosed indicates the reporter's underlying connection was closed.
	ErrClosed = errors.New("reporter closed")

	// ErrNoSubject indicates a NATS reporter was created without a subject.
	ErrNoSubject = errors.New("missing subject")

	// ErrNoEndpoint indicates an HTTP reporter was created without an endpoint.
	ErrNoEndpoint = errors.New("missing endpoint")
)

// messagePrefix is prepended to every failure message so that downstream
// sinks can recognize shutdown-handler failures regardless of transport.
const messagePrefix = "An error occurred while processing the shutdown function: "

// Severity classifies how a handler failed.
type Severity string

const (
	// SeverityError indicates the handler returned an error.
	SeverityError Severity = "error"

	// SeverityException indicates the handler panicked and the panic was
	// recovered by the orchestrator.
	SeverityException Severity = "exception"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityException:
		return true
	default:
		return false
	}
}

// Failure is the structured record of a single shutdown handler failure.
type Failure struct {
	// HandlerID uniquely identifies the registration that failed.
	HandlerID string

	// Handler is the registered name of the handler.
	Handler string

	// Message is the canonical failure message, always of the form
	// "An error occurred while processing the shutdown function: <cause>".
	Message string

	// Severity is SeverityException for recovered panics,
	// SeverityError otherwise.
	Severity Severity

	// Location is the source location where the handler was registered,
	// if available.
	Location string

	// Time is when the failure was observed.
	Time time.Time
}

// FailureFor builds the canonical Failure record for a handler error.
// panicked selects SeverityException over SeverityError.
func FailureFor(handlerID, handler, location string, err error, panicked bool) Failure {
	msg := messagePrefix
	if err != nil {
		msg += err.Error()
	} else {
		msg += "unknown error"
	}

	severity := SeverityError
	if panicked {
		severity = SeverityException
	}

	return Failure{
		HandlerID: handlerID,
		Handler:   handler,
		Message:   msg,
		Severity:  severity,
		Location:  location,
		Time:      time.Now(),
	}
}

// failureJSON is the JSON representation of a Failure.
type failureJSON struct {
	HandlerID string   `json:"handler_id,omitempty"`
	Handler   string   `json:"handler,omitempty"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Location  string   `json:"location,omitempty"`
	Time      string   `json:"time,omitempty"`
}

// Ensure Failure implements json.Marshaler/Unmarshaler.
var (
	_ json.Marshaler   = (*Failure)(nil)
	_ json.Unmarshaler = (*Failure)(nil)
)

// MarshalJSON implements json.Marshaler.
func (f Failure) MarshalJSON() ([]byte, error) {
	j := failureJSON{
		HandlerID: f.HandlerID,
		Handler:   f.Handler,
		Message:   f.Message,
		Severity:  f.Severity,
		Location:  f.Location,
	}
	if !f.Time.IsZero() {
		j.Time = f.Time.Format(time.RFC3339Nano)
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Failure) UnmarshalJSON(data []byte) error {
	var j failureJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	f.HandlerID = j.HandlerID
	f.Handler = j.Handler
	f.Message = j.Message
	f.Severity = j.Severity
	f.Location = j.Location
	if j.Time != "" {
		if t, err := time.Parse(time.RFC3339Nano, j.Time); err == nil {
			f.Time = t
		}
	}
	return nil
}

// Reporter is the external collaborator that receives handler failures
// during the shutdown pass.
//
// A Reporter must never block indefinitely: the process is exiting and
// every other registered handler is waiting behind the report. If Report
// returns an error the orchestrator falls back to its plain-text writer,
// so reporting can never silence a failure.
type Reporter interface {
	// Report delivers a single failure to the sink.
	Report(f Failure) error
}
