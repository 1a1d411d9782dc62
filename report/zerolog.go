package report

import (
	"github.com/rs/zerolog"
)

// ZerologReporter logs failures through a zerolog.Logger, so shutdown
// handler failures land in the same structured stream as the rest of the
// application's logs.
type ZerologReporter struct {
	logger zerolog.Logger
}

// NewZerologReporter creates a reporter that logs to the given logger.
func NewZerologReporter(logger zerolog.Logger) *ZerologReporter {
	return &ZerologReporter{logger: logger}
}

// Report implements Reporter. Failures log at error level; recovered
// panics additionally carry a panic marker field.
func (r *ZerologReporter) Report(f Failure) error {
	fields := map[string]any{
		"severity": string(f.Severity),
	}
	if f.HandlerID != "" {
		fields["handlerId"] = f.HandlerID
	}
	if f.Handler != "" {
		fields["handler"] = f.Handler
	}
	if f.Location != "" {
		fields["location"] = f.Location
	}
	if f.Severity == SeverityException {
		fields["panic"] = true
	}

	r.logger.Error().Fields(fields).Msg(f.Message)
	return nil
}
