package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vinayprograms/terminus/credentials"
	"github.com/vinayprograms/terminus/report"
	"github.com/vinayprograms/terminus/terminator"
)

// NewReporter builds the failure reporter selected by reporter.type.
// Type "none" (the default) returns a nil reporter, which makes the
// terminator fall back to plain-text diagnostics.
func (c *Configuration) NewReporter() (report.Reporter, error) {
	switch strings.ToLower(c.Reporter.Type) {
	case "", "none":
		return nil, nil
	case "writer":
		return report.NewWriterReporter(os.Stdout), nil
	case "zerolog":
		return report.NewZerologReporter(c.Logger()), nil
	case "file":
		return report.NewFileReporter(c.Reporter.File.Path)
	case "nats":
		return c.newNATSReporter()
	case "http":
		return c.newHTTPReporter()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReporterType, c.Reporter.Type)
	}
}

func (c *Configuration) newNATSReporter() (report.Reporter, error) {
	creds, _, err := credentials.Load()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	cfg := report.NATSConfig{
		URL:            c.Reporter.NATS.URL,
		Subject:        c.Reporter.NATS.Subject,
		Name:           c.Reporter.NATS.Name,
		ConnectTimeout: c.Reporter.NATS.ConnectTimeout,
		ReconnectWait:  c.Reporter.NATS.ReconnectWait,
		MaxReconnects:  c.Reporter.NATS.MaxReconnects,
		Token:          creds.NATSToken(),
	}
	cfg.User, cfg.Password = creds.NATSUser()

	return report.NewNATSReporter(cfg)
}

func (c *Configuration) newHTTPReporter() (report.Reporter, error) {
	creds, _, err := credentials.Load()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	return report.NewHTTPReporter(report.HTTPConfig{
		Endpoint: c.Reporter.HTTP.Endpoint,
		Token:    creds.HTTPToken(),
		Timeout:  c.Reporter.HTTP.Timeout,
	})
}

// TerminatorConfig maps the configuration onto terminator.Config,
// building the configured reporter along the way.
func (c *Configuration) TerminatorConfig() (terminator.Config, error) {
	cfg := terminator.DefaultConfig()
	cfg.DefaultPriority = c.DefaultPriority

	if c.BaseReservation != "" {
		bytes, err := humanize.ParseBytes(c.BaseReservation)
		if err != nil {
			return terminator.Config{}, fmt.Errorf("parse base reservation %q: %w", c.BaseReservation, err)
		}
		cfg.BaseReservation = int(bytes)
	}

	reporter, err := c.NewReporter()
	if err != nil {
		return terminator.Config{}, err
	}
	cfg.Reporter = reporter

	if err := cfg.Validate(); err != nil {
		return terminator.Config{}, err
	}

	return cfg, nil
}
