// Package config loads file/env configuration and builds the logger,
// reporter and terminator settings from it.
package config

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Common errors.
var (
	// ErrUnknownReporterType indicates an unrecognized reporter.type value.
	ErrUnknownReporterType = errors.New("unknown reporter type")
)

// Configuration is the root of the terminus configuration file.
type Configuration struct {
	// LogLevel is a zerolog level name. Default: info
	LogLevel string `mapstructure:"logLevel"`

	// LogConsole selects the human-readable console writer:
	// "always", "never" or "auto" (console when stderr is a terminal).
	LogConsole string `mapstructure:"logConsole"`

	// DefaultPriority is assigned to handlers registered without one.
	DefaultPriority int `mapstructure:"defaultPriority"`

	// BaseReservation is the base memory reservation in human units
	// ("100 KiB", "1MB").
	BaseReservation string `mapstructure:"baseReservation"`

	// Reporter selects and configures the failure sink.
	Reporter ReporterConfiguration `mapstructure:"reporter"`
}

// ReporterConfiguration selects the failure sink.
type ReporterConfiguration struct {
	// Type is one of: none, writer, zerolog, file, nats, http.
	Type string `mapstructure:"type"`

	NATS NATSConfiguration `mapstructure:"nats"`
	HTTP HTTPConfiguration `mapstructure:"http"`
	File FileConfiguration `mapstructure:"file"`
}

// NATSConfiguration configures the NATS reporter. Credentials come from
// the credentials package, not from this file.
type NATSConfiguration struct {
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	Name           string        `mapstructure:"name"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
	ReconnectWait  time.Duration `mapstructure:"reconnectWait"`
	MaxReconnects  int           `mapstructure:"maxReconnects"`
}

// HTTPConfiguration configures the HTTP reporter.
type HTTPConfiguration struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FileConfiguration configures the file reporter.
type FileConfiguration struct {
	Path string `mapstructure:"path"`
}

// Logger builds a zerolog logger per the configuration. Unknown level
// names fall back to info.
func (c *Configuration) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if c.consoleWanted() {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// consoleWanted decides whether logs go through the console writer.
func (c *Configuration) consoleWanted() bool {
	switch c.LogConsole {
	case "always":
		return true
	case "never":
		return false
	default: // auto
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}
