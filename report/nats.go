package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSReporter publishes failures to a NATS subject as JSON.
type NATSReporter struct {
	conn    *nats.Conn
	config  NATSConfig
	ownConn bool
}

// NATSConfig holds NATS reporter configuration.
type NATSConfig struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Subject is where failures are published. Required.
	Subject string

	// Name is the client name for identification.
	Name string

	// Token for token-based auth.
	Token string

	// User and Password for basic auth.
	User     string
	Password string

	// ReconnectWait is the time to wait between reconnection attempts.
	ReconnectWait time.Duration

	// MaxReconnects is the maximum number of reconnection attempts.
	// -1 = unlimited
	MaxReconnects int

	// ConnectTimeout for initial connection.
	ConnectTimeout time.Duration
}

// DefaultNATSConfig returns configuration with sensible defaults.
// Reconnection is disabled: this reporter runs while the process is
// exiting, so waiting on a reconnect loop would stall the shutdown pass.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:            nats.DefaultURL,
		Subject:        "terminus.failures",
		ReconnectWait:  time.Second,
		MaxReconnects:  0,
		ConnectTimeout: 5 * time.Second,
	}
}

// NewNATSReporter connects to NATS and creates a reporter. The connection
// is established eagerly so a misconfigured sink surfaces at startup, not
// during shutdown.
func NewNATSReporter(cfg NATSConfig) (*NATSReporter, error) {
	if cfg.Subject == "" {
		return nil, ErrNoSubject
	}
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}

	opts := buildNATSOptions(cfg)

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &NATSReporter{
		conn:    conn,
		config:  cfg,
		ownConn: true,
	}, nil
}

// NewNATSReporterFromConn creates a reporter from an existing connection.
// Close does not close a borrowed connection.
func NewNATSReporterFromConn(conn *nats.Conn, cfg NATSConfig) (*NATSReporter, error) {
	if cfg.Subject == "" {
		return nil, ErrNoSubject
	}

	return &NATSReporter{
		conn:   conn,
		config: cfg,
	}, nil
}

// buildNATSOptions constructs NATS connection options from config.
func buildNATSOptions(cfg NATSConfig) []nats.Option {
	opts := []nats.Option{
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
	}

	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	return opts
}

// Report implements Reporter. The publish is flushed before returning:
// the process exits right after the shutdown pass, so buffered writes
// would be lost.
func (r *NATSReporter) Report(f Failure) error {
	if r.conn.IsClosed() {
		return ErrClosed
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal failure: %w", err)
	}

	if err := r.conn.Publish(r.config.Subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}

	if err := r.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	return nil
}

// Close shuts down the NATS connection if the reporter owns it.
func (r *NATSReporter) Close() error {
	if r.ownConn {
		r.conn.Close()
	}
	return nil
}

// Conn returns the underlying NATS connection for advanced use.
func (r *NATSReporter) Conn() *nats.Conn {
	return r.conn
}
