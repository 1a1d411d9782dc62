package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPReporter posts failures to an HTTP endpoint as JSON. Failures are
// sent one at a time, never buffered: the process is exiting and there
// is no later flush opportunity.
type HTTPReporter struct {
	endpoint string
	token    string
	client   *http.Client
}

// HTTPConfig holds HTTP reporter configuration.
type HTTPConfig struct {
	// Endpoint is the URL failures are posted to. Required.
	Endpoint string

	// Token, if set, is sent as a bearer token.
	Token string

	// Timeout bounds each report request. Defaults to 10 seconds.
	Timeout time.Duration
}

// NewHTTPReporter creates a reporter that posts to the given endpoint.
func NewHTTPReporter(cfg HTTPConfig) (*HTTPReporter, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &HTTPReporter{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Report implements Reporter.
func (r *HTTPReporter) Report(f Failure) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal failure: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", r.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post failure report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("report endpoint returned %d", resp.StatusCode)
	}

	return nil
}
