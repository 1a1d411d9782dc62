// Package credentials loads reporter secrets from standard locations.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when the credentials file has overly
// permissive permissions.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// Credentials holds secrets for the wire reporters, loaded from
// credentials.toml.
type Credentials struct {
	// NATS holds credentials for the NATS reporter.
	NATS *NATSCreds `toml:"nats"`

	// HTTP holds credentials for the HTTP reporter.
	HTTP *HTTPCreds `toml:"http"`
}

// NATSCreds holds NATS authentication material. Token takes precedence
// over user/password when both are set.
type NATSCreds struct {
	Token    string `toml:"token"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// HTTPCreds holds the bearer token for the HTTP reporter.
type HTTPCreds struct {
	Token string `toml:"token"`
}

// StandardPaths returns the standard credential file locations in order
// of priority.
func StandardPaths() []string {
	paths := []string{}

	// 1. Current directory
	paths = append(paths, "credentials.toml")

	// 2. ~/.config/terminus/credentials.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "terminus", "credentials.toml"))
	}

	// 3. ~/.terminus/credentials.toml (fallback)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".terminus", "credentials.toml"))
	}

	return paths
}

// Load loads credentials from the first available standard location.
// A missing file is not an error: secrets may come from the environment
// instead.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil
}

// LoadFile loads credentials from a specific file.
// Returns ErrInsecurePermissions unless the file is owner read-only.
func LoadFile(path string) (*Credentials, error) {
	// Check file permissions (Unix only)
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		mode := info.Mode().Perm()
		// Credentials must be 0400 (owner read-only)
		if mode != 0400 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must be 0400)",
				ErrInsecurePermissions, path, mode)
		}
	}

	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// NATSToken returns the NATS token.
// Priority: [nats] section > TERMINUS_NATS_TOKEN environment variable.
func (c *Credentials) NATSToken() string {
	if c != nil && c.NATS != nil && c.NATS.Token != "" {
		return c.NATS.Token
	}
	return os.Getenv("TERMINUS_NATS_TOKEN")
}

// NATSUser returns the NATS user and password.
// Priority: [nats] section > TERMINUS_NATS_USER / TERMINUS_NATS_PASSWORD.
func (c *Credentials) NATSUser() (user, password string) {
	if c != nil && c.NATS != nil && c.NATS.User != "" {
		return c.NATS.User, c.NATS.Password
	}
	return os.Getenv("TERMINUS_NATS_USER"), os.Getenv("TERMINUS_NATS_PASSWORD")
}

// HTTPToken returns the bearer token for the HTTP reporter.
// Priority: [http] section > TERMINUS_HTTP_TOKEN environment variable.
func (c *Credentials) HTTPToken() string {
	if c != nil && c.HTTP != nil && c.HTTP.Token != "" {
		return c.HTTP.Token
	}
	return os.Getenv("TERMINUS_HTTP_TOKEN")
}
