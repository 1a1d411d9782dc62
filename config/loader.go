package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vinayprograms/terminus/terminator"
)

// Load reads the configuration from terminus.yml in the current
// directory or $HOME/.config/terminus, merged with TERMINUS_* environment
// variables. A missing file is not an error; defaults apply.
func Load() (*Configuration, error) {
	return load("")
}

// LoadFrom reads the configuration from an explicit file path. Unlike
// Load, a missing file is an error.
func LoadFrom(path string) (*Configuration, error) {
	return load(path)
}

func load(path string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read configuration: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetConfigName("terminus")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "terminus"))
	}

	v.SetEnvPrefix("terminus")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logLevel", "info")
	v.SetDefault("logConsole", "auto")
	v.SetDefault("defaultPriority", terminator.DefaultPriority)
	v.SetDefault("baseReservation", "100 KiB")

	v.SetDefault("reporter.type", "none")
	v.SetDefault("reporter.nats.url", "nats://localhost:4222")
	v.SetDefault("reporter.nats.subject", "terminus.failures")
	v.SetDefault("reporter.nats.name", "")
	v.SetDefault("reporter.nats.connectTimeout", "5s")
	v.SetDefault("reporter.nats.reconnectWait", "1s")
	v.SetDefault("reporter.nats.maxReconnects", 0)
	v.SetDefault("reporter.http.endpoint", "")
	v.SetDefault("reporter.http.timeout", "10s")
	v.SetDefault("reporter.file.path", "terminus-failures.jsonl")
}
