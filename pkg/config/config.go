// Package config loads the console's settings from defaults, an optional
// YAML file and ADMIN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/LunovVladyslav/ws-tutorial/pkg/logging"
	"github.com/LunovVladyslav/ws-tutorial/pkg/storage"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ADMIN_SERVER_URL.
	EnvPrefix = "ADMIN"
	// FileName is looked up in the working directory and in Dir().
	FileName = "admin-console"
	appDir   = "admin-console"
)

// Config holds the console settings.
type Config struct {
	ServerURL   string `mapstructure:"server_url" yaml:"server_url"`
	Storage     string `mapstructure:"storage" yaml:"storage"`
	StoragePath string `mapstructure:"storage_path" yaml:"storage_path"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

// Dir returns the per-user directory holding the config file and the local
// session storage.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// Load reads the configuration. An explicit path must exist; otherwise a
// missing file just leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("storage", storage.BackendSQLite)
	v.SetDefault("storage_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dir, dirErr := Dir()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dirErr == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	if cfg.StoragePath == "" && cfg.Storage != storage.BackendMemory && cfg.Storage != storage.BackendPreferences {
		if dirErr != nil {
			return nil, dirErr
		}
		cfg.StoragePath = filepath.Join(dir, DefaultStorageFile(cfg.Storage))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultStorageFile names the session file for a storage backend.
func DefaultStorageFile(backend string) string {
	if backend == storage.BackendFile {
		return "session.yaml"
	}
	return "session.db"
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: server_url %q must be an http(s) URL", c.ServerURL)
	}
	switch c.Storage {
	case storage.BackendSQLite, storage.BackendFile, storage.BackendMemory, storage.BackendPreferences:
	default:
		return fmt.Errorf("config: %w %q (valid: %s)", storage.ErrUnknownBackend, c.Storage, storage.BackendNames())
	}
	if err := logging.Validate(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoggingOptions returns the logging settings.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, Format: c.LogFormat}
}

// OpenStorage opens the configured session storage.
func (c *Config) OpenStorage() (storage.Storage, error) {
	return storage.Open(c.Storage, c.StoragePath)
}
