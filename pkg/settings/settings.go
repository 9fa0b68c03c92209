// Package settings manages persistent user settings for the netconsole CLI.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/netconsole/pkg/client"
	"github.com/newtron-network/netconsole/pkg/util"
)

// Setting keys accepted by Get and Set.
const (
	KeyBackendURL      = "backend_url"
	KeyAuditLog        = "audit_log"
	KeyAuditMaxSize    = "audit_max_size"
	KeyAuditMaxBackups = "audit_max_backups"
)

// Keys lists every setting key in display order.
var Keys = []string{KeyBackendURL, KeyAuditLog, KeyAuditMaxSize, KeyAuditMaxBackups}

// Settings holds persistent user preferences.
type Settings struct {
	// BackendURL is used when --backend is not given.
	BackendURL string `yaml:"backend_url,omitempty"`

	// AuditLog overrides the audit log location.
	AuditLog string `yaml:"audit_log,omitempty"`

	// AuditMaxSize rotates the audit log after this many bytes.
	AuditMaxSize int64 `yaml:"audit_max_size,omitempty"`

	AuditMaxBackups int `yaml:"audit_max_backups,omitempty"`
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netconsole"
	}
	return filepath.Join(home, ".netconsole")
}

// DefaultSettingsPath returns the default path for the settings file.
func DefaultSettingsPath() string {
	return filepath.Join(configDir(), "settings.yaml")
}

// Load reads settings from the default location.
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from path. A missing file yields empty settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrInvalidConfig, path, err)
	}
	return s, nil
}

// Save writes settings to the default location.
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to path, creating its directory.
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetBackendURL returns the configured backend, or the client default.
func (s *Settings) GetBackendURL() string {
	if s.BackendURL != "" {
		return s.BackendURL
	}
	return client.DefaultBaseURL
}

// GetAuditLog returns the audit log path (with fallback).
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return filepath.Join(configDir(), "audit.log")
}

// Get returns the stored value of key as text. Unset values are empty.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case KeyBackendURL:
		return s.BackendURL, nil
	case KeyAuditLog:
		return s.AuditLog, nil
	case KeyAuditMaxSize:
		if s.AuditMaxSize == 0 {
			return "", nil
		}
		return strconv.FormatInt(s.AuditMaxSize, 10), nil
	case KeyAuditMaxBackups:
		if s.AuditMaxBackups == 0 {
			return "", nil
		}
		return strconv.Itoa(s.AuditMaxBackups), nil
	}
	return "", fmt.Errorf("%w: unknown setting %q", util.ErrNotFound, key)
}

// Set parses value and stores it under key. An empty value unsets it.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyBackendURL:
		s.BackendURL = value
	case KeyAuditLog:
		s.AuditLog = value
	case KeyAuditMaxSize:
		n, err := parseCount(key, value)
		if err != nil {
			return err
		}
		s.AuditMaxSize = int64(n)
	case KeyAuditMaxBackups:
		n, err := parseCount(key, value)
		if err != nil {
			return err
		}
		s.AuditMaxBackups = n
	default:
		return fmt.Errorf("%w: unknown setting %q", util.ErrNotFound, key)
	}
	return nil
}

func parseCount(key, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, util.NewValidationError(fmt.Sprintf("%s must be a non-negative integer, got %q", key, value))
	}
	return n, nil
}

// Clear resets all settings to defaults.
func (s *Settings) Clear() {
	*s = Settings{}
}
