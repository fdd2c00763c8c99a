// Package config manages backupwatch configuration: an explicit, typed
// record with a strict key allowlist. Unknown keys in the config file
// are rejected so config input can never shadow internal state.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"backupwatch/internal/collector"
	apperrors "backupwatch/internal/errors"
	"backupwatch/internal/notify"
	"backupwatch/internal/report"
)

// Config is the backupwatch configuration record.
type Config struct {
	// MinBackupSets a path must accumulate before it is established.
	MinBackupSets int `json:"min_backup_sets"`

	// NotifyType selects when a report is pushed to the notifier.
	NotifyType report.NotifyType `json:"notify_type"`

	// BackupPaths are the monitored directories, in report order.
	BackupPaths []string `json:"backup_paths,omitempty"`

	// TimestampSource selects which filesystem timestamp identifies a
	// backup set.
	TimestampSource collector.TimestampSource `json:"timestamp_source,omitempty"`

	// CheckSchedule drives the watch loop ("daily", "every 4h", cron).
	CheckSchedule string `json:"check_schedule,omitempty"`

	// LogLevel is the zap level used at startup.
	LogLevel string `json:"log_level,omitempty"`

	// Notify holds the notification provider settings.
	Notify *notify.Config `json:"notify,omitempty"`

	// ConfigDir is where this config was loaded from (not serialized).
	ConfigDir string `json:"-"`
}

// Default returns a config with the reference defaults.
func Default() *Config {
	return &Config{
		MinBackupSets:   5,
		NotifyType:      report.NotifyOff,
		TimestampSource: collector.TimestampModified,
	}
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".backupwatch")
}

// Load loads configuration from the config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	configPath := filepath.Join(configDir, "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNotInitialized
		}
		return nil, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	cfg.ConfigDir = configDir
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Exists checks if a config exists.
func Exists(configDir string) bool {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	_, err := os.Stat(filepath.Join(configDir, "config.json"))
	return err == nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	if c.ConfigDir == "" {
		c.ConfigDir = DefaultConfigDir()
	}

	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(c.ConfigDir, "config.json"), data, 0600)
}

// Validate normalizes empty enum fields to their defaults and rejects
// out-of-range values.
func (c *Config) Validate() error {
	if c.MinBackupSets < 1 {
		return fmt.Errorf("min_backup_sets must be positive, got %d", c.MinBackupSets)
	}

	nt, err := report.ParseNotifyType(string(c.NotifyType))
	if err != nil {
		return err
	}
	c.NotifyType = nt

	src, err := collector.ParseTimestampSource(string(c.TimestampSource))
	if err != nil {
		return err
	}
	c.TimestampSource = src

	return nil
}
