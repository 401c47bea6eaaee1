package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tunables for the tracker. Stored as YAML; every field
// has a sane default so an empty or missing file still works.
type Config struct {
	// Remote gateway
	BaseURL        string `yaml:"base_url"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`

	// Browser bridge
	ListenAddr string `yaml:"listen_addr"`

	// Activity monitor
	IdleThresholdSeconds float64 `yaml:"idle_threshold_seconds"`
	JitterPixels         float64 `yaml:"jitter_pixels"`
	LongPressSeconds     float64 `yaml:"long_press_seconds"`
	InputDeviceDir       string  `yaml:"input_device_dir"`

	// Office hours, closed-open: [start, end)
	OfficeStartHour int `yaml:"office_start_hour"`
	OfficeEndHour   int `yaml:"office_end_hour"`

	// Loops
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	TickIntervalMillis  int `yaml:"tick_interval_millis"`
	SaveIntervalSeconds int `yaml:"save_interval_seconds"`

	// Telemetry heartbeat, cron expression with seconds field
	HeartbeatSchedule string `yaml:"heartbeat_schedule"`

	// Daily target for the progress display
	TargetHours float64 `yaml:"target_hours"`

	Timezone    string `yaml:"timezone"`
	StateDir    string `yaml:"state_dir"`
	LogFile     string `yaml:"log_file"`
	ArchivePath string `yaml:"archive_path"`
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://hrms-ask-1.onrender.com"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:12345"
	}
	if c.IdleThresholdSeconds <= 0 {
		c.IdleThresholdSeconds = 10
	}
	if c.JitterPixels <= 0 {
		c.JitterPixels = 5
	}
	if c.LongPressSeconds <= 0 {
		c.LongPressSeconds = 10
	}
	if c.InputDeviceDir == "" {
		c.InputDeviceDir = "/dev/input"
	}
	if c.OfficeStartHour <= 0 {
		c.OfficeStartHour = 10
	}
	if c.OfficeEndHour <= 0 {
		c.OfficeEndHour = 18
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 15
	}
	if c.TickIntervalMillis <= 0 {
		c.TickIntervalMillis = 500
	}
	if c.SaveIntervalSeconds <= 0 {
		c.SaveIntervalSeconds = 10
	}
	if c.HeartbeatSchedule == "" {
		c.HeartbeatSchedule = "*/30 * * * * *"
	}
	if c.TargetHours <= 0 {
		c.TargetHours = 7
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.StateDir = filepath.Join(home, ".hrms-tracker")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.StateDir, "logs", "app.log")
	}
	if c.ArchivePath == "" {
		c.ArchivePath = filepath.Join(c.StateDir, "history.db")
	}
}

// PollInterval returns the remote poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// TickInterval returns the accumulation tick interval as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMillis) * time.Millisecond
}

// SaveInterval returns the throttled persistence interval as a duration.
func (c *Config) SaveInterval() time.Duration {
	return time.Duration(c.SaveIntervalSeconds) * time.Second
}
