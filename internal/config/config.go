package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCooldownSeconds   = 900
	DefaultRefractorySeconds = 3600
	DefaultPollSeconds       = 60
	DefaultPort              = 8080
	DefaultDBPath            = "mother_brain.db"
)

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FlowSID    string `yaml:"flow_sid"`
	ToPhone    string `yaml:"to_phone"`
	FromPhone  string `yaml:"from_phone"`
}

type NotifierConfig struct {
	Kind              string `yaml:"kind"` // "twilio", "discord" or "log"
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
}

type Config struct {
	Logging struct {
		Level         string `yaml:"level"`
		OperationsLog string `yaml:"operations_log"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Polling struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"polling"`
	SystemConfig struct {
		AlertMonitorEnabled *bool `yaml:"alert_monitor_enabled"`
	} `yaml:"system_config"`

	AlertCooldownSeconds *int `yaml:"alert_cooldown_seconds"`
	CallRefractoryPeriod *int `yaml:"call_refractory_period"`

	Notifier NotifierConfig `yaml:"notifier"`
	Twilio   TwilioConfig   `yaml:"twilio_config"`

	// Sections are kept undecoded so one malformed range only disables its
	// own metric.
	AlertRanges map[string]yaml.Node `yaml:"alert_ranges"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv loads the given .env files (missing files are ignored) and lets
// TWILIO_* variables override the file's credentials.
func ApplyEnv(cfg *Config, files ...string) {
	_ = godotenv.Load(files...)

	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	override(&cfg.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	override(&cfg.Twilio.FlowSID, "TWILIO_FLOW_SID")
	override(&cfg.Twilio.ToPhone, "TWILIO_TO_PHONE")
	override(&cfg.Twilio.FromPhone, "TWILIO_FROM_PHONE")
}

func (c *Config) MonitorEnabled() bool {
	if c.SystemConfig.AlertMonitorEnabled == nil {
		return true
	}
	return *c.SystemConfig.AlertMonitorEnabled
}

func (c *Config) Cooldown() time.Duration {
	return seconds(c.AlertCooldownSeconds, DefaultCooldownSeconds)
}

func (c *Config) RefractoryPeriod() time.Duration {
	return seconds(c.CallRefractoryPeriod, DefaultRefractorySeconds)
}

func (c *Config) PollInterval() time.Duration {
	if c.Polling.IntervalSeconds <= 0 {
		return DefaultPollSeconds * time.Second
	}
	return time.Duration(c.Polling.IntervalSeconds) * time.Second
}

func (c *Config) Port() int {
	if c.Server.Port == 0 {
		return DefaultPort
	}
	return c.Server.Port
}

func (c *Config) DBPath() string {
	if c.Database.Path == "" {
		return DefaultDBPath
	}
	return c.Database.Path
}

func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.Notifier.TimeoutSeconds) * time.Second
}

func seconds(v *int, def int) time.Duration {
	if v == nil || *v < 0 {
		return time.Duration(def) * time.Second
	}
	return time.Duration(*v) * time.Second
}
