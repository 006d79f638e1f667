package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when neither the inline channel nor
// an explicit path is supplied.
const DefaultPath = "/etc/solargrabber.conf"

// Config is the root configuration structure for solar-grabber.
//
// Sources and Targets come either from a config file or from the inline
// channel (SG_SOURCES and SG_INFLUXDBS); the remaining sections are only
// read from the file and can be overridden by environment variables.
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
	Targets []TargetConfig `yaml:"targets"`
	HTTP    HTTPConfig     `yaml:"http"`
	MQTT    MQTTConfig     `yaml:"mqtt"`
	Logging LoggingConfig  `yaml:"logging"`
}

// SourceConfig describes one device to poll.
//
// Type selects the device kind; the remaining keys apply to some kinds
// only and are checked when the device is built.
type SourceConfig struct {
	Type string `yaml:"type" json:"type"`

	// StatusPageURL, User and Password apply to inverters.
	StatusPageURL string `yaml:"statusPageUrl,omitempty" json:"statusPageUrl,omitempty"`
	User          string `yaml:"user,omitempty" json:"user,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`

	// IP applies to Tasmota smart plugs and must be an IPv4 address.
	IP string `yaml:"ip,omitempty" json:"ip,omitempty"`

	DeviceName string `yaml:"device_name" json:"device_name"`

	// DeviceLocation is optional; empty means no location tag.
	DeviceLocation string `yaml:"device_location,omitempty" json:"device_location,omitempty"`
}

// TargetConfig contains connection settings for one InfluxDB v2 backend.
type TargetConfig struct {
	InfluxURL   string `yaml:"influxUrl" json:"influxUrl"`
	Bucket      string `yaml:"bucket" json:"bucket"`
	Org         string `yaml:"org" json:"org"`
	Token       string `yaml:"token" json:"token"`
	Measurement string `yaml:"measurement" json:"measurement"`
}

// HTTPConfig contains settings for the HTTP client shared by scrapers and
// publishers.
type HTTPConfig struct {
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// MQTTConfig contains settings for the optional MQTT mirror.
type MQTTConfig struct {
	Enabled     bool             `yaml:"enabled"`
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
	Measurement string           `yaml:"measurement"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Channels carries the raw configuration inputs gathered by the command
// line layer.
//
// Sources and Targets form the inline channel and must be supplied
// together; Path names the config file used when both are empty.
type Channels struct {
	Sources string
	Targets string
	Path    string
}

// Load builds the configuration from whichever channel was supplied and
// applies environment variable overrides.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. Inline JSON sources and targets, or the config file (YAML or JSON)
//  3. Environment variables (override values from step 2)
//
// Supplying only one of the inline values is an error, as is ending up
// with no sources or no targets.
func Load(ch Channels) (*Config, error) {
	cfg := defaultConfig()

	switch {
	case ch.Sources != "" && ch.Targets != "":
		if err := json.Unmarshal([]byte(ch.Sources), &cfg.Sources); err != nil {
			return nil, fmt.Errorf("%w: expected JSON for sources: %w", ErrInvalidConfig, err)
		}
		if err := json.Unmarshal([]byte(ch.Targets), &cfg.Targets); err != nil {
			return nil, fmt.Errorf("%w: expected JSON for targets: %w", ErrInvalidConfig, err)
		}
	case ch.Sources != "" || ch.Targets != "":
		return nil, ErrPartialChannel
	default:
		path := ch.Path
		if path == "" {
			path = DefaultPath
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout: 10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "solargrabber",
			},
			QoS:         1,
			TopicPrefix: "solargrabber",
			Measurement: "solar",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SG_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Logging
	if v := os.Getenv("SG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SG_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}

	// MQTT
	if v := os.Getenv("SG_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SG_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SG_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for missing or contradictory values.
//
// Returns:
//   - error: wraps ErrInvalidConfig and lists every problem found, or nil
func (c *Config) Validate() error {
	var errs []string

	if len(c.Sources) == 0 {
		errs = append(errs, "no sources given")
	}
	for i, s := range c.Sources {
		if s.Type == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].type is required", i))
		}
		if s.DeviceName == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].device_name is required", i))
		}
	}

	if len(c.Targets) == 0 {
		errs = append(errs, "no publishers given, try 'targets' (SG_INFLUXDBS)")
	}
	for i, t := range c.Targets {
		if err := validateBaseURL(t.InfluxURL); err != nil {
			errs = append(errs, fmt.Sprintf("targets[%d].influxUrl %v", i, err))
		}
		if t.Bucket == "" {
			errs = append(errs, fmt.Sprintf("targets[%d].bucket is required", i))
		}
		if t.Org == "" {
			errs = append(errs, fmt.Sprintf("targets[%d].org is required", i))
		}
		if t.Measurement == "" {
			errs = append(errs, fmt.Sprintf("targets[%d].measurement is required", i))
		}
	}

	if c.HTTP.Timeout < 0 {
		errs = append(errs, "http.timeout must not be negative")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required")
		}
		if c.MQTT.Measurement == "" {
			errs = append(errs, "mqtt.measurement is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// GetHTTPTimeout returns the HTTP request timeout as a Duration.
// Zero means no client-side timeout.
func (c *Config) GetHTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("has no host")
	}
	return nil
}
