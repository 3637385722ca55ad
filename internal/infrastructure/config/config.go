package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the gateway.
// All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	Gateway   GatewayConfig     `yaml:"gateway"`
	MQTT      MQTTConfig        `yaml:"mqtt"`
	Mapping   MappingConfig     `yaml:"mapping"`
	Telemetry TelemetryConfig   `yaml:"telemetry"`
	Logging   LoggingConfig     `yaml:"logging"`
	Interface map[string]string `yaml:"interface"`
}

// GatewayConfig contains the gateway's identity and loop settings.
type GatewayConfig struct {
	// Name identifies this gateway instance. It is used as the default
	// MQTT client ID and as the outbound sender keyword.
	Name string `yaml:"name"`

	// LoopInterval is the interface polling interval in milliseconds.
	LoopInterval int `yaml:"loop_interval"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
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

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// MappingConfig controls the message translation vocabulary.
//
// When Enabled is true the mapping definition is read from File and the
// fallback Root and Topics are ignored. When false, every characteristic
// uses the identity policy and Root/Topics supply the subscription
// surface directly.
type MappingConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`

	// Watch enables live reload: the map file is watched and a changed
	// definition is re-validated and swapped in atomically.
	Watch bool `yaml:"watch"`

	// Root and Topics are the defaults used only when mapping is
	// disabled.
	Root   string   `yaml:"root"`
	Topics []string `yaml:"topics"`
}

// TelemetryConfig contains InfluxDB settings for message-rate counters.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads, overrides and validates the configuration at path.
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Name:         "mqttgateway",
			LoopInterval: 500,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Mapping: MappingConfig{
			Enabled: false,
			Root:    "home",
			Topics:  []string{"home/#"},
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern:
// MQTTGW_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MQTTGW_GATEWAY_NAME"); v != "" {
		cfg.Gateway.Name = v
	}

	// MQTT
	if v := os.Getenv("MQTTGW_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MQTTGW_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("MQTTGW_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Mapping
	if v := os.Getenv("MQTTGW_MAPPING_FILE"); v != "" {
		cfg.Mapping.File = v
	}

	// Telemetry
	if v := os.Getenv("MQTTGW_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors, collecting every problem
// found rather than stopping at the first.
//
// Returns:
//   - error: Description of all validation failures, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Gateway.Name == "" {
		errs = append(errs, "gateway.name is required")
	}
	if c.Gateway.LoopInterval < 1 {
		errs = append(errs, "gateway.loop_interval must be at least 1 millisecond")
	}

	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Mapping.Enabled {
		if c.Mapping.File == "" {
			errs = append(errs, "mapping.file is required when mapping.enabled is true")
		}
	} else {
		// The fallback root becomes the first topic segment of every
		// message, under the same constraints a map file's root obeys.
		if c.Mapping.Root == "" {
			errs = append(errs, "mapping.root is required when mapping.enabled is false")
		} else if strings.Contains(c.Mapping.Root, "/") {
			errs = append(errs, "mapping.root must not contain \"/\"")
		}
		if len(c.Mapping.Topics) == 0 {
			errs = append(errs, "mapping.topics must have at least one filter when mapping.enabled is false")
		}
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry.enabled is true")
		}
		if c.Telemetry.Org == "" {
			errs = append(errs, "telemetry.org is required when telemetry.enabled is true")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry.enabled is true")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level %q is invalid (use debug, info, warn, or error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format %q is invalid (use json or text)", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetLoopInterval returns the interface polling interval as a Duration.
func (c *Config) GetLoopInterval() time.Duration {
	return time.Duration(c.Gateway.LoopInterval) * time.Millisecond
}

// GetMQTTClientID returns the MQTT client ID, defaulting to the gateway
// name.
func (c *Config) GetMQTTClientID() string {
	if c.MQTT.Broker.ClientID != "" {
		return c.MQTT.Broker.ClientID
	}
	return c.Gateway.Name
}
