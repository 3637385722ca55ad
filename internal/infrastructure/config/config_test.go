package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
gateway:
  name: entry2mqtt
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Gateway.Name != "entry2mqtt" {
		t.Errorf("Gateway.Name = %q", cfg.Gateway.Name)
	}
	if cfg.MQTT.Broker.Host != "localhost" || cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("broker defaults = %s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port)
	}
	if cfg.Mapping.Enabled {
		t.Errorf("Mapping.Enabled = true, want default false")
	}
	if cfg.Mapping.Root != "home" {
		t.Errorf("Mapping.Root = %q, want home", cfg.Mapping.Root)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MQTTGW_MQTT_HOST", "broker.local")
	t.Setenv("MQTTGW_MAPPING_FILE", "/etc/mqttgateway/cbus.map")

	path := writeConfig(t, `
gateway:
  name: cbus2mqtt
mapping:
  enabled: true
  file: ignored.map
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.Mapping.File != "/etc/mqttgateway/cbus.map" {
		t.Errorf("Mapping.File = %q, want env override", cfg.Mapping.File)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gateway.Name = ""
	cfg.MQTT.QoS = 5
	cfg.Mapping.Root = "ho/me"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{
		"gateway.name is required",
		"mqtt.qos must be 0, 1, or 2",
		`mapping.root must not contain "/"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %q, want substring %q", err, want)
		}
	}
}

func TestValidateMappingEnabledRequiresFile(t *testing.T) {
	cfg := defaultConfig()
	cfg.Mapping.Enabled = true
	cfg.Mapping.File = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "mapping.file is required") {
		t.Errorf("Validate() error = %v, want mapping.file violation", err)
	}
}

func TestValidateTelemetry(t *testing.T) {
	cfg := defaultConfig()
	cfg.Telemetry.Enabled = true

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "telemetry.url is required") {
		t.Errorf("Validate() error = %v, want telemetry.url violation", err)
	}
}

func TestGetMQTTClientID(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.GetMQTTClientID(); got != "mqttgateway" {
		t.Errorf("GetMQTTClientID() = %q, want gateway name", got)
	}
	cfg.MQTT.Broker.ClientID = "custom-id"
	if got := cfg.GetMQTTClientID(); got != "custom-id" {
		t.Errorf("GetMQTTClientID() = %q, want custom-id", got)
	}
}
