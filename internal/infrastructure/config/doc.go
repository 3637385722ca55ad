// Package config provides configuration loading for the gateway.
//
// Configuration is read from a YAML file, merged over built-in defaults,
// overridden by MQTTGW_* environment variables and validated before use.
// Validation collects every problem found so a broken file is reported in
// one pass.
//
// # Sections
//
//	gateway:   identity and interface loop interval
//	mqtt:      broker address, credentials, QoS, reconnect backoff
//	mapping:   translation vocabulary (map file or no-map fallback)
//	telemetry: optional InfluxDB message-rate counters
//	logging:   level, format, output
//	interface: free-form string parameters handed to the gateway interface
//
// # Usage
//
//	cfg, err := config.Load("configs/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
