package influxdb

import "errors"

// Domain-specific errors for telemetry operations.
var (
	// ErrDisabled is returned by Connect when telemetry is disabled in
	// the configuration.
	ErrDisabled = errors.New("influxdb: telemetry disabled in configuration")

	// ErrConnectionFailed is returned when the initial connection or ping
	// fails.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned when writing on a closed client.
	ErrNotConnected = errors.New("influxdb: client not connected")
)
