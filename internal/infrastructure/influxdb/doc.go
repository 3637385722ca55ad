// Package influxdb provides optional message-rate telemetry for the
// gateway.
//
// The gateway counts decoded, encoded and discarded messages; this
// package batches those counters into InfluxDB points so broker traffic
// and vocabulary misses can be charted over time. Telemetry is disabled
// by default and the gateway runs identically without it.
//
// Writes are non-blocking and batched by the underlying client; async
// write failures surface through the SetOnError callback.
package influxdb
