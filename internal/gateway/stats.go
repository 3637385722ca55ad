package gateway

import (
	"sync/atomic"

	"github.com/seftonlabs/mqttgateway/internal/infrastructure/influxdb"
)

// Stats holds the gateway's message counters.
//
// Counters are cumulative since gateway start and safe for concurrent
// update from the transport handler and the run loop.
type Stats struct {
	decoded        atomic.Uint64
	decodeFailures atomic.Uint64
	encoded        atomic.Uint64
	encodeFailures atomic.Uint64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() influxdb.MessageStats {
	return influxdb.MessageStats{
		Decoded:        s.decoded.Load(),
		DecodeFailures: s.decodeFailures.Load(),
		Encoded:        s.encoded.Load(),
		EncodeFailures: s.encodeFailures.Load(),
	}
}

// StatsRecorder receives periodic counter snapshots.
//
// The InfluxDB client satisfies this; tests substitute a fake.
type StatsRecorder interface {
	WriteMessageStats(gateway string, stats influxdb.MessageStats) error
}
