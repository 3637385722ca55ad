package influxdb

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// MessageStats is a snapshot of the gateway's message counters.
type MessageStats struct {
	// Decoded is the number of inbound messages successfully translated.
	Decoded uint64

	// DecodeFailures is the number of inbound messages discarded
	// (malformed topic or payload, unresolved strict keyword).
	DecodeFailures uint64

	// Encoded is the number of outbound messages successfully translated
	// and published.
	Encoded uint64

	// EncodeFailures is the number of outbound messages dropped before
	// publication.
	EncodeFailures uint64
}

// WriteMessageStats records one counter snapshot for a gateway instance.
//
// The write is non-blocking; the point is batched and flushed by the
// underlying client. Stats are cumulative since gateway start, matching
// how counters are usually charted with difference() queries.
func (c *Client) WriteMessageStats(gateway string, stats MessageStats) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	point := influxdb2.NewPoint(
		"gateway_messages",
		map[string]string{
			"gateway": gateway,
		},
		map[string]any{
			"decoded":         stats.Decoded,
			"decode_failures": stats.DecodeFailures,
			"encoded":         stats.Encoded,
			"encode_failures": stats.EncodeFailures,
		},
		time.Now().UTC(),
	)
	c.writeAPI.WritePoint(point)

	return nil
}
