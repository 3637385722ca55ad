// Package gateway runs the message loop connecting the transport, the
// translation codec and the device interface.
//
// # Architecture
//
// Inbound, the transport delivers raw (topic, payload) pairs which are
// decoded through the active mapping table and queued on the inbox.
// Outbound, the interface queues internal messages on the outbox, which
// are encoded and handed back to the transport for publication:
//
//	Broker ──► Transport ──► Decode ──► inbox ──► Interface
//	Broker ◄── Transport ◄── Encode ◄── outbox ◄── Interface
//
// Decode and encode failures are counted, logged and discarded; they
// never affect any other message or terminate the gateway.
//
// # Device interfaces
//
// A device interface implements the Interface contract: Init receives
// the configuration parameters and both queues, Loop is called
// periodically by the runner to exchange messages with the underlying
// system. Interfaces never see MQTT vocabulary; only internal messages
// cross the queues.
//
// # Live reload
//
// When enabled, a Reloader watches the mapping file. A changed file is
// re-validated in full; only a valid definition is swapped in, via an
// atomic codec replacement, and the subscription set is adjusted to the
// new table. In-flight messages keep the codec instance they started
// with.
package gateway
