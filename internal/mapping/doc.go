// Package mapping implements the message translation engine of the gateway.
//
// The engine is the bidirectional codec between raw MQTT (topic, payload)
// pairs and the internal message representation shared by all gateway
// interfaces, together with the per-characteristic keyword maps that
// decouple MQTT vocabulary from internal vocabulary.
//
// # Architecture
//
// The engine sits between the transport and the interface collaborator:
//
//	MQTT Broker ◄──► Transport ◄──► Codec (this pkg) ◄──► Interface
//
// Eight characteristics of a message are subject to keyword mapping:
// function, gateway, location, device, sender, action, argument keys and
// argument values. Each characteristic resolves through its own KeywordMap
// under one of three policies:
//
//   - none: identity, no indirection
//   - loose: mapped when known, passed through unchanged on a miss
//   - strict: mapped when known, resolution failure on a miss
//
// # Wire format
//
// Topic: root/function/gateway/location/device/sender/type with exactly
// seven slash-separated segments, where type is "C" (command) or "S"
// (status) and any other segment may be empty.
//
// Payload: either a bare action string, or a JSON object holding the
// mandatory "action" member plus zero or more argument pairs:
//
//	{"action": "gate_open", "power": "on"}
//
// # Lifecycle
//
// A Table is built once from a mapping definition that has passed
// LoadDefinition, and is immutable afterwards. Reloading the definition
// produces a brand-new Table; live tables are never mutated.
//
// # Thread Safety
//
// Table, KeywordMap and Codec are immutable after construction. Decode and
// Encode are pure in-memory transforms and are safe for concurrent use
// from any number of goroutines without locking.
//
// # Error Handling
//
// Definition problems are fatal at load time and reported in full through
// ValidationError. Everything else is local to a single message: a decode
// or encode failure discards that message only and is returned as a
// descriptive error so the caller can log it.
package mapping
