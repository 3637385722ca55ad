package gateway

// Interface is the contract between the gateway runner and a device
// interface.
//
// An implementation bridges one device system (a serial entry system, a
// lighting bus, a relay board) to the internal message representation.
// It never deals in MQTT vocabulary: the codec has already translated
// everything crossing the queues.
type Interface interface {
	// Init prepares the interface before the first Loop call.
	//
	// params carries the free-form string options from the "interface"
	// section of the configuration file. inbox delivers decoded inbound
	// messages; outbox accepts messages to encode and publish.
	Init(params map[string]string, inbox, outbox *Queue) error

	// Loop is called periodically by the runner. Implementations drain
	// the inbox, talk to their device, and push any resulting messages
	// on the outbox. Loop must not block for extended periods.
	Loop()
}
