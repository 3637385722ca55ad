// Package mqtt provides the broker connectivity for the gateway.
//
// This package manages:
//   - Connection to the MQTT broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Optional Last Will and Testament (LWT) for offline detection
//
// # Architecture
//
// The gateway uses MQTT as the shared message bus between heterogeneous
// device interfaces. This package is a thin transport collaborator: it
// moves (topic, payload) pairs and owns the connection lifecycle, while
// all message interpretation lives in the mapping package.
//
//	Interface ◄──► Codec ◄──► Transport (this pkg) ◄──► MQTT Broker
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, "entry2mqtt", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe("home/security/#", 1,
//	    func(topic string, payload []byte) error {
//	        return handle(topic, payload)
//	    })
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Subscriptions are automatically restored on reconnection.
package mqtt
