// Package dummy is a device interface that talks to nothing.
//
// It logs every message it receives and queues a fixed test command at a
// configurable period. Use it to verify broker connectivity and mapping
// behaviour end to end, or copy it as the starting point for a real
// interface.
package dummy

import (
	"fmt"
	"strconv"
	"time"

	"github.com/seftonlabs/mqttgateway/internal/gateway"
	"github.com/seftonlabs/mqttgateway/internal/infrastructure/logging"
	"github.com/seftonlabs/mqttgateway/internal/mapping"
)

// defaultPeriod is the interval between generated test commands.
const defaultPeriod = 30 * time.Second

// Interface implements gateway.Interface without any device behind it.
type Interface struct {
	log    *logging.Logger
	inbox  *gateway.Queue
	outbox *gateway.Queue

	// period between generated test commands; zero disables them.
	period time.Duration
	last   time.Time

	function string
	location string
	action   string
}

// New creates a dummy interface logging through the given logger.
func New(logger *logging.Logger) *Interface {
	if logger == nil {
		logger = logging.Default()
	}
	return &Interface{log: logger.With("component", "dummy")}
}

// Init configures the interface from its configuration parameters.
//
// Recognised params, all optional:
//   - "period": seconds between generated test commands ("0" disables)
//   - "function", "location": identity fields of the test command
//   - "action": action keyword of the test command
func (i *Interface) Init(params map[string]string, inbox, outbox *gateway.Queue) error {
	i.inbox = inbox
	i.outbox = outbox
	i.period = defaultPeriod
	i.function = "DummyFunction"
	i.location = "Office"
	i.action = "MUTE_ON"

	if raw, ok := params["period"]; ok {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return fmt.Errorf("dummy: period %q is not a non-negative number of seconds", raw)
		}
		i.period = time.Duration(seconds) * time.Second
	}
	if v, ok := params["function"]; ok {
		i.function = v
	}
	if v, ok := params["location"]; ok {
		i.location = v
	}
	if v, ok := params["action"]; ok {
		i.action = v
	}

	i.last = time.Now()
	i.log.Debug("dummy interface initialised",
		"period", i.period,
		"function", i.function,
		"location", i.location,
		"action", i.action)

	return nil
}

// Loop drains the inbox, logging each message, and queues the periodic
// test command when its period has elapsed.
func (i *Interface) Loop() {
	for {
		msg := i.inbox.Pull()
		if msg == nil {
			break
		}
		i.log.Info("message received", "message", msg.String())
	}

	if i.period == 0 {
		return
	}
	now := time.Now()
	if now.Sub(i.last) < i.period {
		return
	}
	i.last = now

	msg := &mapping.Message{
		Kind:     mapping.Command,
		Function: i.function,
		Gateway:  "Dummy",
		Location: i.location,
		Action:   i.action,
	}
	i.outbox.Push(msg)
	i.log.Debug("test command queued", "message", msg.String())
}
