package mapping

import (
	"fmt"
	"strings"
)

// MessageKind distinguishes commands from status reports.
// There is no third value.
type MessageKind string

const (
	// Command is a message asking a device to do something.
	Command MessageKind = "command"

	// Status is a message reporting what a device did or observed.
	Status MessageKind = "status"
)

// Argument is a single key/value pair supplementing an action.
// Both sides are plain strings on the wire.
type Argument struct {
	Key   string
	Value string
}

// Arguments is an ordered collection of argument pairs with unique keys.
// Insertion order is preserved so that encoding is reproducible.
type Arguments []Argument

// Get returns the value stored under key and whether it is present.
func (a Arguments) Get(key string) (string, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return "", false
}

// Set stores value under key, replacing an existing pair in place or
// appending a new one. Keys stay unique.
func (a *Arguments) Set(key, value string) {
	for i, arg := range *a {
		if arg.Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Argument{Key: key, Value: value})
}

// Copy returns an independent copy of the argument list.
func (a Arguments) Copy() Arguments {
	if a == nil {
		return nil
	}
	dup := make(Arguments, len(a))
	copy(dup, a)
	return dup
}

// Message is the internal representation of a gateway message, the unit
// exchanged with the interface collaborator.
//
// All characteristic fields are free-form strings; the empty string means
// "unspecified" and renders as an empty topic segment on the wire.
type Message struct {
	// Kind is command or status, derived from the topic's type segment.
	Kind MessageKind

	Function string
	Gateway  string
	Location string
	Device   string
	Sender   string

	// Action is the verb of the message.
	Action string

	// Arguments supplement the action with ordered key/value pairs.
	Arguments Arguments
}

// Copy returns an independent copy of the message, including arguments.
func (m *Message) Copy() *Message {
	dup := *m
	dup.Arguments = m.Arguments.Copy()
	return &dup
}

// Reply turns a received command into a status response in place.
//
// The response and reason are recorded as arguments, mirroring how
// interfaces report back the outcome of a command. The addressing fields
// are kept so the reply is routed like the original message.
func (m *Message) Reply(response, reason string) *Message {
	m.Kind = Status
	m.Arguments.Set("response", response)
	m.Arguments.Set("reason", reason)
	return m
}

// Equal reports whether two messages are identical field for field,
// including argument order.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Kind != other.Kind ||
		m.Function != other.Function ||
		m.Gateway != other.Gateway ||
		m.Location != other.Location ||
		m.Device != other.Device ||
		m.Sender != other.Sender ||
		m.Action != other.Action ||
		len(m.Arguments) != len(other.Arguments) {
		return false
	}
	for i := range m.Arguments {
		if m.Arguments[i] != other.Arguments[i] {
			return false
		}
	}
	return true
}

// String renders the message for logging.
func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "kind=%s;function=%s;gateway=%s;location=%s;device=%s;sender=%s;action=%s",
		m.Kind, m.Function, m.Gateway, m.Location, m.Device, m.Sender, m.Action)
	for _, arg := range m.Arguments {
		fmt.Fprintf(&b, ";%s=%s", arg.Key, arg.Value)
	}
	return b.String()
}
