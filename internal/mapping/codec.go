package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Wire constants of the topic grammar.
const (
	// topicSegments is the exact number of slash-separated topic segments:
	// root/function/gateway/location/device/sender/type.
	topicSegments = 7

	// typeCommand and typeStatus are the accepted values of the final
	// topic segment.
	typeCommand = "C"
	typeStatus  = "S"

	// actionMember is the mandatory member of a JSON payload object.
	actionMember = "action"
)

// Codec is the bidirectional transform between wire-format (topic,
// payload) pairs and internal messages. It is a pure function of its
// Table and the input; both directions are lock-free and safe for
// concurrent use.
type Codec struct {
	table *Table

	// sender, when non-empty, is substituted for an empty sender segment
	// on encoding so that published messages carry the gateway's name.
	sender string
}

// NewCodec builds a Codec over the given table.
//
// sender is the gateway's own name, used as the outbound sender segment
// when a message leaves it unspecified. Pass "" to disable the
// substitution.
func NewCodec(table *Table, sender string) *Codec {
	return &Codec{table: table, sender: sender}
}

// Table returns the mapping table the codec reads from.
func (c *Codec) Table() *Table {
	return c.table
}

// Decode converts a raw MQTT message into its internal representation.
//
// The topic must have exactly seven segments, open with the table's root
// and close with a "C" or "S" type token. The five identity segments
// resolve through their keyword maps; a strict miss on any of them
// discards the whole message, since they are needed for addressing. The
// payload is either a bare action string or a JSON object with a
// mandatory "action" member whose remaining string members become
// arguments; a strict miss on an argument key or value drops that single
// pair only, because arguments are supplementary.
//
// Failures are local to the message: Decode returns a descriptive error
// and never affects any other message.
func (c *Codec) Decode(topic string, payload []byte) (*Message, error) {
	segments := strings.Split(topic, "/")
	if len(segments) != topicSegments {
		return nil, fmt.Errorf("%w: topic %q has %d segments, want %d",
			ErrMalformedTopic, topic, len(segments), topicSegments)
	}
	if segments[0] != c.table.Root() {
		return nil, fmt.Errorf("%w: topic %q is not addressed to root %q",
			ErrMalformedTopic, topic, c.table.Root())
	}

	var kind MessageKind
	switch segments[6] {
	case typeCommand:
		kind = Command
	case typeStatus:
		kind = Status
	default:
		return nil, fmt.Errorf("%w: topic %q type segment %q is neither %q nor %q",
			ErrBadTypeToken, topic, segments[6], typeCommand, typeStatus)
	}

	msg := &Message{Kind: kind}
	fields := []struct {
		c       Characteristic
		token   string
		decoded *string
	}{
		{CharFunction, segments[1], &msg.Function},
		{CharGateway, segments[2], &msg.Gateway},
		{CharLocation, segments[3], &msg.Location},
		{CharDevice, segments[4], &msg.Device},
		{CharSender, segments[5], &msg.Sender},
	}
	for _, field := range fields {
		keyword, ok := c.table.Map(field.c).ToInternal(field.token)
		if !ok {
			return nil, fmt.Errorf("%w: %s keyword %q", ErrUnresolvedField, field.c, field.token)
		}
		*field.decoded = keyword
	}

	rawAction, rawArgs, err := parsePayload(payload)
	if err != nil {
		return nil, err
	}

	action, ok := c.table.Map(CharAction).ToInternal(rawAction)
	if !ok {
		return nil, fmt.Errorf("%w: %s keyword %q", ErrUnresolvedField, CharAction, rawAction)
	}
	msg.Action = action

	for _, arg := range rawArgs {
		key, keyOK := c.table.Map(CharArgKey).ToInternal(arg.Key)
		value, valueOK := c.table.Map(CharArgValue).ToInternal(arg.Value)
		if !keyOK || !valueOK {
			// Strict miss on a supplementary pair drops the pair, not
			// the message.
			continue
		}
		msg.Arguments.Set(key, value)
	}
	return msg, nil
}

// Encode converts an internal message into its wire representation.
//
// Every identity field and the action resolve through their keyword maps;
// a strict miss on any of them fails the encode and the message must not
// be sent. With no arguments the payload is the bare action string;
// otherwise it is a JSON object opening with the action member followed
// by the argument pairs in message order, each resolved through the
// argkey and argvalue maps with strict misses dropping the single pair,
// mirroring the decode direction.
func (c *Codec) Encode(msg *Message) (string, []byte, error) {
	var typeToken string
	switch msg.Kind {
	case Command:
		typeToken = typeCommand
	case Status:
		typeToken = typeStatus
	default:
		return "", nil, fmt.Errorf("%w: unknown message kind %q", ErrEncodeFailed, msg.Kind)
	}

	segments := make([]string, 0, topicSegments)
	segments = append(segments, c.table.Root())
	fields := []struct {
		c     Characteristic
		token string
	}{
		{CharFunction, msg.Function},
		{CharGateway, msg.Gateway},
		{CharLocation, msg.Location},
		{CharDevice, msg.Device},
		{CharSender, msg.Sender},
	}
	for _, field := range fields {
		keyword, ok := c.table.Map(field.c).ToExternal(field.token)
		if !ok {
			return "", nil, fmt.Errorf("%w: unresolved %s keyword %q",
				ErrEncodeFailed, field.c, field.token)
		}
		if field.c == CharSender && keyword == "" {
			keyword = c.sender
		}
		segments = append(segments, keyword)
	}

	action, ok := c.table.Map(CharAction).ToExternal(msg.Action)
	if !ok {
		return "", nil, fmt.Errorf("%w: unresolved %s keyword %q",
			ErrEncodeFailed, CharAction, msg.Action)
	}

	segments = append(segments, typeToken)
	topic := strings.Join(segments, "/")

	if len(msg.Arguments) == 0 {
		return topic, []byte(action), nil
	}

	payload, err := c.encodeArguments(action, msg.Arguments)
	if err != nil {
		return "", nil, err
	}
	return topic, payload, nil
}

// encodeArguments builds the JSON payload object: the action member
// first, then each surviving argument pair in message order.
func (c *Codec) encodeArguments(action string, args Arguments) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, actionMember, action); err != nil {
		return nil, err
	}
	for _, arg := range args {
		key, keyOK := c.table.Map(CharArgKey).ToExternal(arg.Key)
		value, valueOK := c.table.Map(CharArgValue).ToExternal(arg.Value)
		if !keyOK || !valueOK {
			// Same asymmetric leniency as decoding: the pair is dropped
			// from the payload, the message still goes out.
			continue
		}
		buf.WriteByte(',')
		if err := writeMember(&buf, key, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeMember appends one `"key":"value"` member with JSON escaping.
func writeMember(buf *bytes.Buffer, key, value string) error {
	for i, s := range []string{key, value} {
		encoded, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("%w: serialising %q: %v", ErrEncodeFailed, s, err)
		}
		if i == 1 {
			buf.WriteByte(':')
		}
		buf.Write(encoded)
	}
	return nil
}

// parsePayload splits a payload into its raw action and argument pairs.
//
// A payload that parses as a JSON object must carry the "action" member
// and only string-valued members; anything else is treated as a bare
// action string with no arguments. Argument pairs are returned in wire
// order.
func parsePayload(payload []byte) (string, []Argument, error) {
	pairs, isObject, err := parseArgumentObject(payload)
	if err != nil {
		return "", nil, err
	}
	if !isObject {
		return string(payload), nil, nil
	}

	action := ""
	found := false
	args := make([]Argument, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Key == actionMember {
			if !found {
				action = pair.Value
				found = true
			}
			continue
		}
		args = append(args, pair)
	}
	if !found {
		return "", nil, fmt.Errorf("%w: payload object has no %q member",
			ErrMalformedPayload, actionMember)
	}
	return action, args, nil
}

// parseArgumentObject attempts to read the payload as a single flat JSON
// object of string members, preserving member order.
//
// isObject is false when the payload is not a JSON object at all, in
// which case the caller falls back to the bare-action form. A payload
// that is a JSON object but violates the expected shape (a non-string
// member value) fails with ErrMalformedPayload.
func parseArgumentObject(payload []byte) (pairs []Argument, isObject bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, tokErr := dec.Token()
	if tokErr != nil {
		return nil, false, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false, nil
	}

	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return nil, false, nil
		}
		key, _ := keyTok.(string)

		valueTok, valueErr := dec.Token()
		if valueErr != nil {
			return nil, false, nil
		}
		value, ok := valueTok.(string)
		if !ok {
			return nil, true, fmt.Errorf("%w: member %q is not a string",
				ErrMalformedPayload, key)
		}
		pairs = append(pairs, Argument{Key: key, Value: value})
	}

	if _, closeErr := dec.Token(); closeErr != nil {
		return nil, false, nil
	}
	// Trailing content after the closing brace means the payload was not
	// a JSON object on its own.
	if _, eofErr := dec.Token(); !errors.Is(eofErr, io.EOF) {
		return nil, false, nil
	}
	return pairs, true, nil
}
