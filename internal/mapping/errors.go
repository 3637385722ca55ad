package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for the mapping engine.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidDefinition is returned when a mapping definition is
	// structurally or semantically broken. A Table must never be built
	// from such a definition.
	ErrInvalidDefinition = errors.New("mapping: invalid definition")

	// ErrAliasCollision is returned when the same external alias appears
	// under two different internal keywords of one keyword map, making
	// the MQTT-to-internal direction ambiguous.
	ErrAliasCollision = errors.New("mapping: ambiguous alias")

	// ErrMalformedTopic is returned when a topic does not have exactly
	// seven segments or is not addressed to the configured root.
	ErrMalformedTopic = errors.New("mapping: malformed topic")

	// ErrBadTypeToken is returned when the type segment of a topic is
	// neither "C" nor "S".
	ErrBadTypeToken = errors.New("mapping: bad type token")

	// ErrMalformedPayload is returned when a JSON payload object does not
	// conform to the expected shape (missing "action", non-string member).
	ErrMalformedPayload = errors.New("mapping: malformed payload")

	// ErrUnresolvedField is returned when a required field cannot be
	// resolved under a strict policy during decoding.
	ErrUnresolvedField = errors.New("mapping: unresolved field")

	// ErrEncodeFailed is returned when an outbound message cannot be
	// resolved to MQTT vocabulary. The message is dropped, not sent.
	ErrEncodeFailed = errors.New("mapping: encode failed")
)

// ValidationError reports every violation found in a mapping definition,
// not just the first. Construction of a Table is refused while any
// violation remains.
type ValidationError struct {
	// Violations holds one human-readable description per problem found.
	Violations []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("mapping: invalid definition: %s", strings.Join(e.Violations, "; "))
}

// Unwrap allows errors.Is(err, ErrInvalidDefinition) to match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidDefinition
}
