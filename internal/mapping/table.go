package mapping

import (
	"fmt"
)

// Characteristic names one of the eight message fields subject to keyword
// mapping. The set is closed; field-by-characteristic resolution goes
// through a fixed table rather than open-ended lookup.
type Characteristic string

const (
	CharFunction Characteristic = "function"
	CharGateway  Characteristic = "gateway"
	CharLocation Characteristic = "location"
	CharDevice   Characteristic = "device"
	CharSender   Characteristic = "sender"
	CharAction   Characteristic = "action"
	CharArgKey   Characteristic = "argkey"
	CharArgValue Characteristic = "argvalue"
)

// Characteristics returns the eight characteristics in their canonical
// order, matching the mapping definition layout.
func Characteristics() []Characteristic {
	return []Characteristic{
		CharFunction, CharGateway, CharLocation, CharDevice,
		CharSender, CharAction, CharArgKey, CharArgValue,
	}
}

// FieldDefinition is the per-characteristic part of a validated mapping
// definition: a policy plus, unless the policy is none, the keyword
// entries.
type FieldDefinition struct {
	Policy  Policy
	Entries map[string][]string
}

// Definition is a mapping definition that has passed LoadDefinition.
// It is the only input from which a Table may be built.
type Definition struct {
	Root   string
	Topics []string
	Fields map[Characteristic]FieldDefinition
}

// Table aggregates the root token, the subscription topic filters and the
// eight keyword maps. It exclusively owns its maps, is built once from a
// validated definition and is immutable for the rest of its lifetime;
// reloading produces a brand-new Table rather than mutating a live one.
type Table struct {
	root   string
	topics []string
	maps   map[Characteristic]*KeywordMap
}

// NewTable builds a Table from a validated definition.
//
// The definition should come from LoadDefinition; keyword map construction
// re-checks alias consistency as a safety net and fails with a wrapped
// error naming the offending characteristic.
func NewTable(def *Definition) (*Table, error) {
	maps := make(map[Characteristic]*KeywordMap, len(def.Fields))
	for _, c := range Characteristics() {
		field, ok := def.Fields[c]
		if !ok {
			return nil, fmt.Errorf("%w: missing characteristic %q", ErrInvalidDefinition, c)
		}
		m, err := NewKeywordMap(field.Policy, field.Entries)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		maps[c] = m
	}
	return &Table{
		root:   def.Root,
		topics: append([]string(nil), def.Topics...),
		maps:   maps,
	}, nil
}

// NoMapTable builds the fallback table used when mapping is disabled:
// every characteristic uses the identity policy, and root and topics come
// from the gateway configuration instead of a mapping file.
func NoMapTable(root string, topics []string) *Table {
	maps := make(map[Characteristic]*KeywordMap, 8)
	for _, c := range Characteristics() {
		maps[c] = &KeywordMap{policy: PolicyNone}
	}
	return &Table{
		root:   root,
		topics: append([]string(nil), topics...),
		maps:   maps,
	}
}

// Root returns the token prefixed to every topic of this vocabulary.
func (t *Table) Root() string {
	return t.root
}

// Topics returns a copy of the subscription filter list.
func (t *Table) Topics() []string {
	return append([]string(nil), t.topics...)
}

// Map returns the keyword map for the given characteristic.
func (t *Table) Map(c Characteristic) *KeywordMap {
	return t.maps[c]
}
