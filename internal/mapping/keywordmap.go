package mapping

import (
	"fmt"
)

// Policy controls how a KeywordMap resolves keywords it does not know.
type Policy string

const (
	// PolicyNone is the identity fast path: every keyword resolves to
	// itself in both directions.
	PolicyNone Policy = "none"

	// PolicyLoose maps known keywords and passes unknown ones through
	// unchanged. Use it for characteristics where unknown vocabulary
	// should still flow, such as free-form device names.
	PolicyLoose Policy = "loose"

	// PolicyStrict maps known keywords and fails resolution on unknown
	// ones, letting a gateway filter out traffic it cannot interpret
	// before any business logic runs.
	PolicyStrict Policy = "strict"
)

// ParsePolicy converts a maptype string from a mapping definition into a
// Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyNone, PolicyLoose, PolicyStrict:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("%w: maptype %q is not one of none, loose, strict", ErrInvalidDefinition, s)
	}
}

// KeywordMap resolves one characteristic's keywords between the internal
// vocabulary and the MQTT vocabulary.
//
// Each internal keyword owns an ordered list of external aliases. The
// first alias is the priority alias and is the canonical outbound form;
// all aliases collapse back to the owning internal keyword on the way in,
// which is why the reverse direction stays well defined.
//
// A KeywordMap is immutable after construction and safe for concurrent
// use.
type KeywordMap struct {
	policy   Policy
	external map[string]string // internal keyword -> priority alias
	internal map[string]string // any alias -> internal keyword
}

// NewKeywordMap builds a KeywordMap for the given policy and entries.
//
// Entries map each internal keyword to its non-empty ordered alias list.
// They are ignored under PolicyNone. An alias appearing under two
// different internal keywords is rejected with ErrAliasCollision, since
// it would make ToInternal ambiguous.
func NewKeywordMap(policy Policy, entries map[string][]string) (*KeywordMap, error) {
	if policy == PolicyNone {
		return &KeywordMap{policy: PolicyNone}, nil
	}
	if policy != PolicyLoose && policy != PolicyStrict {
		return nil, fmt.Errorf("%w: maptype %q is not one of none, loose, strict", ErrInvalidDefinition, policy)
	}

	m := &KeywordMap{
		policy:   policy,
		external: make(map[string]string, len(entries)),
		internal: make(map[string]string),
	}
	for keyword, aliases := range entries {
		if keyword == "" {
			return nil, fmt.Errorf("%w: internal keyword must not be empty", ErrInvalidDefinition)
		}
		if len(aliases) == 0 {
			return nil, fmt.Errorf("%w: keyword %q has no aliases", ErrInvalidDefinition, keyword)
		}
		for _, alias := range aliases {
			if alias == "" {
				return nil, fmt.Errorf("%w: keyword %q has an empty alias", ErrInvalidDefinition, keyword)
			}
			if owner, taken := m.internal[alias]; taken && owner != keyword {
				return nil, fmt.Errorf("%w: alias %q is mapped from both %q and %q",
					ErrAliasCollision, alias, owner, keyword)
			}
			m.internal[alias] = keyword
		}
		m.external[keyword] = aliases[0]
	}
	return m, nil
}

// Policy returns the resolution policy of the map.
func (m *KeywordMap) Policy() Policy {
	return m.policy
}

// ToExternal resolves an internal keyword to its MQTT form.
//
// Under PolicyNone the keyword is returned unchanged. Otherwise a hit
// returns the priority alias; a miss passes the keyword through under
// PolicyLoose and reports failure under PolicyStrict.
func (m *KeywordMap) ToExternal(keyword string) (string, bool) {
	if m.policy == PolicyNone {
		return keyword, true
	}
	if alias, ok := m.external[keyword]; ok {
		return alias, true
	}
	if m.policy == PolicyLoose {
		return keyword, true
	}
	return "", false
}

// ToInternal resolves an external (MQTT) keyword to its internal form.
//
// Under PolicyNone the keyword is returned unchanged. Otherwise any known
// alias resolves to its owning internal keyword; a miss passes the
// keyword through under PolicyLoose and reports failure under
// PolicyStrict.
func (m *KeywordMap) ToInternal(keyword string) (string, bool) {
	if m.policy == PolicyNone {
		return keyword, true
	}
	if internal, ok := m.internal[keyword]; ok {
		return internal, true
	}
	if m.policy == PolicyLoose {
		return keyword, true
	}
	return "", false
}
