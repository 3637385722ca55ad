package mapping

import (
	"errors"
	"testing"
)

func TestKeywordMapNoneIsIdentity(t *testing.T) {
	m, err := NewKeywordMap(PolicyNone, nil)
	if err != nil {
		t.Fatalf("NewKeywordMap() unexpected error: %v", err)
	}

	for _, keyword := range []string{"", "Security", "gate_open", "anything/at/all"} {
		if got, ok := m.ToExternal(keyword); !ok || got != keyword {
			t.Errorf("ToExternal(%q) = %q, %v, want identity", keyword, got, ok)
		}
		if got, ok := m.ToInternal(keyword); !ok || got != keyword {
			t.Errorf("ToInternal(%q) = %q, %v, want identity", keyword, got, ok)
		}
	}
}

func TestKeywordMapStrict(t *testing.T) {
	m, err := NewKeywordMap(PolicyStrict, map[string][]string{
		"Security":  {"security", "alarm"},
		"Lighting":  {"lighting"},
		"GATE_OPEN": {"gate_open", "open_gate", "gate"},
	})
	if err != nil {
		t.Fatalf("NewKeywordMap() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		internal bool // direction: true = ToInternal
		keyword  string
		want     string
		wantOK   bool
	}{
		{"priority alias outbound", false, "Security", "security", true},
		{"priority alias is always first", false, "GATE_OPEN", "gate_open", true},
		{"single alias outbound", false, "Lighting", "lighting", true},
		{"strict outbound never substitutes", false, "Unknown", "", false},
		{"primary alias inbound", true, "security", "Security", true},
		{"secondary alias collapses inbound", true, "alarm", "Security", true},
		{"tertiary alias collapses inbound", true, "gate", "GATE_OPEN", true},
		{"strict inbound never substitutes", true, "unknown", "", false},
		{"internal keyword is not an alias", true, "Security", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var ok bool
			if tt.internal {
				got, ok = m.ToInternal(tt.keyword)
			} else {
				got, ok = m.ToExternal(tt.keyword)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("resolve(%q) = %q, %v, want %q, %v", tt.keyword, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeywordMapLoosePassthrough(t *testing.T) {
	m, err := NewKeywordMap(PolicyLoose, map[string][]string{
		"Office": {"office", "study"},
	})
	if err != nil {
		t.Fatalf("NewKeywordMap() unexpected error: %v", err)
	}

	if got, ok := m.ToInternal("office"); !ok || got != "Office" {
		t.Errorf("ToInternal(office) = %q, %v, want Office", got, ok)
	}
	if got, ok := m.ToInternal("garage"); !ok || got != "garage" {
		t.Errorf("ToInternal(garage) = %q, %v, want passthrough", got, ok)
	}
	if got, ok := m.ToExternal("Garage"); !ok || got != "Garage" {
		t.Errorf("ToExternal(Garage) = %q, %v, want passthrough", got, ok)
	}
}

func TestNewKeywordMapRejectsAliasCollision(t *testing.T) {
	_, err := NewKeywordMap(PolicyStrict, map[string][]string{
		"Gate":      {"gate"},
		"FrontGate": {"gate"},
	})
	if !errors.Is(err, ErrAliasCollision) {
		t.Errorf("NewKeywordMap() error = %v, want ErrAliasCollision", err)
	}
}

func TestNewKeywordMapAllowsRepeatedAliasUnderOneKeyword(t *testing.T) {
	m, err := NewKeywordMap(PolicyStrict, map[string][]string{
		"Gate": {"gate", "gate"},
	})
	if err != nil {
		t.Fatalf("NewKeywordMap() unexpected error: %v", err)
	}
	if got, ok := m.ToInternal("gate"); !ok || got != "Gate" {
		t.Errorf("ToInternal(gate) = %q, %v, want Gate", got, ok)
	}
}

func TestNewKeywordMapRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string][]string
	}{
		{"empty internal keyword", map[string][]string{"": {"alias"}}},
		{"empty alias list", map[string][]string{"Keyword": {}}},
		{"empty alias", map[string][]string{"Keyword": {""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKeywordMap(PolicyLoose, tt.entries); !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("NewKeywordMap() error = %v, want ErrInvalidDefinition", err)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for _, valid := range []string{"none", "loose", "strict"} {
		if _, err := ParsePolicy(valid); err != nil {
			t.Errorf("ParsePolicy(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Strict", "lax", "identity"} {
		if _, err := ParsePolicy(invalid); !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("ParsePolicy(%q) error = %v, want ErrInvalidDefinition", invalid, err)
		}
	}
}
