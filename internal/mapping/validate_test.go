package mapping

import (
	"errors"
	"strings"
	"testing"
)

// minimalDefinition returns a valid mapping document that tests mutate.
func minimalDefinition() string {
	return `{
		"root": "home",
		"topics": ["home/security/#", "home/+/+/office/+/+/C"],
		"function": {"maptype": "strict", "map": {"Security": ["security"]}},
		"gateway":  {"maptype": "none"},
		"location": {"maptype": "loose", "map": {"gate_entry": ["frontgarden", "front_garden"]}},
		"device":   {"maptype": "none"},
		"sender":   {"maptype": "none"},
		"action":   {"maptype": "strict", "map": {"GATE_OPEN": ["gate_open"]}},
		"argkey":   {"maptype": "none"},
		"argvalue": {"maptype": "none"}
	}`
}

func TestLoadDefinitionValid(t *testing.T) {
	def, err := LoadDefinition([]byte(minimalDefinition()))
	if err != nil {
		t.Fatalf("LoadDefinition() unexpected error: %v", err)
	}
	if def.Root != "home" {
		t.Errorf("Root = %q, want home", def.Root)
	}
	if len(def.Topics) != 2 {
		t.Errorf("Topics = %v, want 2 filters", def.Topics)
	}
	if def.Fields[CharFunction].Policy != PolicyStrict {
		t.Errorf("function policy = %q, want strict", def.Fields[CharFunction].Policy)
	}
	if def.Fields[CharGateway].Policy != PolicyNone {
		t.Errorf("gateway policy = %q, want none", def.Fields[CharGateway].Policy)
	}
}

func TestLoadDefinitionViolations(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     string // substring expected among the violations
	}{
		{
			name:     "not json",
			document: `root: home`,
			want:     "not a JSON object",
		},
		{
			name:     "missing root",
			document: strings.Replace(minimalDefinition(), `"root": "home",`, ``, 1),
			want:     `missing required member "root"`,
		},
		{
			name:     "empty root",
			document: strings.Replace(minimalDefinition(), `"root": "home"`, `"root": ""`, 1),
			want:     `"root" must not be empty`,
		},
		{
			name:     "root with slash",
			document: strings.Replace(minimalDefinition(), `"root": "home"`, `"root": "ho/me"`, 1),
			want:     `must not contain "/"`,
		},
		{
			name:     "root not a string",
			document: strings.Replace(minimalDefinition(), `"root": "home"`, `"root": 7`, 1),
			want:     `"root" must be a string`,
		},
		{
			name:     "missing topics",
			document: strings.Replace(minimalDefinition(), `"topics": ["home/security/#", "home/+/+/office/+/+/C"],`, ``, 1),
			want:     `missing required member "topics"`,
		},
		{
			name:     "hash not final",
			document: strings.Replace(minimalDefinition(), `"home/security/#"`, `"home/#/security"`, 1),
			want:     `"#" is only allowed as the final segment`,
		},
		{
			name:     "hash inside segment",
			document: strings.Replace(minimalDefinition(), `"home/security/#"`, `"home/sec#"`, 1),
			want:     `"#" must occupy a whole segment`,
		},
		{
			name:     "plus inside segment",
			document: strings.Replace(minimalDefinition(), `"home/security/#"`, `"home/se+curity"`, 1),
			want:     `"+" must occupy a whole segment`,
		},
		{
			name:     "missing characteristic",
			document: strings.Replace(minimalDefinition(), `"argvalue": {"maptype": "none"}`, `"argvalue2": {"maptype": "none"}`, 1),
			want:     `missing required member "argvalue"`,
		},
		{
			name:     "missing maptype",
			document: strings.Replace(minimalDefinition(), `"gateway":  {"maptype": "none"}`, `"gateway": {}`, 1),
			want:     `gateway: maptype is required`,
		},
		{
			name:     "unknown maptype",
			document: strings.Replace(minimalDefinition(), `"gateway":  {"maptype": "none"}`, `"gateway": {"maptype": "lax"}`, 1),
			want:     `gateway: maptype "lax" is not one of none, loose, strict`,
		},
		{
			name:     "map required for strict",
			document: strings.Replace(minimalDefinition(), `"function": {"maptype": "strict", "map": {"Security": ["security"]}}`, `"function": {"maptype": "strict"}`, 1),
			want:     `function: map is required when maptype is "strict"`,
		},
		{
			name:     "empty alias list",
			document: strings.Replace(minimalDefinition(), `{"Security": ["security"]}`, `{"Security": []}`, 1),
			want:     `function: keyword "Security" has no aliases`,
		},
		{
			name:     "empty alias",
			document: strings.Replace(minimalDefinition(), `{"Security": ["security"]}`, `{"Security": [""]}`, 1),
			want:     `function: keyword "Security" has an empty alias`,
		},
		{
			name: "alias collision within one characteristic",
			document: strings.Replace(minimalDefinition(),
				`"device":   {"maptype": "none"}`,
				`"device": {"maptype": "strict", "map": {"Gate": ["gate"], "FrontGate": ["gate"]}}`, 1),
			want: `device: alias "gate" is mapped from both "FrontGate" and "Gate"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefinition([]byte(tt.document))
			if err == nil {
				t.Fatalf("LoadDefinition() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("LoadDefinition() error = %v, want ErrInvalidDefinition", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadDefinition() error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadDefinitionSameAliasAcrossCharacteristics(t *testing.T) {
	// The same alias may legitimately appear in different characteristics;
	// ambiguity is checked per characteristic independently.
	document := strings.Replace(minimalDefinition(),
		`"device":   {"maptype": "none"}`,
		`"device": {"maptype": "strict", "map": {"SecuritySensor": ["security"]}}`, 1)
	if _, err := LoadDefinition([]byte(document)); err != nil {
		t.Errorf("LoadDefinition() unexpected error: %v", err)
	}
}

func TestLoadDefinitionCollectsAllViolations(t *testing.T) {
	document := `{
		"root": "",
		"topics": ["home/#/x"],
		"function": {"maptype": "lax"},
		"gateway":  {"maptype": "none"},
		"location": {"maptype": "strict"},
		"device":   {"maptype": "none"},
		"sender":   {"maptype": "none"},
		"argkey":   {"maptype": "none"},
		"argvalue": {"maptype": "none"}
	}`
	_, err := LoadDefinition([]byte(document))
	if err == nil {
		t.Fatal("LoadDefinition() expected error, got nil")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("LoadDefinition() error type = %T, want *ValidationError", err)
	}
	// Empty root, bad filter, bad maptype, missing map, missing action.
	const wantViolations = 5
	if len(verr.Violations) != wantViolations {
		t.Errorf("violations = %d (%v), want %d", len(verr.Violations), verr.Violations, wantViolations)
	}
}

func TestNewTableFromValidatedDefinition(t *testing.T) {
	def, err := LoadDefinition([]byte(minimalDefinition()))
	if err != nil {
		t.Fatalf("LoadDefinition() unexpected error: %v", err)
	}
	table, err := NewTable(def)
	if err != nil {
		t.Fatalf("NewTable() unexpected error: %v", err)
	}

	if table.Root() != "home" {
		t.Errorf("Root() = %q, want home", table.Root())
	}
	if got := table.Topics(); len(got) != 2 || got[0] != "home/security/#" {
		t.Errorf("Topics() = %v", got)
	}
	for _, c := range Characteristics() {
		if table.Map(c) == nil {
			t.Errorf("Map(%s) = nil", c)
		}
	}
	if table.Map(CharFunction).Policy() != PolicyStrict {
		t.Errorf("function policy = %q, want strict", table.Map(CharFunction).Policy())
	}
}

func TestTableTopicsIsACopy(t *testing.T) {
	table := NoMapTable("home", []string{"home/#"})
	table.Topics()[0] = "mutated"
	if got := table.Topics()[0]; got != "home/#" {
		t.Errorf("Topics()[0] = %q after caller mutation, want home/#", got)
	}
}

func TestNoMapTable(t *testing.T) {
	table := NoMapTable("home", []string{"home/#"})
	for _, c := range Characteristics() {
		m := table.Map(c)
		if m == nil {
			t.Fatalf("Map(%s) = nil", c)
		}
		if m.Policy() != PolicyNone {
			t.Errorf("Map(%s).Policy() = %q, want none", c, m.Policy())
		}
	}
}
