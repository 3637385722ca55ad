package mapping

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// LoadDefinition parses a raw mapping document and checks it for
// structural and semantic consistency before a Table is built from it.
//
// All violations are collected rather than stopping at the first, and
// reported together through a *ValidationError. The checks are:
//
//   - the document is a JSON object with the required top-level members:
//     "root", "topics" and the eight characteristic objects
//   - "root" is a non-empty string containing no "/"
//   - every entry of "topics" is a syntactically valid slash-segmented
//     filter ("+" and "#" only as whole segments, "#" only final)
//   - every characteristic's "maptype" is none, loose or strict
//   - loose and strict characteristics carry a "map" member holding
//     non-empty internal keywords with non-empty lists of non-empty
//     aliases
//   - within a single characteristic no alias appears under two internal
//     keywords; the same alias may legitimately recur across different
//     characteristics
//
// Parameters:
//   - data: raw mapping file contents (JSON)
//
// Returns:
//   - *Definition: the validated definition, ready for NewTable
//   - error: a *ValidationError listing every violation found
func LoadDefinition(data []byte) (*Definition, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Violations: []string{
			fmt.Sprintf("definition is not a JSON object: %v", err),
		}}
	}

	var violations []string
	def := &Definition{Fields: make(map[Characteristic]FieldDefinition, 8)}

	violations = append(violations, parseRoot(raw, def)...)
	violations = append(violations, parseTopics(raw, def)...)
	for _, c := range Characteristics() {
		violations = append(violations, parseField(raw, def, c)...)
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return def, nil
}

// parseRoot extracts and checks the "root" member.
func parseRoot(raw map[string]json.RawMessage, def *Definition) []string {
	data, ok := raw["root"]
	if !ok {
		return []string{`missing required member "root"`}
	}
	if err := json.Unmarshal(data, &def.Root); err != nil {
		return []string{`"root" must be a string`}
	}
	var errs []string
	if def.Root == "" {
		errs = append(errs, `"root" must not be empty`)
	}
	if strings.Contains(def.Root, "/") {
		errs = append(errs, fmt.Sprintf(`"root" %q must not contain "/"`, def.Root))
	}
	return errs
}

// parseTopics extracts and checks the "topics" member.
func parseTopics(raw map[string]json.RawMessage, def *Definition) []string {
	data, ok := raw["topics"]
	if !ok {
		return []string{`missing required member "topics"`}
	}
	if err := json.Unmarshal(data, &def.Topics); err != nil {
		return []string{`"topics" must be an array of strings`}
	}
	var errs []string
	for i, filter := range def.Topics {
		for _, problem := range checkTopicFilter(filter) {
			errs = append(errs, fmt.Sprintf("topics[%d] %q: %s", i, filter, problem))
		}
	}
	return errs
}

// checkTopicFilter validates a single MQTT subscription filter.
func checkTopicFilter(filter string) []string {
	if filter == "" {
		return []string{"filter must not be empty"}
	}
	var errs []string
	segments := strings.Split(filter, "/")
	for i, segment := range segments {
		switch {
		case strings.Contains(segment, "#"):
			if segment != "#" {
				errs = append(errs, `"#" must occupy a whole segment`)
			} else if i != len(segments)-1 {
				errs = append(errs, `"#" is only allowed as the final segment`)
			}
		case strings.Contains(segment, "+"):
			if segment != "+" {
				errs = append(errs, `"+" must occupy a whole segment`)
			}
		}
	}
	return errs
}

// fieldDocument is the raw JSON shape of one characteristic object.
// MapType is a pointer so that a missing member can be told apart from an
// empty one.
type fieldDocument struct {
	MapType *string             `json:"maptype"`
	Map     map[string][]string `json:"map"`
}

// parseField extracts and checks one characteristic object.
func parseField(raw map[string]json.RawMessage, def *Definition, c Characteristic) []string {
	data, ok := raw[string(c)]
	if !ok {
		return []string{fmt.Sprintf("missing required member %q", c)}
	}
	var doc fieldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("%q must be an object with maptype and map members", c)}
	}
	if doc.MapType == nil {
		return []string{fmt.Sprintf("%s: maptype is required", c)}
	}
	policy, err := ParsePolicy(*doc.MapType)
	if err != nil {
		return []string{fmt.Sprintf("%s: maptype %q is not one of none, loose, strict", c, *doc.MapType)}
	}

	field := FieldDefinition{Policy: policy}
	if policy == PolicyNone {
		// Entries are ignored under the identity policy.
		def.Fields[c] = field
		return nil
	}

	if doc.Map == nil {
		return []string{fmt.Sprintf("%s: map is required when maptype is %q", c, policy)}
	}
	errs := checkEntries(c, doc.Map)
	if len(errs) == 0 {
		field.Entries = doc.Map
		def.Fields[c] = field
	}
	return errs
}

// checkEntries validates the keyword entries of one characteristic,
// including the per-characteristic alias ambiguity check. Keywords are
// visited in sorted order so violations are reported deterministically.
func checkEntries(c Characteristic, entries map[string][]string) []string {
	var errs []string

	keywords := make([]string, 0, len(entries))
	for keyword := range entries {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	owners := make(map[string]string) // alias -> internal keyword
	for _, keyword := range keywords {
		aliases := entries[keyword]
		if keyword == "" {
			errs = append(errs, fmt.Sprintf("%s: internal keyword must not be empty", c))
			continue
		}
		if len(aliases) == 0 {
			errs = append(errs, fmt.Sprintf("%s: keyword %q has no aliases", c, keyword))
			continue
		}
		for _, alias := range aliases {
			if alias == "" {
				errs = append(errs, fmt.Sprintf("%s: keyword %q has an empty alias", c, keyword))
				continue
			}
			if owner, taken := owners[alias]; taken && owner != keyword {
				errs = append(errs, fmt.Sprintf("%s: alias %q is mapped from both %q and %q",
					c, alias, owner, keyword))
				continue
			}
			owners[alias] = keyword
		}
	}
	return errs
}
