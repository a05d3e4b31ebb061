// Package ruleset defines the JSON interchange format for Nim rule sets:
// a named document listing take/split rules, with schema validation on
// decode.
package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"nimlib/engine"
)

// Document is a named rule set as stored on disk or sent over the wire.
type Document struct {
	Name  string     `json:"name,omitempty"`
	Rules []RuleJSON `json:"rules"`
}

// RuleJSON is the wire form of one rule.
type RuleJSON struct {
	Take  TakeJSON `json:"take"`
	Split string   `json:"split"`
}

// TakeJSON is the wire form of a take size. It serializes as the string
// "any" or "place", or as the object {"exact": n}.
type TakeJSON struct {
	Take engine.TakeSize
}

func (t TakeJSON) MarshalJSON() ([]byte, error) {
	switch t.Take.Kind {
	case engine.TakeAny:
		return json.Marshal("any")
	case engine.TakePlace:
		return json.Marshal("place")
	case engine.TakeExact:
		return json.Marshal(map[string]uint64{"exact": t.Take.Amount})
	default:
		return nil, fmt.Errorf("unknown take kind: %d", t.Take.Kind)
	}
}

func (t *TakeJSON) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		switch tag {
		case "any":
			t.Take = engine.Any
			return nil
		case "place":
			t.Take = engine.Place
			return nil
		default:
			return fmt.Errorf("unknown take size: %q", tag)
		}
	}

	var obj struct {
		Exact *uint64 `json:"exact"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid take size: %w", err)
	}
	if obj.Exact == nil {
		return fmt.Errorf("take size object missing exact amount")
	}
	t.Take = engine.Exact(*obj.Exact)
	return nil
}

func parseSplitRule(s string) (engine.SplitRule, error) {
	switch s {
	case "never":
		return engine.SplitNever, nil
	case "optional":
		return engine.SplitOptional, nil
	case "always":
		return engine.SplitAlways, nil
	default:
		return 0, fmt.Errorf("unknown split rule: %q", s)
	}
}

func splitRuleToString(sr engine.SplitRule) string {
	switch sr {
	case engine.SplitOptional:
		return "optional"
	case engine.SplitAlways:
		return "always"
	default:
		return "never"
	}
}

// Decode parses a rule set document from JSON. The input is first checked
// against the document schema, then decoded and validated, so a decoded
// document is always structurally sound.
func Decode(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rule set JSON: %w", err)
	}
	if err := documentSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("rule set does not match schema: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode rule set: %w", err)
	}
	if errs := Validate(&doc); len(errs) > 0 {
		return nil, errs[0]
	}
	return &doc, nil
}

// Encode serializes a document to JSON, indented when pretty is set.
func Encode(doc *Document, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// Canonical serializes a document's rules in a stable form with the name
// stripped, so equal rule lists always produce identical bytes. Used as the
// digest input for stored tables.
func Canonical(doc *Document) ([]byte, error) {
	stripped := Document{Rules: doc.Rules}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&stripped); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RuleSet converts the document into an engine rule set with a fresh cache.
func (d *Document) RuleSet() (*engine.RuleSet, error) {
	rules := make([]engine.Rule, len(d.Rules))
	for i, rj := range d.Rules {
		split, err := parseSplitRule(rj.Split)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules[i] = engine.Rule{Take: rj.Take.Take, Split: split}
	}
	return engine.NewRuleSet(rules...), nil
}

// FromRules builds a document from engine rules.
func FromRules(name string, rules []engine.Rule) *Document {
	doc := &Document{
		Name:  name,
		Rules: make([]RuleJSON, len(rules)),
	}
	for i, r := range rules {
		doc.Rules[i] = RuleJSON{
			Take:  TakeJSON{Take: r.Take},
			Split: splitRuleToString(r.Split),
		}
	}
	return doc
}
