package aggregation

import (
	"fmt"
	"strings"
)

// Policy selects how an aggregator reduces its candidates.
type Policy int

const (
	// PolicyBestConfidence keeps the single candidate with the highest tier.
	PolicyBestConfidence Policy = iota
	// PolicyConfidenceUnion merges list values from every candidate, highest
	// tier first, dropping duplicates. Only list aggregators support it.
	PolicyConfidenceUnion
)

// TieBreak decides between candidates sharing the highest tier.
type TieBreak int

const (
	// TieBreakFirstRegistered prefers the augmenter registered earliest.
	TieBreakFirstRegistered TieBreak = iota
	// TieBreakLastRegistered prefers the augmenter registered latest.
	TieBreakLastRegistered
)

var (
	policyNames   = []string{PolicyBestConfidence: "best_confidence", PolicyConfidenceUnion: "confidence_union"}
	tieBreakNames = []string{TieBreakFirstRegistered: "first_registered", TieBreakLastRegistered: "last_registered"}
)

// Settings holds the per-attribute registration choices.
type Settings struct {
	Policy   Policy
	TieBreak TieBreak
	// Parallel evaluates augmenters concurrently. Results are still ordered
	// by registration, so the outcome is identical to sequential evaluation.
	Parallel bool
}

func (s Settings) validate() error {
	if s.Policy < 0 || int(s.Policy) >= len(policyNames) {
		return fmt.Errorf("policy: invalid value %d", int(s.Policy))
	}
	if s.TieBreak < 0 || int(s.TieBreak) >= len(tieBreakNames) {
		return fmt.Errorf("tie_break: invalid value %d", int(s.TieBreak))
	}
	return nil
}

func (p Policy) String() string { return enumName(policyNames, int(p), "policy") }

func (p Policy) MarshalText() ([]byte, error) { return enumText(policyNames, int(p), "policy") }

func (p *Policy) UnmarshalText(text []byte) error {
	v, err := parseEnum(policyNames, string(text), "policy")
	if err != nil {
		return err
	}
	*p = Policy(v)
	return nil
}

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(value string) (Policy, error) {
	v, err := parseEnum(policyNames, value, "policy")
	return Policy(v), err
}

func (t TieBreak) String() string { return enumName(tieBreakNames, int(t), "tie_break") }

func (t TieBreak) MarshalText() ([]byte, error) { return enumText(tieBreakNames, int(t), "tie_break") }

func (t *TieBreak) UnmarshalText(text []byte) error {
	v, err := parseEnum(tieBreakNames, string(text), "tie_break")
	if err != nil {
		return err
	}
	*t = TieBreak(v)
	return nil
}

// ParseTieBreak converts a configuration string into a TieBreak.
func ParseTieBreak(value string) (TieBreak, error) {
	v, err := parseEnum(tieBreakNames, value, "tie_break")
	return TieBreak(v), err
}

func enumName(names []string, v int, kind string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, v)
	}
	return names[v]
}

func enumText(names []string, v int, kind string) ([]byte, error) {
	if v < 0 || v >= len(names) {
		return nil, fmt.Errorf("%s: invalid value %d", kind, v)
	}
	return []byte(names[v]), nil
}

func parseEnum(names []string, value, kind string) (int, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for i, name := range names {
		if name == value {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: unsupported value %q (want one of %s)", kind, value, strings.Join(names, ", "))
}
