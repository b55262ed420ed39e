package aggregation

import (
	"fmt"
	"strings"

	"tessera/internal/evidence"
)

// Confidence is the evidentiary strength of a candidate value. Tiers are
// totally ordered; a higher tier beats a lower one under PolicyBestConfidence.
type Confidence int

const (
	// ConfidenceDefault tags synthesized fallback values.
	ConfidenceDefault Confidence = iota
	ConfidenceFilename
	ConfidenceFoldername
	ConfidenceMediaInfo
	ConfidenceExternalRelease
)

var confidenceNames = []string{
	ConfidenceDefault:         "default",
	ConfidenceFilename:        "filename",
	ConfidenceFoldername:      "foldername",
	ConfidenceMediaInfo:       "media_info",
	ConfidenceExternalRelease: "external_release",
}

// sourceTiers is the documented contract between evidence sources and the
// confidence their candidates carry.
var sourceTiers = map[evidence.Kind]Confidence{
	evidence.KindFilename:  ConfidenceFilename,
	evidence.KindFolder:    ConfidenceFoldername,
	evidence.KindMediaInfo: ConfidenceMediaInfo,
	evidence.KindRelease:   ConfidenceExternalRelease,
}

// SourceConfidence returns the fixed tier for a source kind. Unknown kinds
// report false.
func SourceConfidence(kind evidence.Kind) (Confidence, bool) {
	c, ok := sourceTiers[kind]
	return c, ok
}

// Compare returns -1 when a ranks below b, 0 when equal, +1 when above.
func Compare(a, b Confidence) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Valid reports whether c is a declared tier.
func (c Confidence) Valid() bool {
	return c >= ConfidenceDefault && int(c) < len(confidenceNames)
}

func (c Confidence) String() string {
	if !c.Valid() {
		return fmt.Sprintf("confidence(%d)", int(c))
	}
	return confidenceNames[c]
}

func (c Confidence) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("confidence: invalid value %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Confidence) UnmarshalText(text []byte) error {
	parsed, err := ParseConfidence(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseConfidence converts a tier name back to its value.
func ParseConfidence(name string) (Confidence, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range confidenceNames {
		if candidate == name {
			return Confidence(i), nil
		}
	}
	return ConfidenceDefault, fmt.Errorf("confidence: unsupported value %q", name)
}
