package edition

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// editionPattern maps a regex pattern to its normalized edition label.
type editionPattern struct {
	pattern *regexp.Regexp
	label   string
}

// editionDef pairs a canonical label with the pattern that detects it.
type editionDef struct {
	label         string
	detectPattern string
}

// editionDefs is the single source of truth for edition patterns. Order
// matters: the first match wins, so longer phrases precede their standalone
// forms.
var editionDefs = []editionDef{
	{"Director's Cut", `DIRECTOR'?S*\s*(CUT|EDITION|VERSION)`},
	{"Director's Cut", `DIRECTORS?`},

	{"Extended Edition", `EXTENDED\s*(CUT|EDITION|VERSION)`},
	{"Extended Edition", `EXTENDED`},

	{"Unrated", `UNRATED\s*(CUT|EDITION|VERSION)?`},
	{"Uncut", `UNCUT\s*(EDITION|VERSION)?`},

	{"Theatrical", `THEATRICAL\s*(CUT|EDITION|VERSION|RELEASE)?`},

	{"Remastered", `REMASTERED\s*(EDITION|VERSION)?`},

	{"Special Edition", `SPECIAL\s*EDITION`},

	{"Anniversary Edition", `\d+\s*(TH|ST|ND|RD)?\s*ANNIVERSARY\s*(EDITION)?`},

	{"Ultimate Edition", `ULTIMATE\s*(CUT|EDITION)`},
	{"Definitive Edition", `DEFINITIVE\s*(CUT|EDITION)`},

	{"Final Cut", `FINAL\s*CUT`},

	{"Redux", `REDUX`},

	{"IMAX", `IMAX\s*(EDITION)?`},

	{"Criterion", `CRITERION\s*(COLLECTION|EDITION)?`},
}

// knownEditionPatterns contains compiled regex patterns for edition detection.
// Built from editionDefs at init time.
var knownEditionPatterns []editionPattern

func init() {
	for _, def := range editionDefs {
		pattern := regexp.MustCompile(`(?i)\b(` + def.detectPattern + `)\b`)
		knownEditionPatterns = append(knownEditionPatterns, editionPattern{pattern, def.label})
	}
}

// ExtractKnown checks free text (a release name, a disc title, a container
// title tag) against known edition patterns. Returns the canonical label and
// true if a match is found.
func ExtractKnown(text string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	if normalized == "" {
		return "", false
	}

	// Release names separate words with dots or underscores.
	normalized = strings.NewReplacer("_", " ", ".", " ").Replace(normalized)

	for _, ep := range knownEditionPatterns {
		if ep.pattern.MatchString(normalized) {
			return ep.label, true
		}
	}
	return "", false
}

// Normalize maps a raw edition value reported by a source onto its canonical
// label. Values that match no known edition are cleaned up and title cased so
// "the_noir_version" and "The Noir Version" still compare equal.
func Normalize(raw string) string {
	if label, ok := ExtractKnown(raw); ok {
		return label
	}
	return NormalizeLabel(raw)
}

// NormalizeLabel cleans up a raw edition label.
// Converts underscores and dots to spaces and applies title case.
func NormalizeLabel(raw string) string {
	s := strings.NewReplacer("_", " ", ".", " ").Replace(raw)
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
