package augmenters

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/moistari/rls"

	"tessera/internal/edition"
	"tessera/internal/quality"
)

// releaseName is an indexer release title parsed by rls. tags holds the
// words after the movie title and year, where quality and edition markers
// live; it is empty when the title could not be located.
type releaseName struct {
	rls.Release
	tags string
}

func parseReleaseName(title string) releaseName {
	rel := rls.ParseString(title)
	return releaseName{Release: rel, tags: tagSection(title, rel)}
}

func isNameSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
}

// tagSection returns the words of name that follow the title. The last
// occurrence of the parsed year ends the title; names without a year must
// start with the parsed title words.
func tagSection(name string, rel rls.Release) string {
	tokens := strings.FieldsFunc(name, isNameSeparator)
	if rel.Year > 0 {
		year := strconv.Itoa(rel.Year)
		for i := len(tokens) - 1; i > 0; i-- {
			if tokens[i] == year {
				return strings.Join(tokens[i+1:], " ")
			}
		}
	}
	words := strings.FieldsFunc(rel.Title, isNameSeparator)
	if len(words) == 0 || len(words) > len(tokens) {
		return ""
	}
	for i, w := range words {
		if !strings.EqualFold(tokens[i], w) {
			return ""
		}
	}
	return strings.Join(tokens[len(words):], " ")
}

// edition prefers the cut and edition tags rls found in the tag section,
// then scans that section for any other known edition.
func (n releaseName) edition() (string, bool) {
	if n.tags == "" {
		return "", false
	}
	for _, tag := range slices.Concat(n.Cut, n.Edition) {
		if !containsPhrase(n.tags, tag) {
			continue
		}
		if label, ok := edition.ExtractKnown(tag); ok {
			return label, true
		}
	}
	return edition.ExtractKnown(n.tags)
}

func (n releaseName) source() (quality.Source, bool) {
	src := quality.ParseSource(n.Source)
	if src == quality.SourceBluray && slices.ContainsFunc(n.Other, func(tag string) bool {
		return quality.ParseSource(tag) == quality.SourceRemux
	}) {
		src = quality.SourceRemux
	}
	return src, src.Known()
}

func (n releaseName) resolution() (quality.Resolution, bool) {
	res := quality.ParseResolution(n.Resolution)
	return res, res.Known()
}

func (n releaseName) codec() (quality.Codec, bool) {
	for _, name := range n.Codec {
		if codec, ok := knownCodec(name); ok {
			return codec, true
		}
	}
	return quality.CodecUnknown, false
}

func (n releaseName) group() (string, bool) {
	return cleanReleaseGroup(n.Group)
}

// containsPhrase reports whether phrase appears as whole words in text,
// ignoring case and separators.
func containsPhrase(text, phrase string) bool {
	words := strings.FieldsFunc(strings.ToUpper(phrase), isNameSeparator)
	if len(words) == 0 {
		return false
	}
	haystack := " " + strings.Join(strings.FieldsFunc(strings.ToUpper(text), isNameSeparator), " ") + " "
	return strings.Contains(haystack, " "+strings.Join(words, " ")+" ")
}
