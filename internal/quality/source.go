package quality

import (
	"fmt"
	"strings"
)

// Source represents the media source type of a release.
type Source int

const (
	SourceUnknown Source = iota
	SourceCAM
	SourceTelesync
	SourceTelecine
	SourceWorkprint
	SourceDVD
	SourceTV
	SourceWEBRip
	SourceWEBDL
	SourceBluray
	SourceRemux
)

var sourceNames = map[Source]string{
	SourceUnknown:   "unknown",
	SourceCAM:       "cam",
	SourceTelesync:  "telesync",
	SourceTelecine:  "telecine",
	SourceWorkprint: "workprint",
	SourceDVD:       "dvd",
	SourceTV:        "tv",
	SourceWEBRip:    "webrip",
	SourceWEBDL:     "webdl",
	SourceBluray:    "bluray",
	SourceRemux:     "remux",
}

// sourceAliases maps normalized tokens (lowercase, separators removed) to sources.
var sourceAliases = map[string]Source{
	"cam":       SourceCAM,
	"hdcam":     SourceCAM,
	"camrip":    SourceCAM,
	"ts":        SourceTelesync,
	"telesync":  SourceTelesync,
	"hdts":      SourceTelesync,
	"tc":        SourceTelecine,
	"telecine":  SourceTelecine,
	"wp":        SourceWorkprint,
	"workprint": SourceWorkprint,
	"dvd":       SourceDVD,
	"dvdrip":    SourceDVD,
	"dvdr":      SourceDVD,
	"ntsc":      SourceDVD,
	"pal":       SourceDVD,
	"tv":        SourceTV,
	"hdtv":      SourceTV,
	"pdtv":      SourceTV,
	"sdtv":      SourceTV,
	"webrip":    SourceWEBRip,
	"web":       SourceWEBDL,
	"webdl":     SourceWEBDL,
	"bluray":    SourceBluray,
	"uhdbluray": SourceBluray,
	"bdrip":     SourceBluray,
	"brrip":     SourceBluray,
	"bd":        SourceBluray,
	"remux":     SourceRemux,
	"bdremux":   SourceRemux,
}

// ParseSource converts a release token ("WEB-DL", "BluRay", "HDTV") to a Source.
// Unrecognized tokens yield SourceUnknown.
func ParseSource(token string) Source {
	if src, ok := sourceAliases[normalizeToken(token)]; ok {
		return src
	}
	return SourceUnknown
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return sourceNames[SourceUnknown]
}

// Valid reports whether s is one of the declared sources.
func (s Source) Valid() bool {
	_, ok := sourceNames[s]
	return ok
}

// Known reports whether s carries an actual source.
func (s Source) Known() bool {
	return s != SourceUnknown && s.Valid()
}

func (s Source) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("quality source: invalid value %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" || strings.EqualFold(raw, sourceNames[SourceUnknown]) {
		*s = SourceUnknown
		return nil
	}
	parsed := ParseSource(raw)
	if parsed == SourceUnknown {
		return fmt.Errorf("quality source: unsupported value %q", raw)
	}
	*s = parsed
	return nil
}

func normalizeToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	var b strings.Builder
	for _, r := range token {
		switch r {
		case '-', '_', '.', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
