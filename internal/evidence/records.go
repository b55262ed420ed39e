package evidence

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"tessera/internal/language"
	"tessera/internal/quality"
)

// ErrInvalidRecord marks a source record that violates its own invariants.
var ErrInvalidRecord = errors.New("invalid evidence record")

const (
	minYear = 1880
	maxYear = 2200
)

// ParsedInfo is the release-name parser's guess for a file or folder name.
type ParsedInfo struct {
	Title             string             `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Year              int                `json:"year,omitempty" yaml:"year,omitempty" toml:"year,omitempty"`
	Languages         []language.Code    `json:"languages,omitempty" yaml:"languages,omitempty" toml:"languages,omitempty"`
	Edition           string             `json:"edition,omitempty" yaml:"edition,omitempty" toml:"edition,omitempty"`
	Source            quality.Source     `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Resolution        quality.Resolution `json:"resolution,omitempty" yaml:"resolution,omitempty" toml:"resolution,omitempty"`
	ReleaseGroup      string             `json:"release_group,omitempty" yaml:"release_group,omitempty" toml:"release_group,omitempty"`
	VideoCodec        string             `json:"video_codec,omitempty" yaml:"video_codec,omitempty" toml:"video_codec,omitempty"`
	SubtitleLanguages []language.Code    `json:"subtitle_languages,omitempty" yaml:"subtitle_languages,omitempty" toml:"subtitle_languages,omitempty"`
}

// Validate checks the parser's documented output contract.
func (p ParsedInfo) Validate() error {
	if p.Year != 0 && (p.Year < minYear || p.Year > maxYear) {
		return invalid("year", fmt.Sprintf("%d outside %d-%d", p.Year, minYear, maxYear))
	}
	if !p.Source.Valid() {
		return invalid("source", fmt.Sprintf("undeclared value %d", int(p.Source)))
	}
	if !p.Resolution.Valid() {
		return invalid("resolution", fmt.Sprintf("undeclared value %d", int(p.Resolution)))
	}
	if err := validateCodes("languages", p.Languages); err != nil {
		return err
	}
	return validateCodes("subtitle_languages", p.SubtitleLanguages)
}

func (p ParsedInfo) clone() ParsedInfo {
	p.Languages = slices.Clone(p.Languages)
	p.SubtitleLanguages = slices.Clone(p.SubtitleLanguages)
	return p
}

// MediaInfo is the structured result of probing the file's embedded metadata.
type MediaInfo struct {
	Width             int             `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height            int             `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	VideoCodec        string          `json:"video_codec,omitempty" yaml:"video_codec,omitempty" toml:"video_codec,omitempty"`
	AudioLanguages    []language.Code `json:"audio_languages,omitempty" yaml:"audio_languages,omitempty" toml:"audio_languages,omitempty"`
	SubtitleLanguages []language.Code `json:"subtitle_languages,omitempty" yaml:"subtitle_languages,omitempty" toml:"subtitle_languages,omitempty"`
	Title             string          `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
}

// Validate checks that dimensions are either both present or both absent.
func (m MediaInfo) Validate() error {
	if m.Width < 0 || m.Height < 0 {
		return invalid("dimensions", fmt.Sprintf("negative %dx%d", m.Width, m.Height))
	}
	if (m.Width == 0) != (m.Height == 0) {
		return invalid("dimensions", fmt.Sprintf("partial %dx%d", m.Width, m.Height))
	}
	if err := validateCodes("audio_languages", m.AudioLanguages); err != nil {
		return err
	}
	return validateCodes("subtitle_languages", m.SubtitleLanguages)
}

func (m MediaInfo) clone() MediaInfo {
	m.AudioLanguages = slices.Clone(m.AudioLanguages)
	m.SubtitleLanguages = slices.Clone(m.SubtitleLanguages)
	return m
}

// ReleaseInfo is the external release/indexer record matched to the file.
type ReleaseInfo struct {
	Indexer      string             `json:"indexer,omitempty" yaml:"indexer,omitempty" toml:"indexer,omitempty"`
	Title        string             `json:"title" yaml:"title" toml:"title"`
	Languages    []language.Code    `json:"languages,omitempty" yaml:"languages,omitempty" toml:"languages,omitempty"`
	Edition      string             `json:"edition,omitempty" yaml:"edition,omitempty" toml:"edition,omitempty"`
	Source       quality.Source     `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Resolution   quality.Resolution `json:"resolution,omitempty" yaml:"resolution,omitempty" toml:"resolution,omitempty"`
	ReleaseGroup string             `json:"release_group,omitempty" yaml:"release_group,omitempty" toml:"release_group,omitempty"`
	VideoCodec   string             `json:"video_codec,omitempty" yaml:"video_codec,omitempty" toml:"video_codec,omitempty"`
	IndexerFlags []string           `json:"indexer_flags,omitempty" yaml:"indexer_flags,omitempty" toml:"indexer_flags,omitempty"`
}

// Validate requires the release name every indexer record carries.
func (r ReleaseInfo) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return invalid("title", "release title is empty")
	}
	if !r.Source.Valid() {
		return invalid("source", fmt.Sprintf("undeclared value %d", int(r.Source)))
	}
	if !r.Resolution.Valid() {
		return invalid("resolution", fmt.Sprintf("undeclared value %d", int(r.Resolution)))
	}
	return validateCodes("languages", r.Languages)
}

func (r ReleaseInfo) clone() ReleaseInfo {
	r.Languages = slices.Clone(r.Languages)
	r.IndexerFlags = slices.Clone(r.IndexerFlags)
	return r
}

func validateCodes(field string, codes []language.Code) error {
	for i, code := range codes {
		if strings.TrimSpace(string(code)) == "" {
			return invalid(field, fmt.Sprintf("entry %d is empty", i))
		}
	}
	return nil
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecord, field, reason)
}
