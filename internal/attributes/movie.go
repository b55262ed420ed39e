package attributes

import (
	"tessera/internal/aggregation"
	"tessera/internal/language"
	"tessera/internal/quality"
)

// Movie is a resolved record flattened into plain fields.
type Movie struct {
	Languages         []language.Code    `json:"languages"`
	Edition           string             `json:"edition,omitempty"`
	Source            quality.Source     `json:"source"`
	Resolution        quality.Resolution `json:"resolution"`
	ReleaseGroup      string             `json:"release_group,omitempty"`
	VideoCodec        quality.Codec      `json:"video_codec,omitempty"`
	SubtitleLanguages []language.Code    `json:"subtitle_languages"`
}

// Summarize copies the catalog attributes out of record. Attributes missing
// from the record keep their zero value.
func Summarize(record aggregation.Record) Movie {
	var m Movie
	if v, ok := aggregation.ValueOf[[]language.Code](record, Languages); ok {
		m.Languages = append([]language.Code(nil), v...)
	}
	m.Edition, _ = aggregation.ValueOf[string](record, Edition)
	m.Source, _ = aggregation.ValueOf[quality.Source](record, QualitySource)
	m.Resolution, _ = aggregation.ValueOf[quality.Resolution](record, Resolution)
	m.ReleaseGroup, _ = aggregation.ValueOf[string](record, ReleaseGroup)
	m.VideoCodec, _ = aggregation.ValueOf[quality.Codec](record, VideoCodec)
	if v, ok := aggregation.ValueOf[[]language.Code](record, SubtitleLanguages); ok {
		m.SubtitleLanguages = append([]language.Code{}, v...)
	}
	return m
}
