package augmenters

import (
	"slices"
	"strings"

	"tessera/internal/aggregation"
	"tessera/internal/edition"
	"tessera/internal/evidence"
	"tessera/internal/language"
	"tessera/internal/quality"
)

// Attribute identifiers. Augmenter names are "<source>_<attribute>".
const (
	Languages         aggregation.AttributeID = "languages"
	Edition           aggregation.AttributeID = "edition"
	QualitySource     aggregation.AttributeID = "quality_source"
	Resolution        aggregation.AttributeID = "resolution"
	ReleaseGroup      aggregation.AttributeID = "release_group"
	VideoCodec        aggregation.AttributeID = "video_codec"
	SubtitleLanguages aggregation.AttributeID = "subtitle_languages"
)

var languageSet = sourceSet[[]language.Code]{
	attribute: Languages,
	parsed:    func(p evidence.ParsedInfo) ([]language.Code, bool) { return knownCodes(p.Languages) },
	media:     func(m evidence.MediaInfo) ([]language.Code, bool) { return knownCodes(m.AudioLanguages) },
	release:   func(r evidence.ReleaseInfo, _ releaseName) ([]language.Code, bool) { return knownCodes(r.Languages) },
}

var editionSet = sourceSet[string]{
	attribute: Edition,
	parsed:    func(p evidence.ParsedInfo) (string, bool) { return normalizedEdition(p.Edition) },
	release: func(r evidence.ReleaseInfo, name releaseName) (string, bool) {
		if label, ok := normalizedEdition(r.Edition); ok {
			return label, true
		}
		return name.edition()
	},
}

var qualitySourceSet = sourceSet[quality.Source]{
	attribute: QualitySource,
	parsed:    func(p evidence.ParsedInfo) (quality.Source, bool) { return p.Source, p.Source.Known() },
	release: func(r evidence.ReleaseInfo, name releaseName) (quality.Source, bool) {
		if r.Source.Known() {
			return r.Source, true
		}
		return name.source()
	},
}

var resolutionSet = sourceSet[quality.Resolution]{
	attribute: Resolution,
	parsed:    func(p evidence.ParsedInfo) (quality.Resolution, bool) { return p.Resolution, p.Resolution.Known() },
	media: func(m evidence.MediaInfo) (quality.Resolution, bool) {
		res := quality.ResolutionFromDimensions(m.Width, m.Height)
		return res, res.Known()
	},
	release: func(r evidence.ReleaseInfo, name releaseName) (quality.Resolution, bool) {
		if r.Resolution.Known() {
			return r.Resolution, true
		}
		return name.resolution()
	},
}

var releaseGroupSet = sourceSet[string]{
	attribute: ReleaseGroup,
	parsed:    func(p evidence.ParsedInfo) (string, bool) { return cleanReleaseGroup(p.ReleaseGroup) },
	release: func(r evidence.ReleaseInfo, name releaseName) (string, bool) {
		if group, ok := cleanReleaseGroup(r.ReleaseGroup); ok {
			return group, true
		}
		return name.group()
	},
}

var videoCodecSet = sourceSet[quality.Codec]{
	attribute: VideoCodec,
	parsed:    func(p evidence.ParsedInfo) (quality.Codec, bool) { return knownCodec(p.VideoCodec) },
	media:     func(m evidence.MediaInfo) (quality.Codec, bool) { return knownCodec(m.VideoCodec) },
	release: func(r evidence.ReleaseInfo, name releaseName) (quality.Codec, bool) {
		if codec, ok := knownCodec(r.VideoCodec); ok {
			return codec, true
		}
		return name.codec()
	},
}

var subtitleSet = sourceSet[[]language.Code]{
	attribute: SubtitleLanguages,
	parsed:    func(p evidence.ParsedInfo) ([]language.Code, bool) { return knownCodes(p.SubtitleLanguages) },
	media:     func(m evidence.MediaInfo) ([]language.Code, bool) { return knownCodes(m.SubtitleLanguages) },
}

// ForLanguages returns the spoken-language augmenter for kind. Media info
// contributes its audio track languages.
func ForLanguages(kind evidence.Kind) (aggregation.Augmenter[[]language.Code], error) {
	return languageSet.build(kind)
}

// ForEdition returns the edition augmenter for kind. Release records fall
// back to the edition tags that follow the movie title in the release name.
func ForEdition(kind evidence.Kind) (aggregation.Augmenter[string], error) {
	return editionSet.build(kind)
}

// ForQualitySource returns the quality source augmenter for kind.
func ForQualitySource(kind evidence.Kind) (aggregation.Augmenter[quality.Source], error) {
	return qualitySourceSet.build(kind)
}

// ForResolution returns the resolution augmenter for kind. Media info derives
// the resolution from pixel dimensions.
func ForResolution(kind evidence.Kind) (aggregation.Augmenter[quality.Resolution], error) {
	return resolutionSet.build(kind)
}

// ForReleaseGroup returns the release group augmenter for kind.
func ForReleaseGroup(kind evidence.Kind) (aggregation.Augmenter[string], error) {
	return releaseGroupSet.build(kind)
}

// ForVideoCodec returns the video codec augmenter for kind.
func ForVideoCodec(kind evidence.Kind) (aggregation.Augmenter[quality.Codec], error) {
	return videoCodecSet.build(kind)
}

// ForSubtitleLanguages returns the subtitle language augmenter for kind.
func ForSubtitleLanguages(kind evidence.Kind) (aggregation.Augmenter[[]language.Code], error) {
	return subtitleSet.build(kind)
}

// Sources lists the evidence kinds that have an augmenter for id.
func Sources(id aggregation.AttributeID) []evidence.Kind {
	switch id {
	case Languages:
		return languageSet.kinds()
	case Edition:
		return editionSet.kinds()
	case QualitySource:
		return qualitySourceSet.kinds()
	case Resolution:
		return resolutionSet.kinds()
	case ReleaseGroup:
		return releaseGroupSet.kinds()
	case VideoCodec:
		return videoCodecSet.kinds()
	case SubtitleLanguages:
		return subtitleSet.kinds()
	}
	return nil
}

// knownCodes normalizes codes and drops undetermined entries. A list with
// nothing left is no opinion.
func knownCodes(codes []language.Code) ([]language.Code, bool) {
	raw := make([]string, len(codes))
	for i, c := range codes {
		raw[i] = string(c)
	}
	out := language.ParseList(raw)
	return out, len(out) > 0
}

func normalizedEdition(raw string) (string, bool) {
	label := edition.Normalize(raw)
	return label, label != ""
}

func knownCodec(name string) (quality.Codec, bool) {
	codec := quality.ParseCodec(name)
	return codec, codec.Known()
}

// junkGroups are tokens release-name parsers commonly misreport as a group.
var junkGroups = []string{
	"", "aac", "ac3", "atmos", "bluray", "dd51", "dts", "hd", "hdr", "internal",
	"proper", "repack", "remux", "sample", "web", "webdl", "webrip",
	"x264", "x265",
}

func cleanReleaseGroup(raw string) (string, bool) {
	group := strings.Trim(strings.TrimSpace(raw), "-[]")
	if slices.Contains(junkGroups, strings.ToLower(group)) {
		return "", false
	}
	return group, true
}
