package testsupport

import (
	"tessera/internal/evidence"
	"tessera/internal/language"
	"tessera/internal/quality"
)

// HeatPath is the import path used by the sample fixtures.
const HeatPath = "/imports/Heat (1995) [English]/Heat.1995.Directors.Cut.1080p.BluRay.x264-GROUP.mkv"

// HeatDocument returns a bundle document with every source populated.
// Release evidence outranks the rest, so it decides every attribute the
// release record carries.
func HeatDocument() evidence.Document {
	return evidence.Document{
		Path: HeatPath,
		Filename: &evidence.ParsedInfo{
			Title:        "Heat",
			Year:         1995,
			Edition:      "Directors Cut",
			Source:       quality.SourceBluray,
			Resolution:   quality.Resolution1080p,
			ReleaseGroup: "GROUP",
			VideoCodec:   "x264",
		},
		Folder: &evidence.ParsedInfo{
			Title:     "Heat",
			Year:      1995,
			Languages: []language.Code{"en"},
		},
		MediaInfo: &evidence.MediaInfo{
			Width:             1920,
			Height:            1080,
			VideoCodec:        "h264",
			AudioLanguages:    []language.Code{"en", "fr"},
			SubtitleLanguages: []language.Code{"en", "es"},
			Title:             "Heat",
		},
		Release: &evidence.ReleaseInfo{
			Indexer:      "example",
			Title:        "Heat.1995.Directors.Cut.1080p.BluRay.x264-GROUP",
			Languages:    []language.Code{"en"},
			Source:       quality.SourceBluray,
			Resolution:   quality.Resolution1080p,
			ReleaseGroup: "GROUP",
		},
	}
}

// HeatBundle is HeatDocument as a bundle.
func HeatBundle() evidence.Bundle {
	return HeatDocument().Bundle()
}

// HeatJSON is HeatDocument serialized as a bundle document file.
const HeatJSON = `{
  "path": "` + HeatPath + `",
  "filename": {
    "title": "Heat",
    "year": 1995,
    "edition": "Directors Cut",
    "source": "bluray",
    "resolution": "1080p",
    "release_group": "GROUP",
    "video_codec": "x264"
  },
  "folder": {"title": "Heat", "year": 1995, "languages": ["en"]},
  "media_info": {
    "width": 1920,
    "height": 1080,
    "video_codec": "h264",
    "audio_languages": ["en", "fr"],
    "subtitle_languages": ["en", "es"],
    "title": "Heat"
  },
  "release": {
    "indexer": "example",
    "title": "Heat.1995.Directors.Cut.1080p.BluRay.x264-GROUP",
    "languages": ["en"],
    "source": "bluray",
    "resolution": "1080p",
    "release_group": "GROUP"
  }
}
`

// MalformedMediaDocument carries a media record with partial dimensions.
func MalformedMediaDocument() evidence.Document {
	return evidence.Document{
		Path:      "/imports/Broken/Broken.mkv",
		MediaInfo: &evidence.MediaInfo{Width: 1920},
	}
}
