package ffprobe

import (
	"strings"

	"tessera/internal/evidence"
	"tessera/internal/language"
)

// MediaInfo reduces the probe to the evidence record the pipeline reads.
//
// The primary video stream is the first non-auxiliary video stream, default
// flagged streams first. Audio and subtitle languages come from stream tags
// in container order; auxiliary audio (commentary, descriptive) and streams
// without a recognizable language tag are skipped.
func (r Result) MediaInfo() evidence.MediaInfo {
	var info evidence.MediaInfo
	if video, ok := r.primaryVideo(); ok {
		info.Width = video.Width
		info.Height = video.Height
		info.VideoCodec = strings.ToLower(strings.TrimSpace(video.CodecName))
	}

	var audio, subtitles []string
	for _, stream := range r.Streams {
		tag := language.ExtractFromTags(stream.Tags)
		if tag == "" {
			continue
		}
		switch strings.ToLower(stream.CodecType) {
		case "audio":
			if !stream.IsAuxiliary() {
				audio = append(audio, tag)
			}
		case "subtitle":
			subtitles = append(subtitles, tag)
		}
	}
	info.AudioLanguages = language.ParseList(audio)
	info.SubtitleLanguages = language.ParseList(subtitles)
	info.Title = strings.TrimSpace(r.Format.Tags["title"])
	return info
}

func (r Result) primaryVideo() (Stream, bool) {
	var fallback *Stream
	for i := range r.Streams {
		stream := &r.Streams[i]
		if !strings.EqualFold(stream.CodecType, "video") || stream.IsAuxiliary() {
			continue
		}
		if stream.IsDefault() {
			return *stream, true
		}
		if fallback == nil {
			fallback = stream
		}
	}
	if fallback == nil {
		return Stream{}, false
	}
	return *fallback, true
}
