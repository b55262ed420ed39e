// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties and tags
//   - Format: container-level metadata (duration, size, bitrate, tags)
//
// Primary entry points:
//   - Decode / LoadFile: parse a saved `ffprobe -show_streams -show_format
//     -of json` dump
//   - Result.MediaInfo: reduce a probe to the media info evidence record
//
// The package never runs ffprobe itself; probes are captured by the import
// tooling and handed over as files.
package ffprobe
