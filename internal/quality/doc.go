// Package quality defines the release quality vocabulary shared by every
// evidence source: the media source a release was captured from, its vertical
// resolution, and its video codec.
//
// Each type parses the loose spellings found in release names, indexer
// payloads, and ffprobe output into a small closed set, and implements
// encoding.TextMarshaler so values round-trip through TOML, YAML, and JSON
// documents unchanged.
package quality
