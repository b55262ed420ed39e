package evidence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a bundle document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is the on-disk form of a bundle, used by the CLI and fixtures.
// Path is informational: it names the import unit in logs and the journal.
type Document struct {
	Path      string       `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Filename  *ParsedInfo  `json:"filename,omitempty" yaml:"filename,omitempty" toml:"filename,omitempty"`
	Folder    *ParsedInfo  `json:"folder,omitempty" yaml:"folder,omitempty" toml:"folder,omitempty"`
	MediaInfo *MediaInfo   `json:"media_info,omitempty" yaml:"media_info,omitempty" toml:"media_info,omitempty"`
	Release   *ReleaseInfo `json:"release,omitempty" yaml:"release,omitempty" toml:"release,omitempty"`
}

// Bundle converts the document into an immutable bundle.
func (d Document) Bundle() Bundle {
	opts := make([]Option, 0, 4)
	if d.Filename != nil {
		opts = append(opts, WithFilename(*d.Filename))
	}
	if d.Folder != nil {
		opts = append(opts, WithFolder(*d.Folder))
	}
	if d.MediaInfo != nil {
		opts = append(opts, WithMediaInfo(*d.MediaInfo))
	}
	if d.Release != nil {
		opts = append(opts, WithRelease(*d.Release))
	}
	return NewBundle(opts...)
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("bundle document %s: unsupported extension %q", path, filepath.Ext(path))
	}
}

// LoadFile reads a bundle document, choosing the decoder by extension. When
// the document does not name its import unit, the file path is used.
func LoadFile(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read bundle document: %w", err)
	}
	doc, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(doc.Path) == "" {
		doc.Path = path
	}
	return doc, nil
}

// Decode parses a bundle document in the given format. Unknown fields are
// rejected so a typo in a fixture does not silently drop evidence.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("parse json bundle: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("parse yaml bundle: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("parse toml bundle: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("parse bundle: unsupported format %q", format)
	}
	return doc, nil
}
