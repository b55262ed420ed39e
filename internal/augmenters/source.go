package augmenters

import (
	"errors"
	"fmt"

	"tessera/internal/aggregation"
	"tessera/internal/evidence"
)

// ErrUnsupportedSource is returned when an attribute has no augmenter for
// the requested source.
var ErrUnsupportedSource = errors.New("no augmenter for source")

// parsedAugmenter reads the filename or folder parse result.
type parsedAugmenter[T any] struct {
	name    string
	kind    evidence.Kind
	extract func(evidence.ParsedInfo) (T, bool)
}

func (a parsedAugmenter[T]) Name() string          { return a.name }
func (a parsedAugmenter[T]) Source() evidence.Kind { return a.kind }

func (a parsedAugmenter[T]) Augment(bundle evidence.Bundle) (*aggregation.Candidate[T], error) {
	var (
		info evidence.ParsedInfo
		ok   bool
	)
	switch a.kind {
	case evidence.KindFilename:
		info, ok = bundle.Filename()
	case evidence.KindFolder:
		info, ok = bundle.Folder()
	}
	if !ok {
		return nil, nil
	}
	if err := info.Validate(); err != nil {
		return nil, aggregation.Malformed(fmt.Errorf("%s record: %w", a.kind, err))
	}
	value, ok := a.extract(info)
	if !ok {
		return nil, nil
	}
	return aggregation.Propose[T](a, value), nil
}

// mediaAugmenter reads the probed media info.
type mediaAugmenter[T any] struct {
	name    string
	extract func(evidence.MediaInfo) (T, bool)
}

func (a mediaAugmenter[T]) Name() string          { return a.name }
func (a mediaAugmenter[T]) Source() evidence.Kind { return evidence.KindMediaInfo }

func (a mediaAugmenter[T]) Augment(bundle evidence.Bundle) (*aggregation.Candidate[T], error) {
	info, ok := bundle.MediaInfo()
	if !ok {
		return nil, nil
	}
	if err := info.Validate(); err != nil {
		return nil, aggregation.Malformed(fmt.Errorf("%s record: %w", evidence.KindMediaInfo, err))
	}
	value, ok := a.extract(info)
	if !ok {
		return nil, nil
	}
	return aggregation.Propose[T](a, value), nil
}

// releaseAugmenter reads the matched indexer release. The release title is
// parsed once per call and offered alongside the structured fields.
type releaseAugmenter[T any] struct {
	name    string
	extract func(evidence.ReleaseInfo, releaseName) (T, bool)
}

func (a releaseAugmenter[T]) Name() string          { return a.name }
func (a releaseAugmenter[T]) Source() evidence.Kind { return evidence.KindRelease }

func (a releaseAugmenter[T]) Augment(bundle evidence.Bundle) (*aggregation.Candidate[T], error) {
	info, ok := bundle.Release()
	if !ok {
		return nil, nil
	}
	if err := info.Validate(); err != nil {
		return nil, aggregation.Malformed(fmt.Errorf("%s record: %w", evidence.KindRelease, err))
	}
	value, ok := a.extract(info, parseReleaseName(info.Title))
	if !ok {
		return nil, nil
	}
	return aggregation.Propose[T](a, value), nil
}

// sourceSet builds the augmenter for kind from whichever extractors an
// attribute supports. Nil extractors mark unsupported sources.
type sourceSet[T any] struct {
	attribute aggregation.AttributeID
	parsed    func(evidence.ParsedInfo) (T, bool)
	media     func(evidence.MediaInfo) (T, bool)
	release   func(evidence.ReleaseInfo, releaseName) (T, bool)
}

func (s sourceSet[T]) build(kind evidence.Kind) (aggregation.Augmenter[T], error) {
	name := fmt.Sprintf("%s_%s", kind, s.attribute)
	switch {
	case (kind == evidence.KindFilename || kind == evidence.KindFolder) && s.parsed != nil:
		return parsedAugmenter[T]{name: name, kind: kind, extract: s.parsed}, nil
	case kind == evidence.KindMediaInfo && s.media != nil:
		return mediaAugmenter[T]{name: name, extract: s.media}, nil
	case kind == evidence.KindRelease && s.release != nil:
		return releaseAugmenter[T]{name: name, extract: s.release}, nil
	}
	return nil, fmt.Errorf("%w: %s has no %q augmenter", ErrUnsupportedSource, s.attribute, kind)
}

// kinds lists the sources the set can read, in evidence order.
func (s sourceSet[T]) kinds() []evidence.Kind {
	var out []evidence.Kind
	if s.parsed != nil {
		out = append(out, evidence.KindFilename, evidence.KindFolder)
	}
	if s.media != nil {
		out = append(out, evidence.KindMediaInfo)
	}
	if s.release != nil {
		out = append(out, evidence.KindRelease)
	}
	return out
}
