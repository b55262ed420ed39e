package aggregation

import "tessera/internal/evidence"

// Augmenter proposes a value for one attribute from exactly one evidence
// source.
//
// Augment returns (nil, nil) when the source is absent or has nothing to say.
// It returns an error only for structural problems, such as a source record
// violating its own invariants; wrap those with Malformed. Implementations
// must be pure: no reads outside the bundle, no mutation, and identical
// output for identical input, so they may run concurrently.
type Augmenter[T any] interface {
	Name() string
	Source() evidence.Kind
	Augment(bundle evidence.Bundle) (*Candidate[T], error)
}

// AugmentFunc adapts a function to the Augmenter interface.
type AugmentFunc[T any] struct {
	ID   string
	Kind evidence.Kind
	Fn   func(aug Augmenter[T], bundle evidence.Bundle) (*Candidate[T], error)
}

func (f AugmentFunc[T]) Name() string { return f.ID }

func (f AugmentFunc[T]) Source() evidence.Kind { return f.Kind }

func (f AugmentFunc[T]) Augment(bundle evidence.Bundle) (*Candidate[T], error) {
	if f.Fn == nil {
		return nil, nil
	}
	return f.Fn(f, bundle)
}
