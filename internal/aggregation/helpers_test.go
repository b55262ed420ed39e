package aggregation_test

import (
	"errors"
	"testing"

	"tessera/internal/aggregation"
	"tessera/internal/evidence"
)

// fixed proposes value unconditionally.
func fixed[T any](name string, kind evidence.Kind, value T) aggregation.Augmenter[T] {
	return aggregation.AugmentFunc[T]{
		ID:   name,
		Kind: kind,
		Fn: func(aug aggregation.Augmenter[T], _ evidence.Bundle) (*aggregation.Candidate[T], error) {
			return aggregation.Propose(aug, value), nil
		},
	}
}

// silent never has an opinion.
func silent[T any](name string, kind evidence.Kind) aggregation.Augmenter[T] {
	return aggregation.AugmentFunc[T]{ID: name, Kind: kind}
}

// failing reports a malformed source record.
func failing[T any](name string, kind evidence.Kind) aggregation.Augmenter[T] {
	return aggregation.AugmentFunc[T]{
		ID:   name,
		Kind: kind,
		Fn: func(aggregation.Augmenter[T], evidence.Bundle) (*aggregation.Candidate[T], error) {
			return nil, aggregation.Malformed(errors.New("record broke its contract"))
		},
	}
}

func newAggregator[T any](t testing.TB, id aggregation.AttributeID, settings aggregation.Settings, augs ...aggregation.Augmenter[T]) *aggregation.Aggregator[T] {
	t.Helper()
	agg, err := aggregation.NewAggregator(id, settings, augs...)
	if err != nil {
		t.Fatalf("build aggregator: %v", err)
	}
	return agg
}

func newListAggregator[E comparable](t testing.TB, id aggregation.AttributeID, settings aggregation.Settings, augs ...aggregation.Augmenter[[]E]) *aggregation.Aggregator[[]E] {
	t.Helper()
	agg, err := aggregation.NewListAggregator(id, settings, augs...)
	if err != nil {
		t.Fatalf("build list aggregator: %v", err)
	}
	return agg
}
