package aggregation

import "tessera/internal/evidence"

// Candidate is one augmenter's proposal for an attribute value.
type Candidate[T any] struct {
	Value      T
	Confidence Confidence
	Source     evidence.Kind
	Augmenter  string
}

// Propose builds a candidate for aug, taking the confidence from the tier
// documented for the augmenter's source.
func Propose[T any](aug Augmenter[T], value T) *Candidate[T] {
	tier, _ := SourceConfidence(aug.Source())
	return &Candidate[T]{
		Value:      value,
		Confidence: tier,
		Source:     aug.Source(),
		Augmenter:  aug.Name(),
	}
}
