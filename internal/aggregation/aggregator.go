package aggregation

import (
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"tessera/internal/evidence"
)

// Aggregator resolves one attribute from its ordered augmenters.
type Aggregator[T any] struct {
	id         AttributeID
	settings   Settings
	augmenters []Augmenter[T]

	hasDefault   bool
	defaultValue T

	// union merges list values in the given order and reports which inputs
	// contributed at least one element. Nil for scalar attributes.
	union func(values []T) (T, []bool)
	// clone copies a value so records never share backing storage with the
	// aggregator or with each other. Nil for scalar attributes.
	clone func(T) T
}

// NewAggregator registers augmenters for a scalar attribute. Registration
// order is significant: it breaks ties between equal-confidence candidates.
func NewAggregator[T any](id AttributeID, settings Settings, augmenters ...Augmenter[T]) (*Aggregator[T], error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty attribute id", ErrInvalidRegistration)
	}
	if settings.Policy == PolicyConfidenceUnion {
		return nil, &AttributeError{Attribute: id, Err: fmt.Errorf("%w: %s requires a list attribute", ErrInvalidRegistration, settings.Policy)}
	}
	return newAggregator(id, settings, augmenters, nil, nil)
}

// NewListAggregator registers augmenters for a list attribute, which may use
// either policy. Union de-duplicates elements by equality.
func NewListAggregator[E comparable](id AttributeID, settings Settings, augmenters ...Augmenter[[]E]) (*Aggregator[[]E], error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty attribute id", ErrInvalidRegistration)
	}
	return newAggregator(id, settings, augmenters, unionOf[E], func(v []E) []E { return slices.Clone(v) })
}

func newAggregator[T any](id AttributeID, settings Settings, augmenters []Augmenter[T], union func([]T) (T, []bool), clone func(T) T) (*Aggregator[T], error) {
	if err := settings.validate(); err != nil {
		return nil, &AttributeError{Attribute: id, Err: fmt.Errorf("%w: %w", ErrInvalidRegistration, err)}
	}
	seen := make(map[string]struct{}, len(augmenters))
	for i, aug := range augmenters {
		if aug == nil {
			return nil, &AttributeError{Attribute: id, Err: fmt.Errorf("%w: augmenter %d is nil", ErrInvalidRegistration, i)}
		}
		name := aug.Name()
		if name == "" {
			return nil, &AttributeError{Attribute: id, Err: fmt.Errorf("%w: augmenter %d has no name", ErrInvalidRegistration, i)}
		}
		if _, dup := seen[name]; dup {
			return nil, &AttributeError{Attribute: id, Augmenter: name, Err: fmt.Errorf("%w: duplicate augmenter", ErrInvalidRegistration)}
		}
		seen[name] = struct{}{}
		if _, ok := SourceConfidence(aug.Source()); !ok {
			return nil, &AttributeError{Attribute: id, Augmenter: name, Err: fmt.Errorf("%w: unknown source %q", ErrInvalidRegistration, aug.Source())}
		}
	}
	return &Aggregator[T]{
		id:         id,
		settings:   settings,
		augmenters: slices.Clone(augmenters),
		union:      union,
		clone:      clone,
	}, nil
}

// WithDefault returns a copy of the aggregator that falls back to value,
// tagged ConfidenceDefault, when no augmenter has an opinion.
func (a *Aggregator[T]) WithDefault(value T) *Aggregator[T] {
	next := *a
	next.augmenters = slices.Clone(a.augmenters)
	next.hasDefault = true
	next.defaultValue = a.copyOf(value)
	return &next
}

func (a *Aggregator[T]) copyOf(value T) T {
	if a.clone == nil {
		return value
	}
	return a.clone(value)
}

// Attribute returns the attribute this aggregator resolves.
func (a *Aggregator[T]) Attribute() AttributeID {
	return a.id
}

// Settings returns the registration settings.
func (a *Aggregator[T]) Settings() Settings {
	return a.settings
}

// HasDefault reports whether a fallback value is configured.
func (a *Aggregator[T]) HasDefault() bool {
	return a.hasDefault
}

// Augmenters lists augmenter names in registration order.
func (a *Aggregator[T]) Augmenters() []string {
	names := make([]string, len(a.augmenters))
	for i, aug := range a.augmenters {
		names[i] = aug.Name()
	}
	return names
}

// Sources lists augmenter source kinds in registration order.
func (a *Aggregator[T]) Sources() []evidence.Kind {
	kinds := make([]evidence.Kind, len(a.augmenters))
	for i, aug := range a.augmenters {
		kinds[i] = aug.Source()
	}
	return kinds
}

// Collect runs every augmenter and returns their candidates in registration
// order. Augmenters without an opinion contribute nothing.
func (a *Aggregator[T]) Collect(bundle evidence.Bundle) ([]Candidate[T], error) {
	results := make([]*Candidate[T], len(a.augmenters))
	errs := make([]error, len(a.augmenters))

	if a.settings.Parallel && len(a.augmenters) > 1 {
		var g errgroup.Group
		for i, aug := range a.augmenters {
			g.Go(func() error {
				results[i], errs[i] = a.evaluate(aug, bundle)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, aug := range a.augmenters {
			results[i], errs[i] = a.evaluate(aug, bundle)
			if errs[i] != nil {
				break
			}
		}
	}

	// Report the earliest registered failure so errors are deterministic
	// regardless of completion order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	candidates := make([]Candidate[T], 0, len(results))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates, nil
}

func (a *Aggregator[T]) evaluate(aug Augmenter[T], bundle evidence.Bundle) (*Candidate[T], error) {
	candidate, err := aug.Augment(bundle)
	if err != nil {
		return nil, &AttributeError{Attribute: a.id, Augmenter: aug.Name(), Err: err}
	}
	if candidate == nil {
		return nil, nil
	}
	tier, _ := SourceConfidence(aug.Source())
	if candidate.Source != aug.Source() || candidate.Confidence != tier {
		return nil, &AttributeError{
			Attribute: a.id,
			Augmenter: aug.Name(),
			Err: fmt.Errorf("%w: %s candidate tagged %s/%s, want %s",
				ErrConfidenceMismatch, aug.Source(), candidate.Source, candidate.Confidence, tier),
		}
	}
	out := *candidate
	out.Augmenter = aug.Name()
	return &out, nil
}

// Resolve collects candidates and reduces them with the attribute's policy.
func (a *Aggregator[T]) Resolve(bundle evidence.Bundle) (Resolved, error) {
	candidates, err := a.Collect(bundle)
	if err != nil {
		return Resolved{}, err
	}
	return a.reduce(candidates)
}

func (a *Aggregator[T]) reduce(candidates []Candidate[T]) (Resolved, error) {
	res := Resolved{Attribute: a.id, Policy: a.settings.Policy}
	res.Trace = make([]TraceEntry, len(candidates))
	for i, c := range candidates {
		res.Trace[i] = TraceEntry{Augmenter: c.Augmenter, Source: c.Source, Confidence: c.Confidence, Value: c.Value}
	}

	if len(candidates) == 0 {
		if !a.hasDefault {
			return Resolved{}, &AttributeError{Attribute: a.id, Err: ErrUnresolvedAttribute}
		}
		res.Value = a.copyOf(a.defaultValue)
		res.Confidence = ConfidenceDefault
		res.Defaulted = true
		res.Trace = nil
		return res, nil
	}

	switch a.settings.Policy {
	case PolicyBestConfidence:
		best := 0
		for i := 1; i < len(candidates); i++ {
			switch Compare(candidates[i].Confidence, candidates[best].Confidence) {
			case 1:
				best = i
			case 0:
				if a.settings.TieBreak == TieBreakLastRegistered {
					best = i
				}
			}
		}
		winner := candidates[best]
		res.Value = a.copyOf(winner.Value)
		res.Confidence = winner.Confidence
		res.Source = winner.Source
		res.Augmenter = winner.Augmenter
		res.Trace[best].Selected = true
		return res, nil

	case PolicyConfidenceUnion:
		if a.union == nil {
			return Resolved{}, &AttributeError{Attribute: a.id, Err: fmt.Errorf("%w: %s requires a list attribute", ErrInvalidRegistration, a.settings.Policy)}
		}
		order := a.rankedOrder(candidates)
		values := make([]T, len(order))
		for i, idx := range order {
			values[i] = candidates[idx].Value
		}
		merged, contributed := a.union(values)
		top := candidates[order[0]]
		res.Value = merged
		res.Confidence = top.Confidence
		res.Source = top.Source
		res.Augmenter = top.Augmenter
		for i, idx := range order {
			res.Trace[idx].Selected = contributed[i]
		}
		return res, nil

	default:
		return Resolved{}, &AttributeError{Attribute: a.id, Err: fmt.Errorf("%w: unknown policy %s", ErrInvalidRegistration, a.settings.Policy)}
	}
}

// rankedOrder returns candidate indexes sorted by confidence, highest first.
// Within a tier, registration order (or its reverse) decides precedence.
func (a *Aggregator[T]) rankedOrder(candidates []Candidate[T]) []int {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		if c := Compare(candidates[y].Confidence, candidates[x].Confidence); c != 0 {
			return c
		}
		if a.settings.TieBreak == TieBreakLastRegistered {
			return y - x
		}
		return x - y
	})
	return order
}

func unionOf[E comparable](values [][]E) ([]E, []bool) {
	total := 0
	for _, v := range values {
		total += len(v)
	}
	merged := make([]E, 0, total)
	contributed := make([]bool, len(values))
	seen := make(map[E]struct{}, total)
	for i, list := range values {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			merged = append(merged, item)
			contributed[i] = true
		}
	}
	return merged, contributed
}
