package aggregation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedAttribute means an attribute produced no candidate and has
	// no default. It signals a registration gap, not bad input.
	ErrUnresolvedAttribute = errors.New("unresolved attribute")
	// ErrMalformedBundle means a source record broke its own invariants.
	ErrMalformedBundle = errors.New("malformed evidence bundle")
	// ErrInvalidRegistration means the pipeline or an aggregator was
	// assembled inconsistently.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrConfidenceMismatch means a candidate claimed a tier other than the
	// one documented for its source.
	ErrConfidenceMismatch = errors.New("candidate confidence does not match source tier")
)

// AttributeError ties a structural failure to the attribute, and when known
// the augmenter, that raised it.
type AttributeError struct {
	Attribute AttributeID
	Augmenter string
	Err       error
}

func (e *AttributeError) Error() string {
	parts := make([]string, 0, 3)
	if e.Attribute != "" {
		parts = append(parts, "attribute "+string(e.Attribute))
	}
	if e.Augmenter != "" {
		parts = append(parts, "augmenter "+e.Augmenter)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// Malformed marks err as a malformed bundle condition. Augmenters use it to
// report a source record that failed validation.
func Malformed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMalformedBundle) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformedBundle, err)
}
