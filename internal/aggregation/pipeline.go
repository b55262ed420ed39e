package aggregation

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tessera/internal/evidence"
)

// AttributeResolver is the type-erased view of an Aggregator the pipeline
// schedules. *Aggregator[T] implements it for every T.
type AttributeResolver interface {
	Attribute() AttributeID
	Resolve(bundle evidence.Bundle) (Resolved, error)
}

// PipelineOptions tunes pipeline scheduling.
type PipelineOptions struct {
	// Workers bounds how many attributes resolve concurrently. Values <= 0
	// resolve every attribute concurrently; 1 resolves them sequentially.
	Workers int
}

// Pipeline resolves every registered attribute over one bundle. It holds no
// per-run state, so a single Pipeline may serve concurrent runs.
type Pipeline struct {
	opts      PipelineOptions
	resolvers []AttributeResolver
}

// NewPipeline registers resolvers in order. Each attribute may be registered
// once.
func NewPipeline(opts PipelineOptions, resolvers ...AttributeResolver) (*Pipeline, error) {
	seen := make(map[AttributeID]struct{}, len(resolvers))
	for i, r := range resolvers {
		if r == nil {
			return nil, fmt.Errorf("%w: resolver %d is nil", ErrInvalidRegistration, i)
		}
		id := r.Attribute()
		if id == "" {
			return nil, fmt.Errorf("%w: resolver %d has no attribute id", ErrInvalidRegistration, i)
		}
		if _, dup := seen[id]; dup {
			return nil, &AttributeError{Attribute: id, Err: fmt.Errorf("%w: attribute registered twice", ErrInvalidRegistration)}
		}
		seen[id] = struct{}{}
	}
	return &Pipeline{opts: opts, resolvers: append([]AttributeResolver(nil), resolvers...)}, nil
}

// Attributes lists registered attributes in registration order.
func (p *Pipeline) Attributes() []AttributeID {
	ids := make([]AttributeID, len(p.resolvers))
	for i, r := range p.resolvers {
		ids[i] = r.Attribute()
	}
	return ids
}

// Resolvers returns the registered resolvers in order.
func (p *Pipeline) Resolvers() []AttributeResolver {
	return append([]AttributeResolver(nil), p.resolvers...)
}

// Run resolves every attribute over bundle. On failure it returns the error
// of the earliest registered failing attribute and an empty Record; a
// partially resolved record is never returned. Every attribute is attempted
// even after a sibling fails so the reported error does not depend on
// scheduling. ctx only stops attributes that have not started yet.
func (p *Pipeline) Run(ctx context.Context, bundle evidence.Bundle) (Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]Resolved, len(p.resolvers))
	errs := make([]error, len(p.resolvers))

	var g errgroup.Group
	if p.opts.Workers > 0 {
		g.SetLimit(p.opts.Workers)
	}
	for i, r := range p.resolvers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			res, err := r.Resolve(bundle)
			if err != nil {
				errs[i] = attributeError(r.Attribute(), err)
				return nil
			}
			if res.Attribute != r.Attribute() {
				errs[i] = &AttributeError{
					Attribute: r.Attribute(),
					Err:       fmt.Errorf("%w: resolver returned attribute %q", ErrInvalidRegistration, res.Attribute),
				}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return Record{}, err
		}
	}
	return newRecord(results), nil
}

func attributeError(id AttributeID, err error) error {
	var attrErr *AttributeError
	if errors.As(err, &attrErr) {
		return err
	}
	return &AttributeError{Attribute: id, Err: err}
}
