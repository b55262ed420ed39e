package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tessera/internal/aggregation"
	"tessera/internal/attributes"
	"tessera/internal/evidence"
	"tessera/internal/logging"
	"tessera/internal/services"
)

const (
	stageAggregate = "aggregate"
	stageJournal   = "journal"

	defaultBatchWorkers = 4
)

// Journal persists resolved records. *journal.Journal satisfies it.
type Journal interface {
	Record(ctx context.Context, runID, path string, rec aggregation.Record) error
}

// ImportUnit is one movie file or folder awaiting resolution.
type ImportUnit struct {
	Path   string
	Bundle evidence.Bundle
}

// Result is the outcome of resolving one import unit.
type Result struct {
	RunID    string
	Path     string
	Record   aggregation.Record
	Movie    attributes.Movie
	Duration time.Duration
	Err      error
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithJournal records every successful run in j.
func WithJournal(j Journal) Option {
	return func(r *Resolver) {
		r.journal = j
	}
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(next func() string) Option {
	return func(r *Resolver) {
		if next != nil {
			r.newID = next
		}
	}
}

// WithBatchWorkers bounds how many import units ResolveBatch runs at once.
func WithBatchWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.batchWorkers = n
		}
	}
}

// Resolver resolves import units against one pipeline.
type Resolver struct {
	pipeline     *aggregation.Pipeline
	journal      Journal
	logger       *slog.Logger
	newID        func() string
	batchWorkers int
}

// New builds a Resolver. A nil logger discards output.
func New(pipeline *aggregation.Pipeline, logger *slog.Logger, opts ...Option) (*Resolver, error) {
	if pipeline == nil {
		return nil, services.Wrap(services.ErrConfiguration, "resolver", "init", "pipeline is required", nil)
	}
	r := &Resolver{
		pipeline:     pipeline,
		logger:       logging.NewComponentLogger(logger, "resolver"),
		newID:        uuid.NewString,
		batchWorkers: defaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve runs the pipeline over unit. The returned Result always carries
// the run ID; Record and Movie are populated only on success.
func (r *Resolver) Resolve(ctx context.Context, unit ImportUnit) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := Result{RunID: r.newID(), Path: strings.TrimSpace(unit.Path)}
	ctx = services.WithRunID(ctx, result.RunID)
	if result.Path != "" {
		ctx = services.WithImportPath(ctx, result.Path)
	}
	ctx = services.WithStage(ctx, stageAggregate)
	logger := logging.WithContext(ctx, r.logger)

	sources := make([]string, 0, 4)
	for _, kind := range unit.Bundle.Kinds() {
		sources = append(sources, string(kind))
	}
	logger.Debug("resolution started", logging.String("sources", strings.Join(sources, ",")))

	start := time.Now()
	rec, err := r.pipeline.Run(ctx, unit.Bundle)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = classify(result.Path, err)
		logging.ErrorWithContext(logger, "resolution failed", "resolution_failed",
			logging.Error(err),
			logging.String("error_class", services.Classify(result.Err)),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return result, result.Err
	}

	result.Record = rec
	result.Movie = attributes.Summarize(rec)
	for _, res := range rec.Attributes() {
		logDecision(logger, res)
	}
	logger.Info("resolution completed",
		logging.Int("attributes", rec.Len()),
		logging.Int("defaulted", countDefaulted(rec)),
		logging.Duration("duration", result.Duration),
	)

	if r.journal != nil {
		jctx := services.WithStage(ctx, stageJournal)
		if err := r.journal.Record(jctx, result.RunID, result.Path, rec); err != nil {
			logging.WarnWithContext(logging.WithContext(jctx, r.logger), "journal write failed", "journal_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check journal_path permissions and disk space"),
				logging.String(logging.FieldImpact, "run is missing from history"),
			)
		}
	}
	return result, nil
}

// ResolveBatch resolves every unit, at most batchWorkers at a time. Results
// are returned in input order and a failing unit does not stop the others.
func (r *Resolver) ResolveBatch(ctx context.Context, units []ImportUnit) []Result {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]Result, len(units))
	var g errgroup.Group
	g.SetLimit(r.batchWorkers)
	for i, unit := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: unit.Path, Err: services.Wrap(services.ErrTransient, stageAggregate, "batch", unit.Path, err)}
				return nil
			}
			results[i], _ = r.Resolve(ctx, unit)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func logDecision(logger *slog.Logger, res aggregation.Resolved) {
	attrs := []logging.Attr{
		logging.String(logging.FieldAttribute, string(res.Attribute)),
		logging.String("confidence", res.Confidence.String()),
	}
	if res.Source != "" {
		attrs = append(attrs, logging.String("source", string(res.Source)), logging.String("augmenter", res.Augmenter))
	}
	attrs = append(attrs, logging.DecisionAttrs("attribute_resolution", fmt.Sprint(res.Value), decisionReason(res))...)
	logger.Info("attribute resolved", logging.Args(attrs...)...)

	for _, entry := range res.Trace {
		logger.Debug("candidate considered",
			logging.String(logging.FieldAttribute, string(res.Attribute)),
			logging.String("augmenter", entry.Augmenter),
			logging.String("confidence", entry.Confidence.String()),
			logging.Any("value", entry.Value),
			logging.Bool("selected", entry.Selected),
		)
	}
}

func decisionReason(res aggregation.Resolved) string {
	switch {
	case res.Defaulted:
		return "no source had an opinion"
	case res.Policy == aggregation.PolicyConfidenceUnion:
		selected := 0
		for _, entry := range res.Trace {
			if entry.Selected {
				selected++
			}
		}
		return fmt.Sprintf("union of %d of %d candidates", selected, len(res.Trace))
	case len(res.Trace) == 1:
		return "only candidate"
	default:
		return fmt.Sprintf("highest confidence of %d candidates", len(res.Trace))
	}
}

func countDefaulted(rec aggregation.Record) int {
	n := 0
	for _, res := range rec.Attributes() {
		if res.Defaulted {
			n++
		}
	}
	return n
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, aggregation.ErrMalformedBundle):
		return services.Wrap(services.ErrValidation, stageAggregate, "resolve", path, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTransient, stageAggregate, "resolve", path, err)
	default:
		return services.Wrap(services.ErrConfiguration, stageAggregate, "resolve", path, err)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, aggregation.ErrMalformedBundle):
		return "fix the named source record in the bundle document"
	case errors.Is(err, aggregation.ErrUnresolvedAttribute):
		return "enable the attribute default or register more sources"
	default:
		return "run tessera config validate"
	}
}
