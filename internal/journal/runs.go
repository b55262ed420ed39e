package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tessera/internal/aggregation"
	"tessera/internal/evidence"
)

// Decision is the stored form of one resolved attribute.
type Decision struct {
	Attribute  aggregation.AttributeID  `json:"attribute"`
	Value      json.RawMessage          `json:"value"`
	Confidence aggregation.Confidence   `json:"confidence"`
	Source     evidence.Kind            `json:"source,omitempty"`
	Augmenter  string                   `json:"augmenter,omitempty"`
	Defaulted  bool                     `json:"defaulted,omitempty"`
	Policy     aggregation.Policy       `json:"policy"`
	Trace      []aggregation.TraceEntry `json:"trace,omitempty"`
}

// Run is one journaled resolution.
type Run struct {
	ID        string     `json:"id"`
	Path      string     `json:"path"`
	CreatedAt time.Time  `json:"created_at"`
	Decisions []Decision `json:"decisions,omitempty"`
}

// RunSummary is a run without its decisions, as listed by List.
type RunSummary struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"created_at"`
	Attributes int       `json:"attributes"`
	Defaulted  int       `json:"defaulted"`
}

// Record stores every attribute of rec under runID.
func (j *Journal) Record(ctx context.Context, runID, path string, rec aggregation.Record) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id is empty")
	}

	type row struct {
		attribute string
		value     string
		trace     sql.NullString
		res       aggregation.Resolved
	}
	rows := make([]row, 0, rec.Len())
	for _, res := range rec.Attributes() {
		value, err := json.Marshal(res.Value)
		if err != nil {
			return fmt.Errorf("marshal %s value: %w", res.Attribute, err)
		}
		r := row{attribute: string(res.Attribute), value: string(value), res: res}
		if len(res.Trace) > 0 {
			trace, err := json.Marshal(res.Trace)
			if err != nil {
				return fmt.Errorf("marshal %s trace: %w", res.Attribute, err)
			}
			r.trace = sql.NullString{String: string(trace), Valid: true}
		}
		rows = append(rows, r)
	}

	createdAt := time.Now().UTC().Format(timeLayout)
	return retryOnBusy(ctx, func() error {
		tx, err := j.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, path, created_at) VALUES (?, ?, ?)`,
			runID, path, createdAt,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for i, r := range rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO decisions (
                    run_id, position, attribute, value_json, confidence,
                    source, augmenter, defaulted, policy, trace_json
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID,
				i,
				r.attribute,
				r.value,
				r.res.Confidence.String(),
				nullableString(string(r.res.Source)),
				nullableString(r.res.Augmenter),
				boolToInt(r.res.Defaulted),
				r.res.Policy.String(),
				r.trace,
			); err != nil {
				return fmt.Errorf("insert decision %s: %w", r.attribute, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit record: %w", err)
		}
		return nil
	})
}

// List returns the most recent runs, newest first. A limit <= 0 lists all.
func (j *Journal) List(ctx context.Context, limit int) ([]RunSummary, error) {
	ctx = ensureContext(ctx)
	query := `SELECT r.id, r.path, r.created_at,
                     COUNT(d.attribute), COALESCE(SUM(d.defaulted), 0)
              FROM runs r LEFT JOIN decisions d ON d.run_id = r.id
              GROUP BY r.id
              ORDER BY r.created_at DESC, r.id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary    RunSummary
			createdRaw string
		)
		if err := rows.Scan(&summary.ID, &summary.Path, &createdRaw, &summary.Attributes, &summary.Defaulted); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if summary.CreatedAt, err = parseTime(createdRaw); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Get loads one run with its decisions in registration order. It returns
// nil without error when the run does not exist.
func (j *Journal) Get(ctx context.Context, runID string) (*Run, error) {
	ctx = ensureContext(ctx)
	var (
		run        Run
		createdRaw string
	)
	err := j.db.QueryRowContext(ctx,
		`SELECT id, path, created_at FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Path, &createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run.CreatedAt, err = parseTime(createdRaw); err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT attribute, value_json, confidence, source, augmenter, defaulted, policy, trace_json
         FROM decisions WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("get decisions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		run.Decisions = append(run.Decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return &run, nil
}

// Prune removes runs created before cutoff and returns how many were removed.
// It holds the journal lock so only one process prunes at a time.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	unlock, err := acquireLock(ctx, j.path)
	if err != nil {
		return 0, err
	}
	defer unlock()

	bound := cutoff.UTC().Format(timeLayout)
	var removed int64
	err = retryOnBusy(ctx, func() error {
		tx, err := j.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prune tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM decisions WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)`, bound,
		); err != nil {
			return fmt.Errorf("prune decisions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, bound)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("prune rows affected: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func scanDecision(scanner interface{ Scan(dest ...any) error }) (Decision, error) {
	var (
		d          Decision
		attribute  string
		value      string
		confidence string
		source     sql.NullString
		augmenter  sql.NullString
		defaulted  int
		policy     string
		trace      sql.NullString
	)
	if err := scanner.Scan(&attribute, &value, &confidence, &source, &augmenter, &defaulted, &policy, &trace); err != nil {
		return Decision{}, fmt.Errorf("scan decision: %w", err)
	}
	d.Attribute = aggregation.AttributeID(attribute)
	d.Value = json.RawMessage(value)
	if err := d.Confidence.UnmarshalText([]byte(confidence)); err != nil {
		return Decision{}, fmt.Errorf("decision %s: %w", attribute, err)
	}
	if err := d.Policy.UnmarshalText([]byte(policy)); err != nil {
		return Decision{}, fmt.Errorf("decision %s: %w", attribute, err)
	}
	d.Source = evidence.Kind(source.String)
	d.Augmenter = augmenter.String
	d.Defaulted = defaulted != 0
	if trace.Valid && trace.String != "" {
		if err := json.Unmarshal([]byte(trace.String), &d.Trace); err != nil {
			return Decision{}, fmt.Errorf("decision %s trace: %w", attribute, err)
		}
	}
	return d, nil
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", raw, err)
	}
	return t, nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
