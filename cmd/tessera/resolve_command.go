package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"tessera/internal/aggregation"
	"tessera/internal/attributes"
	"tessera/internal/config"
	"tessera/internal/evidence"
	"tessera/internal/media/ffprobe"
	"tessera/internal/resolver"
	"tessera/internal/services"
)

type resolveOutput struct {
	RunID  string             `json:"run_id,omitempty"`
	Path   string             `json:"path"`
	Movie  *attributes.Movie  `json:"movie,omitempty"`
	Record aggregation.Record `json:"record"`
	Error  string             `json:"error,omitempty"`
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var probePath string
	var jsonOutput bool
	var showTrace bool
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "resolve <bundle-file>...",
		Short: "Resolve attributes for one or more bundle documents",
		Long: "Resolve loads evidence bundle documents (.json, .yaml, .toml), runs the\n" +
			"attribute pipeline over each, and prints the resolved values with the\n" +
			"confidence and source that decided them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if probePath != "" && len(args) > 1 {
				return services.Wrap(services.ErrValidation, "resolve", "flags", "--probe applies to a single bundle document", nil)
			}

			units, err := loadUnits(args, probePath)
			if err != nil {
				return err
			}

			pipeline, err := attributes.Build(cfg.Aggregation())
			if err != nil {
				return err
			}
			opts, closeJournal, err := resolverOptions(cmd, ctx, cfg, noJournal)
			if err != nil {
				return err
			}
			defer closeJournal()

			logger := ctx.loggerFor(cfg)
			defer ctx.closeLogger()
			r, err := resolver.New(pipeline, logger, opts...)
			if err != nil {
				return err
			}
			results := r.ResolveBatch(cmd.Context(), units)

			var firstErr error
			outputs := make([]resolveOutput, 0, len(results))
			for _, res := range results {
				out := resolveOutput{RunID: res.RunID, Path: res.Path, Record: res.Record}
				if res.Err != nil {
					out.Error = res.Err.Error()
					if firstErr == nil {
						firstErr = res.Err
					}
				} else {
					movie := res.Movie
					out.Movie = &movie
				}
				outputs = append(outputs, out)
			}

			if jsonOutput {
				if err := writeJSON(cmd, outputs); err != nil {
					return err
				}
				return firstErr
			}
			colorize := shouldColorize(cmd.OutOrStdout())
			for i, res := range results {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				renderResult(cmd.OutOrStdout(), res, showTrace, colorize)
			}
			return firstErr
		},
	}

	cmd.Flags().StringVar(&probePath, "probe", "", "ffprobe JSON dump to use as the media info source")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "Show every candidate considered")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not record runs in the journal")
	return cmd
}

func resolverOptions(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, noJournal bool) ([]resolver.Option, func(), error) {
	opts := []resolver.Option{resolver.WithBatchWorkers(cfg.Pipeline.Workers)}
	if noJournal || !cfg.Journal.Enabled {
		return opts, func() {}, nil
	}
	j, err := ctx.openJournal(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return append(opts, resolver.WithJournal(j)), func() { _ = j.Close() }, nil
}

func loadUnits(paths []string, probePath string) ([]resolver.ImportUnit, error) {
	units := make([]resolver.ImportUnit, 0, len(paths))
	for _, path := range paths {
		doc, err := evidence.LoadFile(path)
		if err != nil {
			return nil, documentError(path, err)
		}
		if probePath != "" {
			probe, err := ffprobe.LoadFile(probePath)
			if err != nil {
				return nil, documentError(probePath, err)
			}
			info := probe.MediaInfo()
			doc.MediaInfo = &info
		}
		units = append(units, resolver.ImportUnit{Path: doc.Path, Bundle: doc.Bundle()})
	}
	return units, nil
}

func documentError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "resolve", "load", path, err)
	}
	return services.Wrap(services.ErrValidation, "resolve", "load", path, err)
}

func renderResult(w io.Writer, res resolver.Result, showTrace, colorize bool) {
	fmt.Fprintf(w, "%s\n", res.Path)
	if res.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", res.RunID)
	}
	if res.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", res.Err)
		return
	}

	rows := make([][]string, 0, res.Record.Len())
	for _, r := range res.Record.Attributes() {
		rows = append(rows, []string{
			string(r.Attribute),
			displayValue(r.Value),
			confidenceLabel(r.Confidence, colorize),
			dash(string(r.Source)),
			dash(r.Augmenter),
			r.Policy.String(),
		})
	}
	fmt.Fprintln(w, renderTable(tableSpec{
		headers: []string{"Attribute", "Value", "Confidence", "Source", "Augmenter", "Policy"},
	}, rows))

	if showTrace {
		fmt.Fprintln(w, renderTrace(res.Record.Attributes(), colorize))
	}
}

func renderTrace(resolved []aggregation.Resolved, colorize bool) string {
	rows := make([][]string, 0)
	for _, r := range resolved {
		if len(r.Trace) == 0 {
			rows = append(rows, []string{string(r.Attribute), "-", confidenceLabel(aggregation.ConfidenceDefault, colorize), displayValue(r.Value), yesNo(r.Defaulted)})
			continue
		}
		for _, entry := range r.Trace {
			rows = append(rows, []string{
				string(r.Attribute),
				entry.Augmenter,
				confidenceLabel(entry.Confidence, colorize),
				displayValue(entry.Value),
				yesNo(entry.Selected),
			})
		}
	}
	return renderTable(tableSpec{
		title:   "Candidates",
		headers: []string{"Attribute", "Augmenter", "Confidence", "Value", "Selected"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignCenter},
	}, rows)
}

func joinKinds(kinds []evidence.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
