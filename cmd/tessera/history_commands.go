package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tessera/internal/config"
	"tessera/internal/journal"
	"tessera/internal/services"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the resolution journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))

	return historyCmd
}

func withJournal(cmd *cobra.Command, ctx *commandContext, fn func(*config.Config, *journal.Journal) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return services.Wrap(services.ErrConfiguration, "history", "open", "journal is disabled in configuration", nil)
	}
	j, err := ctx.openJournal(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer j.Close()
	return fn(cfg, j)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent resolution runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, ctx, func(_ *config.Config, j *journal.Journal) error {
				runs, err := j.List(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.CreatedAt.In(time.Local).Format(historyTimeLayout),
						strconv.Itoa(run.Attributes),
						strconv.Itoa(run.Defaulted),
						run.Path,
					})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					headers: []string{"Run", "Created", "Attributes", "Defaulted", "Path"},
					aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the decisions recorded for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := strings.TrimSpace(args[0])
			return withJournal(cmd, ctx, func(_ *config.Config, j *journal.Journal) error {
				run, err := j.Get(cmd.Context(), runID)
				if err != nil {
					return fmt.Errorf("load run: %w", err)
				}
				if run == nil {
					return services.Wrap(services.ErrNotFound, "history", "show", "run "+runID, nil)
				}
				if jsonOutput {
					return writeJSON(cmd, run)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "%s\n", run.Path)
				fmt.Fprintf(out, "Run: %s (%s)\n", run.ID, run.CreatedAt.In(time.Local).Format(historyTimeLayout))
				rows := make([][]string, 0, len(run.Decisions))
				for _, d := range run.Decisions {
					rows = append(rows, []string{
						string(d.Attribute),
						string(d.Value),
						confidenceLabel(d.Confidence, colorize),
						dash(string(d.Source)),
						dash(d.Augmenter),
						strconv.Itoa(len(d.Trace)),
					})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					headers: []string{"Attribute", "Value", "Confidence", "Source", "Augmenter", "Candidates"},
					aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd, ctx, func(cfg *config.Config, j *journal.Journal) error {
				window := days
				if !cmd.Flags().Changed("older-than") {
					window = cfg.Journal.RetentionDays
					if window <= 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "Retention disabled; nothing pruned")
						return nil
					}
				}
				if window <= 0 {
					return services.Wrap(services.ErrValidation, "history", "prune", "retention window must be positive", nil)
				}
				cutoff := time.Now().Add(-time.Duration(window) * 24 * time.Hour)
				removed, err := j.Prune(cmd.Context(), cutoff)
				if err != nil {
					return fmt.Errorf("prune runs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d run(s) older than %d day(s)\n", removed, window)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "older-than", 0, "Age in days; defaults to journal.retention_days")
	return cmd
}
