package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tessera/internal/aggregation"
	"tessera/internal/attributes"
	"tessera/internal/evidence"
)

// describedResolver is satisfied by every *aggregation.Aggregator.
type describedResolver interface {
	Sources() []evidence.Kind
	Settings() aggregation.Settings
	HasDefault() bool
}

type attributeView struct {
	ID          aggregation.AttributeID `json:"id"`
	Description string                  `json:"description"`
	List        bool                    `json:"list"`
	Policy      string                  `json:"policy"`
	TieBreak    string                  `json:"tie_break"`
	Sources     []evidence.Kind         `json:"sources"`
	Default     any                     `json:"default,omitempty"`
}

func newAttributesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "attributes",
		Short: "List the attributes the pipeline resolves",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pipeline, err := attributes.Build(cfg.Aggregation())
			if err != nil {
				return err
			}

			views := make([]attributeView, 0, len(pipeline.Attributes()))
			for _, r := range pipeline.Resolvers() {
				def, ok := attributes.Lookup(r.Attribute())
				if !ok {
					continue
				}
				view := attributeView{ID: def.ID, Description: def.Description, List: def.List}
				if d, ok := r.(describedResolver); ok {
					settings := d.Settings()
					view.Policy = settings.Policy.String()
					view.TieBreak = settings.TieBreak.String()
					view.Sources = d.Sources()
					if d.HasDefault() {
						view.Default = def.Default
					}
				}
				views = append(views, view)
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				kind := "scalar"
				if v.List {
					kind = "list"
				}
				fallback := "none"
				if v.Default != nil {
					fallback = displayValue(v.Default)
				}
				rows = append(rows, []string{string(v.ID), kind, v.Policy, v.TieBreak, joinKinds(v.Sources), fallback})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				headers: []string{"Attribute", "Type", "Policy", "Tie Break", "Sources", "Default"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
