package attributes

import (
	"fmt"
	"slices"
	"sort"

	"tessera/internal/aggregation"
	"tessera/internal/config"
	"tessera/internal/evidence"
	"tessera/internal/services"
)

// Build assembles the attribute pipeline from configuration. Attributes
// without a [attributes.<id>] table use their catalog defaults. Every
// problem is reported as a configuration error naming the attribute.
func Build(cfg config.Aggregation) (*aggregation.Pipeline, error) {
	if err := rejectUnknown(cfg.Attributes); err != nil {
		return nil, err
	}

	resolvers := make([]aggregation.AttributeResolver, 0, len(catalog))
	for _, def := range catalog {
		p, err := planFor(def, cfg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "attributes", string(def.ID), "", err)
		}
		resolver, err := def.build(def.ID, p)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "attributes", string(def.ID), "", err)
		}
		resolvers = append(resolvers, resolver)
	}

	pipeline, err := aggregation.NewPipeline(aggregation.PipelineOptions{Workers: cfg.Workers}, resolvers...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "attributes", "pipeline", "", err)
	}
	return pipeline, nil
}

func rejectUnknown(attrs map[string]config.Attribute) error {
	var unknown []string
	for id := range attrs {
		if _, ok := Lookup(aggregation.AttributeID(id)); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return services.Wrap(services.ErrConfiguration, "attributes", "", fmt.Sprintf("unknown attribute %q", unknown[0]), nil)
}

func planFor(def Definition, cfg config.Aggregation) (plan, error) {
	p := plan{
		settings: aggregation.Settings{
			Policy:   def.Policy,
			TieBreak: aggregation.TieBreakFirstRegistered,
			Parallel: cfg.ParallelAugmenters,
		},
		sources:     def.Sources(),
		withDefault: true,
	}

	override, ok := cfg.Attributes[string(def.ID)]
	if !ok {
		return p, nil
	}
	if override.Sources != nil {
		p.sources = make([]evidence.Kind, 0, len(override.Sources))
		for _, source := range override.Sources {
			kind := evidence.Kind(source)
			if slices.Contains(p.sources, kind) {
				return plan{}, fmt.Errorf("sources: %q listed twice", source)
			}
			p.sources = append(p.sources, kind)
		}
	}
	if override.Policy != "" {
		policy, err := aggregation.ParsePolicy(override.Policy)
		if err != nil {
			return plan{}, err
		}
		if policy == aggregation.PolicyConfidenceUnion && !def.List {
			return plan{}, fmt.Errorf("policy %s requires a list attribute", policy)
		}
		p.settings.Policy = policy
	}
	if override.TieBreak != "" {
		tieBreak, err := aggregation.ParseTieBreak(override.TieBreak)
		if err != nil {
			return plan{}, err
		}
		p.settings.TieBreak = tieBreak
	}
	p.withDefault = override.DefaultEnabled()
	return p, nil
}
