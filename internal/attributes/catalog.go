package attributes

import (
	"fmt"

	"tessera/internal/aggregation"
	"tessera/internal/augmenters"
	"tessera/internal/evidence"
	"tessera/internal/language"
	"tessera/internal/quality"
)

// Attribute identifiers, in pipeline registration order.
const (
	Languages         = augmenters.Languages
	Edition           = augmenters.Edition
	QualitySource     = augmenters.QualitySource
	Resolution        = augmenters.Resolution
	ReleaseGroup      = augmenters.ReleaseGroup
	VideoCodec        = augmenters.VideoCodec
	SubtitleLanguages = augmenters.SubtitleLanguages
)

// plan is the effective registration for one attribute after configuration
// has been applied.
type plan struct {
	settings    aggregation.Settings
	sources     []evidence.Kind
	withDefault bool
}

type buildFunc func(id aggregation.AttributeID, p plan) (aggregation.AttributeResolver, error)

// Definition describes one attribute the pipeline can resolve.
type Definition struct {
	ID          aggregation.AttributeID
	Description string
	// List attributes hold a slice and may use the union policy.
	List   bool
	Policy aggregation.Policy
	// Default is the value reported, tagged ConfidenceDefault, when no source
	// has an opinion.
	Default any

	build buildFunc
}

// Sources lists the evidence kinds that can speak to the attribute, in their
// default registration order.
func (d Definition) Sources() []evidence.Kind {
	return augmenters.Sources(d.ID)
}

var catalog = []Definition{
	{
		ID:          Languages,
		Description: "spoken languages of the main audio",
		List:        true,
		Policy:      aggregation.PolicyBestConfidence,
		Default:     []language.Code{language.Unknown},
		build:       listAttribute(augmenters.ForLanguages, []language.Code{language.Unknown}),
	},
	{
		ID:          Edition,
		Description: "edition label such as Director's Cut",
		Policy:      aggregation.PolicyBestConfidence,
		Default:     "",
		build:       scalarAttribute(augmenters.ForEdition, ""),
	},
	{
		ID:          QualitySource,
		Description: "media source such as bluray or webdl",
		Policy:      aggregation.PolicyBestConfidence,
		Default:     quality.SourceUnknown,
		build:       scalarAttribute(augmenters.ForQualitySource, quality.SourceUnknown),
	},
	{
		ID:          Resolution,
		Description: "vertical video resolution",
		Policy:      aggregation.PolicyBestConfidence,
		Default:     quality.ResolutionUnknown,
		build:       scalarAttribute(augmenters.ForResolution, quality.ResolutionUnknown),
	},
	{
		ID:          ReleaseGroup,
		Description: "release group that produced the file",
		Policy:      aggregation.PolicyBestConfidence,
		Default:     "",
		build:       scalarAttribute(augmenters.ForReleaseGroup, ""),
	},
	{
		ID:          VideoCodec,
		Description: "canonical video codec",
		Policy:      aggregation.PolicyBestConfidence,
		Default:     quality.CodecUnknown,
		build:       scalarAttribute(augmenters.ForVideoCodec, quality.CodecUnknown),
	},
	{
		ID:          SubtitleLanguages,
		Description: "subtitle languages available with the file",
		List:        true,
		Policy:      aggregation.PolicyConfidenceUnion,
		Default:     []language.Code{},
		build:       listAttribute(augmenters.ForSubtitleLanguages, []language.Code{}),
	},
}

// Catalog lists every attribute definition in registration order.
func Catalog() []Definition {
	return append([]Definition(nil), catalog...)
}

// Lookup returns the definition for id.
func Lookup(id aggregation.AttributeID) (Definition, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

func scalarAttribute[T any](ctor func(evidence.Kind) (aggregation.Augmenter[T], error), fallback T) buildFunc {
	return func(id aggregation.AttributeID, p plan) (aggregation.AttributeResolver, error) {
		augs, err := instantiate(p.sources, ctor)
		if err != nil {
			return nil, err
		}
		agg, err := aggregation.NewAggregator(id, p.settings, augs...)
		if err != nil {
			return nil, err
		}
		if p.withDefault {
			agg = agg.WithDefault(fallback)
		}
		return agg, nil
	}
}

func listAttribute[E comparable](ctor func(evidence.Kind) (aggregation.Augmenter[[]E], error), fallback []E) buildFunc {
	return func(id aggregation.AttributeID, p plan) (aggregation.AttributeResolver, error) {
		augs, err := instantiate(p.sources, ctor)
		if err != nil {
			return nil, err
		}
		agg, err := aggregation.NewListAggregator(id, p.settings, augs...)
		if err != nil {
			return nil, err
		}
		if p.withDefault {
			agg = agg.WithDefault(fallback)
		}
		return agg, nil
	}
}

func instantiate[T any](kinds []evidence.Kind, ctor func(evidence.Kind) (aggregation.Augmenter[T], error)) ([]aggregation.Augmenter[T], error) {
	augs := make([]aggregation.Augmenter[T], 0, len(kinds))
	for _, kind := range kinds {
		aug, err := ctor(kind)
		if err != nil {
			return nil, fmt.Errorf("sources: %w", err)
		}
		augs = append(augs, aug)
	}
	return augs, nil
}
