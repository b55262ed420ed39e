package aggregation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tessera/internal/aggregation"
	"tessera/internal/evidence"
)

const testAttr aggregation.AttributeID = "edition"

func TestResolveDefaultWhenNoEvidence(t *testing.T) {
	agg := newAggregator[string](t, testAttr, aggregation.Settings{},
		silent[string]("filename_edition", evidence.KindFilename),
		silent[string]("folder_edition", evidence.KindFolder),
	)
	agg = agg.WithDefault("")

	res, err := agg.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !res.Defaulted || res.Confidence != aggregation.ConfidenceDefault {
		t.Fatalf("expected default resolution, got %+v", res)
	}
	if res.Value != "" {
		t.Fatalf("unexpected default value %v", res.Value)
	}
	if len(res.Trace) != 0 {
		t.Fatalf("expected empty trace, got %+v", res.Trace)
	}
}

func TestResolveWithoutDefaultFails(t *testing.T) {
	agg := newAggregator[string](t, testAttr, aggregation.Settings{},
		silent[string]("folder_edition", evidence.KindFolder),
	)
	_, err := agg.Resolve(evidence.NewBundle())
	if !errors.Is(err, aggregation.ErrUnresolvedAttribute) {
		t.Fatalf("expected ErrUnresolvedAttribute, got %v", err)
	}
	var attrErr *aggregation.AttributeError
	if !errors.As(err, &attrErr) || attrErr.Attribute != testAttr {
		t.Fatalf("expected error naming %q, got %v", testAttr, err)
	}
}

func TestBestConfidenceIgnoresRegistrationOrder(t *testing.T) {
	low := fixed("folder_edition", evidence.KindFolder, "Extended Edition")
	high := fixed("release_edition", evidence.KindRelease, "Director's Cut")

	orders := map[string][]aggregation.Augmenter[string]{
		"high first": {high, low},
		"low first":  {low, high},
	}
	for name, augs := range orders {
		t.Run(name, func(t *testing.T) {
			agg := newAggregator(t, testAttr, aggregation.Settings{}, augs...)
			res, err := agg.Resolve(evidence.NewBundle())
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if res.Value != "Director's Cut" || res.Confidence != aggregation.ConfidenceExternalRelease {
				t.Fatalf("unexpected winner %+v", res)
			}
			if res.Augmenter != "release_edition" || res.Source != evidence.KindRelease {
				t.Fatalf("unexpected winner identity %+v", res)
			}
		})
	}
}

func TestBestConfidenceTieBreak(t *testing.T) {
	first := fixed("folder_a", evidence.KindFolder, "first")
	second := fixed("folder_b", evidence.KindFolder, "second")

	agg := newAggregator(t, testAttr, aggregation.Settings{}, first, second)
	res, err := agg.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Value != "first" {
		t.Fatalf("expected first registered to win tie, got %v", res.Value)
	}
	if !res.Trace[0].Selected || res.Trace[1].Selected {
		t.Fatalf("unexpected trace selection %+v", res.Trace)
	}

	agg = newAggregator(t, testAttr,
		aggregation.Settings{TieBreak: aggregation.TieBreakLastRegistered}, first, second)
	res, err = agg.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Value != "second" {
		t.Fatalf("expected last registered to win tie, got %v", res.Value)
	}
}

// The highest tier leads the union with its own order intact; lower tiers
// only append values not already present.
func TestConfidenceUnion(t *testing.T) {
	folder := fixed("folder_languages", evidence.KindFolder, []string{"en"})
	release := fixed("release_languages", evidence.KindRelease, []string{"en", "fr"})

	for _, augs := range [][]aggregation.Augmenter[[]string]{{folder, release}, {release, folder}} {
		agg := newListAggregator(t, "languages",
			aggregation.Settings{Policy: aggregation.PolicyConfidenceUnion}, augs...)
		res, err := agg.Resolve(evidence.NewBundle())
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if diff := cmp.Diff([]string{"en", "fr"}, res.Value); diff != "" {
			t.Fatalf("unexpected union (-want +got):\n%s", diff)
		}
		if res.Confidence != aggregation.ConfidenceExternalRelease || res.Augmenter != "release_languages" {
			t.Fatalf("expected release to lead the union, got %+v", res)
		}
		for _, entry := range res.Trace {
			switch entry.Augmenter {
			case "release_languages":
				if !entry.Selected {
					t.Fatalf("expected release candidate to contribute: %+v", res.Trace)
				}
			case "folder_languages":
				if entry.Selected {
					t.Fatalf("folder candidate added nothing new but was marked selected: %+v", res.Trace)
				}
			}
		}
	}
}

func TestConfidenceUnionOrdersByTierThenRegistration(t *testing.T) {
	agg := newListAggregator(t, "subtitle_languages",
		aggregation.Settings{Policy: aggregation.PolicyConfidenceUnion},
		fixed("filename_subs", evidence.KindFilename, []string{"de"}),
		fixed("folder_subs_a", evidence.KindFolder, []string{"es"}),
		fixed("folder_subs_b", evidence.KindFolder, []string{"it", "es"}),
		fixed("media_subs", evidence.KindMediaInfo, []string{"en", "de"}),
	)
	res, err := agg.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"en", "de", "es", "it"}, res.Value); diff != "" {
		t.Fatalf("unexpected union (-want +got):\n%s", diff)
	}
}

func TestUnionRequiresListAggregator(t *testing.T) {
	_, err := aggregation.NewAggregator[string](testAttr, aggregation.Settings{Policy: aggregation.PolicyConfidenceUnion})
	if !errors.Is(err, aggregation.ErrInvalidRegistration) {
		t.Fatalf("expected ErrInvalidRegistration, got %v", err)
	}
}

func TestRegistrationRejectsBadAugmenters(t *testing.T) {
	tests := []struct {
		name string
		augs []aggregation.Augmenter[string]
	}{
		{"nil augmenter", []aggregation.Augmenter[string]{nil}},
		{"unnamed", []aggregation.Augmenter[string]{silent[string]("", evidence.KindFolder)}},
		{"duplicate", []aggregation.Augmenter[string]{
			silent[string]("folder_edition", evidence.KindFolder),
			silent[string]("folder_edition", evidence.KindFolder),
		}},
		{"unknown source", []aggregation.Augmenter[string]{silent[string]("nfo_edition", "nfo")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := aggregation.NewAggregator(testAttr, aggregation.Settings{}, tt.augs...)
			if !errors.Is(err, aggregation.ErrInvalidRegistration) {
				t.Fatalf("expected ErrInvalidRegistration, got %v", err)
			}
		})
	}
}

func TestForgedConfidenceRejected(t *testing.T) {
	forged := aggregation.AugmentFunc[string]{
		ID:   "folder_edition",
		Kind: evidence.KindFolder,
		Fn: func(aggregation.Augmenter[string], evidence.Bundle) (*aggregation.Candidate[string], error) {
			return &aggregation.Candidate[string]{
				Value:      "IMAX",
				Confidence: aggregation.ConfidenceExternalRelease,
				Source:     evidence.KindFolder,
			}, nil
		},
	}
	agg := newAggregator[string](t, testAttr, aggregation.Settings{}, forged)
	_, err := agg.Resolve(evidence.NewBundle())
	if !errors.Is(err, aggregation.ErrConfidenceMismatch) {
		t.Fatalf("expected ErrConfidenceMismatch, got %v", err)
	}
}

func TestMalformedSourceAbortsResolution(t *testing.T) {
	agg := newAggregator(t, testAttr, aggregation.Settings{},
		fixed("filename_edition", evidence.KindFilename, "IMAX"),
		failing[string]("folder_edition", evidence.KindFolder),
	)
	agg = agg.WithDefault("")
	_, err := agg.Resolve(evidence.NewBundle())
	if !errors.Is(err, aggregation.ErrMalformedBundle) {
		t.Fatalf("expected ErrMalformedBundle, got %v", err)
	}
	var attrErr *aggregation.AttributeError
	if !errors.As(err, &attrErr) || attrErr.Augmenter != "folder_edition" {
		t.Fatalf("expected error naming folder_edition, got %v", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	augs := []aggregation.Augmenter[[]string]{
		fixed("filename_languages", evidence.KindFilename, []string{"de"}),
		fixed("folder_languages", evidence.KindFolder, []string{"en"}),
		silent[[]string]("media_languages", evidence.KindMediaInfo),
		fixed("release_languages", evidence.KindRelease, []string{"fr", "en"}),
	}
	for _, policy := range []aggregation.Policy{aggregation.PolicyBestConfidence, aggregation.PolicyConfidenceUnion} {
		seq := newListAggregator(t, "languages", aggregation.Settings{Policy: policy}, augs...)
		par := newListAggregator(t, "languages", aggregation.Settings{Policy: policy, Parallel: true}, augs...)
		want, err := seq.Resolve(evidence.NewBundle())
		if err != nil {
			t.Fatalf("sequential Resolve returned error: %v", err)
		}
		for i := 0; i < 20; i++ {
			got, err := par.Resolve(evidence.NewBundle())
			if err != nil {
				t.Fatalf("parallel Resolve returned error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s: parallel result differs (-want +got):\n%s", policy, diff)
			}
		}
	}
}

func TestParallelReportsEarliestFailure(t *testing.T) {
	agg := newAggregator(t, testAttr, aggregation.Settings{Parallel: true},
		fixed("filename_edition", evidence.KindFilename, "IMAX"),
		failing[string]("folder_edition", evidence.KindFolder),
		failing[string]("release_edition", evidence.KindRelease),
	)
	for i := 0; i < 20; i++ {
		_, err := agg.Resolve(evidence.NewBundle())
		var attrErr *aggregation.AttributeError
		if !errors.As(err, &attrErr) || attrErr.Augmenter != "folder_edition" {
			t.Fatalf("expected earliest failure folder_edition, got %v", err)
		}
	}
}

func TestListValuesAreFreshPerResolve(t *testing.T) {
	fallback := []string{"und"}
	agg := newListAggregator(t, "languages", aggregation.Settings{},
		silent[[]string]("folder_languages", evidence.KindFolder),
	).WithDefault(fallback)
	fallback[0] = "xx"

	first, err := agg.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	first.Value.([]string)[0] = "fr"

	second, err := agg.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"und"}, second.Value); diff != "" {
		t.Fatalf("default leaked between resolutions (-want +got):\n%s", diff)
	}

	winner := newListAggregator(t, "languages", aggregation.Settings{},
		fixed("release_languages", evidence.KindRelease, []string{"en"}),
	)
	res, err := winner.Resolve(evidence.NewBundle())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	res.Value.([]string)[0] = "fr"
	if diff := cmp.Diff([]string{"en"}, res.Trace[0].Value); diff != "" {
		t.Fatalf("winning value shares storage with its trace (-want +got):\n%s", diff)
	}
}
