package augmenters

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tessera/internal/aggregation"
	"tessera/internal/evidence"
	"tessera/internal/language"
	"tessera/internal/quality"
)

// poisoned carries malformed records for every source except keep.
func poisoned(keep evidence.Kind, opts ...evidence.Option) evidence.Bundle {
	bad := evidence.ParsedInfo{Year: 1200}
	all := []evidence.Option{}
	if keep != evidence.KindFilename {
		all = append(all, evidence.WithFilename(bad))
	}
	if keep != evidence.KindFolder {
		all = append(all, evidence.WithFolder(bad))
	}
	if keep != evidence.KindMediaInfo {
		all = append(all, evidence.WithMediaInfo(evidence.MediaInfo{Width: 1920}))
	}
	if keep != evidence.KindRelease {
		all = append(all, evidence.WithRelease(evidence.ReleaseInfo{}))
	}
	return evidence.NewBundle(append(all, opts...)...)
}

func TestFolderLanguages(t *testing.T) {
	aug, err := ForLanguages(evidence.KindFolder)
	if err != nil {
		t.Fatalf("ForLanguages: %v", err)
	}
	if aug.Name() != "folder_languages" {
		t.Fatalf("unexpected name %q", aug.Name())
	}

	tests := []struct {
		name   string
		bundle evidence.Bundle
		want   []language.Code
	}{
		{
			name:   "no folder record",
			bundle: evidence.NewBundle(),
		},
		{
			name:   "folder without languages",
			bundle: evidence.NewBundle(evidence.WithFolder(evidence.ParsedInfo{Title: "Heat"})),
		},
		{
			name:   "only undetermined",
			bundle: evidence.NewBundle(evidence.WithFolder(evidence.ParsedInfo{Languages: []language.Code{"und"}})),
		},
		{
			name: "normalizes names and drops unknown",
			bundle: evidence.NewBundle(evidence.WithFolder(evidence.ParsedInfo{
				Languages: []language.Code{"English", "und", "fre", "en"},
			})),
			want: []language.Code{"en", "fr"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aug.Augment(tt.bundle)
			if err != nil {
				t.Fatalf("Augment returned error: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected no opinion, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a candidate")
			}
			if diff := cmp.Diff(tt.want, got.Value); diff != "" {
				t.Fatalf("languages mismatch (-want +got):\n%s", diff)
			}
			if got.Confidence != aggregation.ConfidenceFoldername || got.Source != evidence.KindFolder {
				t.Fatalf("unexpected tagging %s/%s", got.Source, got.Confidence)
			}
		})
	}
}

func TestAugmentersReadOnlyTheirSource(t *testing.T) {
	parsed := evidence.ParsedInfo{Languages: []language.Code{"de"}, Resolution: quality.Resolution720p}
	cases := []struct {
		kind evidence.Kind
		opt  evidence.Option
	}{
		{evidence.KindFilename, evidence.WithFilename(parsed)},
		{evidence.KindFolder, evidence.WithFolder(parsed)},
		{evidence.KindMediaInfo, evidence.WithMediaInfo(evidence.MediaInfo{
			Width: 1280, Height: 720, AudioLanguages: []language.Code{"de"},
		})},
		{evidence.KindRelease, evidence.WithRelease(evidence.ReleaseInfo{
			Title: "Movie.2001.720p", Languages: []language.Code{"de"}, Resolution: quality.Resolution720p,
		})},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			bundle := poisoned(tc.kind, tc.opt)

			langs, err := ForLanguages(tc.kind)
			if err != nil {
				t.Fatalf("ForLanguages: %v", err)
			}
			got, err := langs.Augment(bundle)
			if err != nil {
				t.Fatalf("languages read a foreign source: %v", err)
			}
			if got == nil || !cmp.Equal(got.Value, []language.Code{"de"}) {
				t.Fatalf("unexpected languages candidate %+v", got)
			}

			res, err := ForResolution(tc.kind)
			if err != nil {
				t.Fatalf("ForResolution: %v", err)
			}
			gotRes, err := res.Augment(bundle)
			if err != nil {
				t.Fatalf("resolution read a foreign source: %v", err)
			}
			if gotRes == nil || gotRes.Value != quality.Resolution720p {
				t.Fatalf("unexpected resolution candidate %+v", gotRes)
			}
		})
	}
}

func TestMalformedOwnSource(t *testing.T) {
	for _, kind := range []evidence.Kind{evidence.KindFilename, evidence.KindFolder, evidence.KindMediaInfo, evidence.KindRelease} {
		t.Run(string(kind), func(t *testing.T) {
			aug, err := ForLanguages(kind)
			if err != nil {
				t.Fatalf("ForLanguages: %v", err)
			}
			_, err = aug.Augment(poisoned(""))
			if !errors.Is(err, aggregation.ErrMalformedBundle) {
				t.Fatalf("expected ErrMalformedBundle, got %v", err)
			}
			if !errors.Is(err, evidence.ErrInvalidRecord) {
				t.Fatalf("expected the record error to be wrapped, got %v", err)
			}
		})
	}
}

func TestUnsupportedSource(t *testing.T) {
	if _, err := ForEdition(evidence.KindMediaInfo); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
	if _, err := ForSubtitleLanguages(evidence.KindRelease); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
	if _, err := ForLanguages("nfo"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
}

func TestSources(t *testing.T) {
	want := map[aggregation.AttributeID][]evidence.Kind{
		Languages:         {evidence.KindFilename, evidence.KindFolder, evidence.KindMediaInfo, evidence.KindRelease},
		Edition:           {evidence.KindFilename, evidence.KindFolder, evidence.KindRelease},
		QualitySource:     {evidence.KindFilename, evidence.KindFolder, evidence.KindRelease},
		Resolution:        {evidence.KindFilename, evidence.KindFolder, evidence.KindMediaInfo, evidence.KindRelease},
		ReleaseGroup:      {evidence.KindFilename, evidence.KindFolder, evidence.KindRelease},
		VideoCodec:        {evidence.KindFilename, evidence.KindFolder, evidence.KindMediaInfo, evidence.KindRelease},
		SubtitleLanguages: {evidence.KindFilename, evidence.KindFolder, evidence.KindMediaInfo},
	}
	for id, kinds := range want {
		if diff := cmp.Diff(kinds, Sources(id)); diff != "" {
			t.Fatalf("%s sources (-want +got):\n%s", id, diff)
		}
	}
	if Sources("runtime") != nil {
		t.Fatal("unknown attribute should have no sources")
	}
}

func TestReleaseEditionFallsBackToTitle(t *testing.T) {
	aug, err := ForEdition(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForEdition: %v", err)
	}
	bundle := evidence.NewBundle(evidence.WithRelease(evidence.ReleaseInfo{
		Title: "Blade.Runner.1982.Final.Cut.1080p.BluRay.x264-GRP",
	}))
	got, err := aug.Augment(bundle)
	if err != nil {
		t.Fatalf("Augment returned error: %v", err)
	}
	if got == nil || got.Value != "Final Cut" {
		t.Fatalf("expected Final Cut, got %+v", got)
	}
}

// Words inside the movie title are not edition tags.
func TestReleaseEditionIgnoresMovieTitle(t *testing.T) {
	aug, err := ForEdition(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForEdition: %v", err)
	}
	for _, title := range []string{
		"Uncut.Gems.2019.1080p.BluRay.x264-GRP",
		"The.Director.2023.1080p.WEB-DL.x264-GRP",
		"Final.Cut.2022.1080p.BluRay.x264-GRP",
	} {
		t.Run(title, func(t *testing.T) {
			got, err := aug.Augment(evidence.NewBundle(evidence.WithRelease(evidence.ReleaseInfo{Title: title})))
			if err != nil {
				t.Fatalf("Augment returned error: %v", err)
			}
			if got != nil {
				t.Fatalf("expected no opinion, got %+v", got)
			}
		})
	}
}

func TestReleaseTitleFallbacks(t *testing.T) {
	bundle := evidence.NewBundle(evidence.WithRelease(evidence.ReleaseInfo{
		Title: "Heat.1995.1080p.BluRay.x264-SPARKS",
	}))

	src, err := ForQualitySource(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForQualitySource: %v", err)
	}
	gotSrc, err := src.Augment(bundle)
	if err != nil || gotSrc == nil || gotSrc.Value != quality.SourceBluray {
		t.Fatalf("source: got %+v, %v", gotSrc, err)
	}

	res, err := ForResolution(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForResolution: %v", err)
	}
	gotRes, err := res.Augment(bundle)
	if err != nil || gotRes == nil || gotRes.Value != quality.Resolution1080p {
		t.Fatalf("resolution: got %+v, %v", gotRes, err)
	}

	codec, err := ForVideoCodec(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForVideoCodec: %v", err)
	}
	gotCodec, err := codec.Augment(bundle)
	if err != nil || gotCodec == nil || gotCodec.Value != quality.CodecH264 {
		t.Fatalf("codec: got %+v, %v", gotCodec, err)
	}

	group, err := ForReleaseGroup(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForReleaseGroup: %v", err)
	}
	gotGroup, err := group.Augment(bundle)
	if err != nil || gotGroup == nil || gotGroup.Value != "SPARKS" {
		t.Fatalf("group: got %+v, %v", gotGroup, err)
	}
}

// Structured indexer fields win over what the release title says.
func TestReleaseFieldsBeatTitle(t *testing.T) {
	bundle := evidence.NewBundle(evidence.WithRelease(evidence.ReleaseInfo{
		Title:      "Heat.1995.1080p.BluRay.x264-SPARKS",
		Resolution: quality.Resolution2160p,
	}))
	res, err := ForResolution(evidence.KindRelease)
	if err != nil {
		t.Fatalf("ForResolution: %v", err)
	}
	got, err := res.Augment(bundle)
	if err != nil || got == nil || got.Value != quality.Resolution2160p {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestTagSection(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Blade.Runner.1982.Final.Cut.1080p.BluRay.x264-GRP", "Final Cut 1080p BluRay x264 GRP"},
		{"Uncut.Gems.2019.1080p.WEB-DL", "1080p WEB DL"},
	}
	for _, tt := range tests {
		if got := parseReleaseName(tt.name).tags; got != tt.want {
			t.Errorf("tags(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestVideoCodec(t *testing.T) {
	tests := []struct {
		name   string
		kind   evidence.Kind
		bundle evidence.Bundle
		want   quality.Codec
	}{
		{"filename token", evidence.KindFilename,
			evidence.NewBundle(evidence.WithFilename(evidence.ParsedInfo{VideoCodec: "x265"})), quality.CodecHEVC},
		{"ffprobe name", evidence.KindMediaInfo,
			evidence.NewBundle(evidence.WithMediaInfo(evidence.MediaInfo{VideoCodec: "h264"})), quality.CodecH264},
		{"release title dotted", evidence.KindRelease,
			evidence.NewBundle(evidence.WithRelease(evidence.ReleaseInfo{Title: "Heat.1995.1080p.WEB-DL.H.264-GRP"})), quality.CodecH264},
		{"unknown codec", evidence.KindFilename,
			evidence.NewBundle(evidence.WithFilename(evidence.ParsedInfo{VideoCodec: "theora"})), quality.CodecUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aug, err := ForVideoCodec(tt.kind)
			if err != nil {
				t.Fatalf("ForVideoCodec: %v", err)
			}
			got, err := aug.Augment(tt.bundle)
			if err != nil {
				t.Fatalf("Augment returned error: %v", err)
			}
			if tt.want == quality.CodecUnknown {
				if got != nil {
					t.Fatalf("expected no opinion, got %+v", got)
				}
				return
			}
			if got == nil || got.Value != tt.want {
				t.Fatalf("got %+v, want %s", got, tt.want)
			}
		})
	}
}

func TestCleanReleaseGroup(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"SPARKS", "SPARKS", true},
		{" -FGT ", "FGT", true},
		{"[YTS]", "YTS", true},
		{"x264", "", false},
		{"WEB", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := cleanReleaseGroup(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("cleanReleaseGroup(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
