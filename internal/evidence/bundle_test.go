package evidence_test

import (
	"errors"
	"testing"

	"tessera/internal/evidence"
	"tessera/internal/language"
	"tessera/internal/quality"
)

func TestBundleAbsentSources(t *testing.T) {
	bundle := evidence.NewBundle()
	if !bundle.Empty() {
		t.Fatal("expected empty bundle")
	}
	if _, ok := bundle.Filename(); ok {
		t.Fatal("expected no filename info")
	}
	if _, ok := bundle.Folder(); ok {
		t.Fatal("expected no folder info")
	}
	if _, ok := bundle.MediaInfo(); ok {
		t.Fatal("expected no media info")
	}
	if _, ok := bundle.Release(); ok {
		t.Fatal("expected no release info")
	}
}

func TestBundleAccessorsReturnCopies(t *testing.T) {
	folder := evidence.ParsedInfo{Languages: []language.Code{"en"}}
	bundle := evidence.NewBundle(evidence.WithFolder(folder))

	// Mutating the caller's value after construction must not leak in.
	folder.Languages[0] = "de"

	got, ok := bundle.Folder()
	if !ok {
		t.Fatal("expected folder info")
	}
	if got.Languages[0] != "en" {
		t.Fatalf("bundle shares caller slice: %v", got.Languages)
	}

	// Mutating an accessor result must not leak back either.
	got.Languages[0] = "fr"
	again, _ := bundle.Folder()
	if again.Languages[0] != "en" {
		t.Fatalf("accessor result aliases bundle state: %v", again.Languages)
	}
}

func TestBundleKinds(t *testing.T) {
	bundle := evidence.NewBundle(
		evidence.WithRelease(evidence.ReleaseInfo{Title: "Movie.2020.1080p"}),
		evidence.WithFilename(evidence.ParsedInfo{Title: "Movie"}),
	)
	kinds := bundle.Kinds()
	want := []evidence.Kind{evidence.KindFilename, evidence.KindRelease}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected kinds %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{"parsed ok", evidence.ParsedInfo{Year: 1999, Source: quality.SourceBluray}.Validate, false},
		{"parsed zero value", evidence.ParsedInfo{}.Validate, false},
		{"parsed bad year", evidence.ParsedInfo{Year: 12}.Validate, true},
		{"parsed bad source", evidence.ParsedInfo{Source: quality.Source(42)}.Validate, true},
		{"parsed bad resolution", evidence.ParsedInfo{Resolution: quality.Resolution(1440)}.Validate, true},
		{"parsed empty language", evidence.ParsedInfo{Languages: []language.Code{"en", " "}}.Validate, true},
		{"media ok", evidence.MediaInfo{Width: 1920, Height: 1080}.Validate, false},
		{"media no video", evidence.MediaInfo{}.Validate, false},
		{"media partial dims", evidence.MediaInfo{Width: 1920}.Validate, true},
		{"media negative dims", evidence.MediaInfo{Width: -1, Height: -1}.Validate, true},
		{"release ok", evidence.ReleaseInfo{Title: "Movie.2020"}.Validate, false},
		{"release missing title", evidence.ReleaseInfo{Indexer: "nzbgeek"}.Validate, true},
		{"release without indexer", evidence.ReleaseInfo{Title: "Movie.2020"}.Validate, false},
		{"release bad source", evidence.ReleaseInfo{Title: "Movie.2020", Source: quality.Source(42)}.Validate, true},
		{"release bad resolution", evidence.ReleaseInfo{Title: "Movie.2020", Resolution: quality.Resolution(1440)}.Validate, true},
		{"release empty language", evidence.ReleaseInfo{Title: "Movie.2020", Languages: []language.Code{""}}.Validate, true},
		{"release unknown language", evidence.ReleaseInfo{Title: "Movie.2020", Languages: []language.Code{"klingon"}}.Validate, false},
		{"media empty subtitle", evidence.MediaInfo{SubtitleLanguages: []language.Code{"en", ""}}.Validate, true},
		{"parsed empty subtitle", evidence.ParsedInfo{SubtitleLanguages: []language.Code{" "}}.Validate, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr {
				if !errors.Is(err, evidence.ErrInvalidRecord) {
					t.Fatalf("expected ErrInvalidRecord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
