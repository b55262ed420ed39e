package testsupport

import (
	"context"
	"testing"

	"tessera/internal/config"
	"tessera/internal/journal"
)

// MustOpenJournal opens the journal named by cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Journal {
	t.Helper()

	j, err := journal.Open(context.Background(), cfg.Paths.JournalPath)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}
