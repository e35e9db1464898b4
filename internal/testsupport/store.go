package testsupport

import (
	"context"
	"testing"

	"github.com/amirgolp/flashcard/internal/config"
	"github.com/amirgolp/flashcard/internal/state"
)

// MustOpenState opens a state.Store for tests and registers cleanup.
func MustOpenState(t testing.TB, cfg *config.Config) *state.Store {
	t.Helper()

	store, err := state.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
