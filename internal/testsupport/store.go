package testsupport

import (
	"context"
	"testing"

	"pulse/internal/config"
	"pulse/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedDemo loads the demo fixtures into the provided store.
func SeedDemo(t testing.TB, st *store.Store) {
	t.Helper()

	if _, _, err := st.SeedDemo(context.Background()); err != nil {
		t.Fatalf("store.SeedDemo: %v", err)
	}
}
