package testsupport

import (
	"context"
	"testing"

	"vttscribe/internal/config"
	"vttscribe/internal/transcriptcache"
)

// MustOpenCache opens the transcript cache configured in cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcriptcache.Store {
	t.Helper()

	store, err := transcriptcache.Open(context.Background(), cfg.Cache.Path)
	if err != nil {
		t.Fatalf("transcriptcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
