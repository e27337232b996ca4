package test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hrygo/converse/internal/profile"
	"github.com/hrygo/converse/internal/version"
	"github.com/hrygo/converse/store"
	"github.com/hrygo/converse/store/db"
)

// NewTestingStore returns a Store backed by a scratch SQLite database
// under the test's temp dir, with the schema applied. The caller owns
// Close; t.Cleanup handles it for tests that forget.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := getTestingProfile(t)
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	testStore := store.New(driver, p)
	if err := testStore.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		testStore.Close()
	})
	return testStore
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()

	dir := t.TempDir()
	mode := "dev"
	return &profile.Profile{
		Mode:    mode,
		Driver:  "sqlite",
		DSN:     fmt.Sprintf("%s/converse_%s.db", dir, mode),
		Data:    dir,
		Version: version.GetCurrentVersion(mode),
	}
}
