package bestscore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and returns its DSN.
// Tests are skipped if no container runtime is available.
func setupPostgres(t *testing.T) string {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration tests in short mode")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("game2048_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}
	return dsn
}

func newTestPostgresStore(t *testing.T, dsn, key string) *PostgresStore {
	t.Helper()

	store, err := NewPostgresStore(context.Background(), PostgresConfig{
		DSN:            dsn,
		Key:            key,
		MigrateOnStart: true,
	}, quietLogger())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestPostgresStore(t *testing.T) {
	dsn := setupPostgres(t)
	store := newTestPostgresStore(t, dsn, "")

	t.Run("load empty", func(t *testing.T) {
		if got := store.Load(); got != 0 {
			t.Errorf("Expected 0 before any save, got %d", got)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		store.Save(2048)
		if got := store.Load(); got != 2048 {
			t.Errorf("Expected 2048, got %d", got)
		}
	})

	t.Run("lower save ignored", func(t *testing.T) {
		store.Save(16)
		if got := store.Load(); got != 2048 {
			t.Errorf("Expected 2048 to survive a lower save, got %d", got)
		}
	})

	t.Run("negative rejected", func(t *testing.T) {
		if err := store.SaveContext(context.Background(), -1); err == nil {
			t.Error("Expected error for negative score")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		other := newTestPostgresStore(t, dsn, "other")
		if got := other.Load(); got != 0 {
			t.Errorf("Expected fresh key to load 0, got %d", got)
		}
		other.Save(8)
		if got := store.Load(); got != 2048 {
			t.Errorf("Saving another key changed this one: %d", got)
		}
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		again := newTestPostgresStore(t, dsn, "")
		if got := again.Load(); got != 2048 {
			t.Errorf("Expected 2048 after re-running migrations, got %d", got)
		}
	})

	t.Run("concurrent saves keep maximum", func(t *testing.T) {
		key := newTestPostgresStore(t, dsn, "concurrent")
		var wg sync.WaitGroup
		for i := 1; i <= 20; i++ {
			wg.Add(1)
			go func(score int) {
				defer wg.Done()
				key.Save(score * 4)
			}(i)
		}
		wg.Wait()
		if got := key.Load(); got != 80 {
			t.Errorf("Expected 80, got %d", got)
		}
	})
}

func TestNewPostgresStore_BadDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), PostgresConfig{DSN: "://not a dsn"}, quietLogger())
	if err == nil {
		t.Error("Expected error for malformed DSN")
	}
}

func TestPostgresConfig_Defaults(t *testing.T) {
	var cfg PostgresConfig
	cfg.defaults()

	if cfg.Key != DefaultKey {
		t.Errorf("Expected key %q, got %q", DefaultKey, cfg.Key)
	}
	if cfg.MaxConns != 4 {
		t.Errorf("Expected MaxConns 4, got %d", cfg.MaxConns)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Expected Timeout 3s, got %v", cfg.Timeout)
	}
}
