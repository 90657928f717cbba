package bestscore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var _ engine.BestScoreStore = (*PostgresStore)(nil)

// PostgresStore keeps the best score in a PostgreSQL table
type PostgresStore struct {
	pool    *pgxpool.Pool
	key     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPostgresStore connects to the database and, if configured, applies the schema.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &PostgresStore{
		pool:    pool,
		key:     cfg.Key,
		timeout: cfg.Timeout,
		logger:  logger,
	}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Load returns the stored score or 0 when the row is missing or the query fails
func (s *PostgresStore) Load() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	score, err := s.LoadContext(ctx)
	if err != nil {
		s.logger.Warn("failed to load best score", "key", s.key, "error", err)
		return 0
	}
	return score
}

// LoadContext reads the stored score. A missing row is not an error.
func (s *PostgresStore) LoadContext(ctx context.Context) (int, error) {
	var score int64
	err := s.pool.QueryRow(ctx, "SELECT score FROM best_scores WHERE key = $1", s.key).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying best score: %w", err)
	}
	if score < 0 {
		return 0, nil
	}
	return int(score), nil
}

// Save records score, logging instead of failing on database errors
func (s *PostgresStore) Save(score int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.SaveContext(ctx, score); err != nil {
		s.logger.Warn("failed to save best score", "key", s.key, "score", score, "error", err)
	}
}

// SaveContext upserts score, never lowering the stored value.
func (s *PostgresStore) SaveContext(ctx context.Context, score int) error {
	if score < 0 {
		return fmt.Errorf("score cannot be negative: %d", score)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO best_scores (key, score, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET score = GREATEST(best_scores.score, EXCLUDED.score),
		    updated_at = now()
	`, s.key, int64(score))
	if err != nil {
		return fmt.Errorf("upserting best score: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// migrate applies embedded schema files in filename order, skipping versions
// already recorded in schema_migrations.
func (s *PostgresStore) migrate(ctx context.Context) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			continue
		}

		// Fails before the first migration creates the table, which means "not applied"
		var exists bool
		err := s.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err == nil && exists {
			continue
		}

		content, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		s.logger.Info("applying migration", "file", entry.Name(), "version", version)

		if _, err := s.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING",
			version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}
