package historyrepo

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
)

// PostgresRepository implements advisor.HistoryRepository using pgx. The
// profile and crop list are kept as JSONB since they are read back whole.
type PostgresRepository struct {
	pool  *pgxpool.Pool
	ready atomic.Bool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ensureSchema creates the backing table on first use so a fresh database
// works without a separate migration step.
func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	if r.ready.Load() {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS recommendation_history (
			id TEXT PRIMARY KEY,
			profile JSONB NOT NULL,
			top_crops JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	r.ready.Store(true)
	return nil
}

// Record appends one recommendation pass.
func (r *PostgresRepository) Record(ctx context.Context, entry advisor.HistoryEntry) error {
	if err := r.ensureSchema(ctx); err != nil {
		return err
	}
	profile, err := json.Marshal(entry.Profile)
	if err != nil {
		return err
	}
	crops, err := json.Marshal(entry.TopCrops)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO recommendation_history (id, profile, top_crops, created_at)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, profile, crops, entry.CreatedAt)
	return err
}

// Recent returns the latest passes, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]advisor.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile, top_crops, created_at
		FROM recommendation_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []advisor.HistoryEntry
	for rows.Next() {
		var (
			entry   advisor.HistoryEntry
			profile []byte
			crops   []byte
		)
		if err := rows.Scan(&entry.ID, &profile, &crops, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(profile, &entry.Profile); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(crops, &entry.TopCrops); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

var _ advisor.HistoryRepository = (*PostgresRepository)(nil)
