// Package updatelog serves the read-only service update history. It
// shares the API surface but sits outside the analysis pipeline.
package updatelog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one dated update-log row
type Entry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Version   *string   `json:"version,omitempty"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
}

// Repository reads update logs from Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new update log repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAll returns every entry, newest first
func (r *Repository) ListAll(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT id, created_at, version, category, content
		FROM update_logs
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list update logs: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Version, &e.Category, &e.Content); err != nil {
			return nil, fmt.Errorf("scan update log row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate update logs: %w", err)
	}

	return entries, nil
}
