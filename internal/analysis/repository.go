package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists analysis reports for audit and offline inspection
// ⭐ SSOT: 분석 로그 저장은 이 리포지토리에서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new analysis log repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveReport upserts the latest report for a ticker. One row per ticker;
// a fresh analysis replaces the previous one.
func (r *Repository) SaveReport(ctx context.Context, report *Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	var price *float64
	if report.Metrics != nil {
		price = report.Metrics.CurrentPrice
	}

	query := `
		INSERT INTO analysis_logs (ticker, price, analysis_json, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			price = EXCLUDED.price,
			analysis_json = EXCLUDED.analysis_json,
			updated_at = NOW()
	`

	_, err = r.pool.Exec(ctx, query, report.Identifier.Symbol, price, payload)
	if err != nil {
		return fmt.Errorf("save analysis log: %w", err)
	}

	return nil
}

// GetReport loads the stored report for a ticker, or nil when absent.
func (r *Repository) GetReport(ctx context.Context, ticker string) (*Report, error) {
	query := `
		SELECT analysis_json
		FROM analysis_logs
		WHERE ticker = $1
	`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, ticker).Scan(&payload); err != nil {
		return nil, fmt.Errorf("load analysis log: %w", err)
	}

	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode analysis log: %w", err)
	}

	return &report, nil
}
