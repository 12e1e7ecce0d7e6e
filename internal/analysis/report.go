// Package analysis wires the full pipeline: resolve, fetch with
// fallback, normalize, score, cache, persist.
package analysis

import (
	"time"

	"github.com/wonny/stockpilot/internal/metrics"
	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/internal/scoring"
)

// Report is the full analysis outcome for one security. Cached entries
// are shared read-only between callers and replaced wholesale on expiry.
type Report struct {
	Identifier  quote.Identifier           `json:"identifier"`
	Metrics     *metrics.NormalizedMetrics `json:"stock_data"`
	ScoreResult *scoring.Result            `json:"score_result"`
	News        []string                   `json:"news,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
}
