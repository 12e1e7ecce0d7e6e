package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/stockpilot/internal/analysis"
	"github.com/wonny/stockpilot/internal/metrics"
	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/internal/ticker"
	"github.com/wonny/stockpilot/pkg/logger"
)

// Analyzer is the pipeline surface the handler needs
type Analyzer interface {
	Analyze(ctx context.Context, query string) (*analysis.Report, error)
	Resolve(ctx context.Context, query string) (quote.Identifier, error)
}

// StockHandler handles the stock search and analysis endpoints
// ⭐ SSOT: 주식 분석 API 핸들러는 이 구조체에서만
type StockHandler struct {
	service Analyzer
	logger  *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service Analyzer, log *logger.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		logger:  log,
	}
}

// SearchRequest is the body of POST /api/stocks/search
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse carries the resolved identifier
type SearchResponse struct {
	Ticker string       `json:"ticker"`
	Market quote.Market `json:"market"`
}

// Search resolves a free-form query to a ticker
// POST /api/stocks/search
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.Resolve(r.Context(), req.Query)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SearchResponse{Ticker: id.Symbol, Market: id.Market})
}

// AnalyzeRequest is the body of POST /api/stocks/analyze
type AnalyzeRequest struct {
	Query string `json:"query"`
}

// Analyze runs the full pipeline including the narrative
// POST /api/stocks/analyze
func (h *StockHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.service.Analyze(r.Context(), req.Query)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// quoteResponse is the narrative-free view served by GET
type quoteResponse struct {
	Identifier  quote.Identifier           `json:"identifier"`
	Metrics     *metrics.NormalizedMetrics `json:"stock_data"`
	Score       float64                    `json:"score"`
	Signal      string                     `json:"signal"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Get returns metrics and the numeric score without narrative fields
// GET /api/stocks/{symbol}
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	report, err := h.service.Analyze(r.Context(), symbol)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quoteResponse{
		Identifier:  report.Identifier,
		Metrics:     report.Metrics,
		Score:       report.ScoreResult.Score,
		Signal:      string(report.ScoreResult.Signal),
		GeneratedAt: report.GeneratedAt,
	})
}

// respondPipelineError maps pipeline errors onto HTTP statuses:
// bad input → 400, adapter exhaustion → 404, anything else → 500.
func (h *StockHandler) respondPipelineError(w http.ResponseWriter, err error) {
	var resErr *ticker.ResolutionError
	if errors.As(err, &resErr) {
		respondError(w, http.StatusBadRequest, resErr.Error())
		return
	}

	var noProvider *quote.NoProviderAvailable
	if errors.As(err, &noProvider) {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":    noProvider.Error(),
			"symbol":   noProvider.Symbol,
			"failures": failureReasons(noProvider),
		})
		return
	}

	h.logger.WithError(err).Error("Analysis request failed")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func failureReasons(e *quote.NoProviderAvailable) []map[string]string {
	failures := e.Failures()
	out := make([]map[string]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, map[string]string{
			"adapter": f.Adapter,
			"reason":  f.Reason(),
		})
	}
	return out
}
