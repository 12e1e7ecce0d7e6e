package analysis

import (
	"context"
	"time"

	"github.com/wonny/stockpilot/internal/metrics"
	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/internal/scoring"
	"github.com/wonny/stockpilot/pkg/logger"
)

// Resolver turns a free-form query into a canonical identifier
type Resolver interface {
	Resolve(ctx context.Context, query string) (quote.Identifier, error)
}

// Fetcher retrieves a raw record with provider fallback
type Fetcher interface {
	Fetch(ctx context.Context, id quote.Identifier) (*quote.RawRecord, error)
}

// Scorer computes the composite score and narrative
type Scorer interface {
	Score(ctx context.Context, m *metrics.NormalizedMetrics) *scoring.Result
}

// KoreanNamer looks up the listed Korean name for a domestic ticker
type KoreanNamer interface {
	KoreanName(symbol string) (string, bool)
}

// ReportStore persists computed reports
type ReportStore interface {
	SaveReport(ctx context.Context, report *Report) error
}

// Service is the pipeline entry point: resolve → cache → fetch →
// normalize → score → persist.
type Service struct {
	resolver Resolver
	fetcher  Fetcher
	scorer   Scorer
	cache    *Cache
	namer    KoreanNamer // optional
	store    ReportStore // optional, best-effort
	logger   *logger.Logger
}

// NewService wires the pipeline. namer and store may be nil.
func NewService(resolver Resolver, fetcher Fetcher, scorer Scorer, cache *Cache, namer KoreanNamer, store ReportStore, log *logger.Logger) *Service {
	return &Service{
		resolver: resolver,
		fetcher:  fetcher,
		scorer:   scorer,
		cache:    cache,
		namer:    namer,
		store:    store,
		logger:   log,
	}
}

// Analyze runs the full pipeline for a free-form query. Within the TTL
// window repeated calls for the same identifier return the cached report
// without touching any adapter.
func (s *Service) Analyze(ctx context.Context, query string) (*Report, error) {
	id, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	return s.cache.GetOrCompute(ctx, id, func(computeCtx context.Context) (*Report, error) {
		return s.compute(computeCtx, id)
	})
}

// Resolve exposes the resolver for the search endpoint
func (s *Service) Resolve(ctx context.Context, query string) (quote.Identifier, error) {
	return s.resolver.Resolve(ctx, query)
}

func (s *Service) compute(ctx context.Context, id quote.Identifier) (*Report, error) {
	record, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	m := metrics.Normalize(record)
	s.attachKoreanName(id, m)

	result := s.scorer.Score(ctx, m)

	report := &Report{
		Identifier:  id,
		Metrics:     m,
		ScoreResult: result,
		News:        m.News,
		GeneratedAt: time.Now(),
	}

	s.persist(ctx, report)

	return report, nil
}

// attachKoreanName overlays the KRX master's Korean name on domestic
// records whose vendor name is missing or romanized.
func (s *Service) attachKoreanName(id quote.Identifier, m *metrics.NormalizedMetrics) {
	if s.namer == nil || id.Market != quote.MarketDomestic {
		return
	}

	korean, ok := s.namer.KoreanName(id.Symbol)
	if !ok {
		return
	}

	m.KoreanName = korean
	if m.Name == "" || !containsHangul(m.Name) {
		m.Name = korean
	}
}

// persist is best-effort: a storage failure is logged, never surfaced.
func (s *Service) persist(ctx context.Context, report *Report) {
	if s.store == nil {
		return
	}

	if err := s.store.SaveReport(ctx, report); err != nil {
		s.logger.WithError(err).WithField("symbol", report.Identifier.Symbol).Warn("Failed to persist analysis report")
	}
}

func containsHangul(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}
