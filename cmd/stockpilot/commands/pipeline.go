package commands

import (
	"context"

	"github.com/wonny/stockpilot/internal/analysis"
	"github.com/wonny/stockpilot/internal/external/kis"
	"github.com/wonny/stockpilot/internal/external/krx"
	"github.com/wonny/stockpilot/internal/external/naver"
	"github.com/wonny/stockpilot/internal/external/yahoo"
	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/internal/scoring"
	"github.com/wonny/stockpilot/internal/ticker"
	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/httputil"
	"github.com/wonny/stockpilot/pkg/logger"
	"github.com/wonny/stockpilot/pkg/redis"
)

// pipeline bundles the wired analysis stack shared by the api and
// analyze commands.
type pipeline struct {
	service *analysis.Service
	master  *ticker.Master
}

// buildPipeline wires external clients, resolver, provider fallback,
// scoring and cache from configuration. store and l2 may be nil.
// ⭐ SSOT: 분석 파이프라인 조립은 여기서만
func buildPipeline(ctx context.Context, cfg *config.Config, log *logger.Logger, store analysis.ReportStore, l2 *redis.Cache) *pipeline {
	httpClient := httputil.New(cfg, log)

	kisClient := kis.NewClient(cfg.KIS, httpClient, log)
	yahooClient := yahoo.NewClient(cfg.Yahoo, httpClient, log)
	krxClient := krx.NewClient(httpClient, log)

	master := ticker.NewMaster(krxClient, log)
	if err := master.Load(ctx); err != nil {
		// 마스터 없이도 동작함: 검색/원문 폴백으로 해석
		log.WithError(err).Warn("Failed to load listing master, Korean name resolution degraded")
	}

	resolver := ticker.NewResolver(master, ticker.NewYahooSearcher(yahooClient), log)

	selector := quote.NewSelector(cfg.Analysis.AdapterTimeout, log,
		quote.NewKISAdapter(kisClient),
		quote.NewYahooAdapter(yahooClient),
	)
	if cfg.Naver.Enabled {
		selector.Register(quote.NewNaverAdapter(naver.NewClient(cfg.Naver, httpClient, log)))
	}

	var narrator scoring.Narrator
	if cfg.OpenAI.APIKey != "" {
		narrator = scoring.NewOpenAINarrator(cfg.OpenAI, log)
	} else {
		log.Warn("OPENAI_API_KEY not set, reports will be numeric-only")
	}
	aggregator := scoring.NewAggregator(cfg.Analysis, narrator, log)

	cache := analysis.NewCache(cfg.Analysis.CacheTTL, l2, log)

	service := analysis.NewService(resolver, selector, aggregator, cache, master, store, log)

	return &pipeline{
		service: service,
		master:  master,
	}
}
