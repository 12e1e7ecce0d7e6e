package quote

import (
	"context"
	"time"

	"github.com/wonny/stockpilot/internal/external/yahoo"
)

const newsHeadlineLimit = 3

// YahooAdapter serves any market from the Yahoo Finance endpoints. It is
// the sole general-market source and the fallback for domestic symbols.
type YahooAdapter struct {
	client *yahoo.Client
}

// NewYahooAdapter wraps a Yahoo client as an Adapter
func NewYahooAdapter(client *yahoo.Client) *YahooAdapter {
	return &YahooAdapter{client: client}
}

// Name implements Adapter
func (a *YahooAdapter) Name() string { return "yahoo" }

// Supports implements Adapter
func (a *YahooAdapter) Supports(market Market) bool { return true }

// Fetch implements Adapter
func (a *YahooAdapter) Fetch(ctx context.Context, id Identifier) (*RawRecord, error) {
	q, err := a.client.GetQuote(ctx, id.Symbol)
	if err != nil {
		return nil, err
	}

	record := &RawRecord{
		Name:             q.Name,
		Symbol:           id.Symbol,
		CurrentPrice:     q.CurrentPrice,
		PreviousClose:    q.PreviousClose,
		MarketCap:        q.MarketCap,
		PERatio:          q.TrailingPE,
		PBRatio:          q.PriceToBook,
		EPS:              deriveEPS(q),
		ROE:              fractionToPercent(q.ROE),
		DividendYield:    fractionToPercent(q.DividendYield),
		Beta:             q.Beta,
		FiftyTwoWeekLow:  q.Week52Low,
		FiftyTwoWeekHigh: q.Week52High,
		TargetMeanPrice:  q.TargetMeanPrice,
		Sector:           q.Sector,
		Industry:         q.Industry,
		Summary:          q.Summary,
		Currency:         q.Currency,
		Source:           a.Name(),
		FetchedAt:        time.Now(),
	}

	// Headlines are best-effort flavor for the narrative; never fail
	// the fetch over them.
	if news, newsErr := a.client.GetNews(ctx, id.Symbol, newsHeadlineLimit); newsErr == nil {
		record.News = news
	}

	return record, nil
}

// fractionToPercent converts Yahoo's fractional ratios (returnOnEquity
// 0.23, dividendYield 0.0044) to percent units. KIS와 Naver는 이미 퍼센트
// 단위라 변환하지 않음.
func fractionToPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v * 100)
}

// deriveEPS fills EPS from progressively weaker sources: the reported
// figure, net income over shares outstanding, then price over PE.
func deriveEPS(q *yahoo.Quote) *float64 {
	if q.EPS != nil && *q.EPS != 0 {
		return q.EPS
	}

	if q.NetIncome != nil && q.SharesOutstanding != nil && *q.SharesOutstanding > 0 {
		return Float(*q.NetIncome / *q.SharesOutstanding)
	}

	if q.CurrentPrice != nil && q.TrailingPE != nil && *q.TrailingPE > 0 {
		return Float(*q.CurrentPrice / *q.TrailingPE)
	}

	return nil
}
