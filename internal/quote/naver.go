package quote

import (
	"context"
	"time"

	"github.com/wonny/stockpilot/internal/external/naver"
)

// NaverAdapter scrapes Naver Finance for domestic identifiers. Disabled
// by default; registered at the end of the domestic chain when enabled.
type NaverAdapter struct {
	client *naver.Client
}

// NewNaverAdapter wraps a Naver scraper as an Adapter
func NewNaverAdapter(client *naver.Client) *NaverAdapter {
	return &NaverAdapter{client: client}
}

// Name implements Adapter
func (a *NaverAdapter) Name() string { return "naver" }

// Supports implements Adapter
func (a *NaverAdapter) Supports(market Market) bool {
	return market == MarketDomestic
}

// Fetch implements Adapter
func (a *NaverAdapter) Fetch(ctx context.Context, id Identifier) (*RawRecord, error) {
	q, err := a.client.GetQuote(ctx, stripKoreanSuffix(id.Symbol))
	if err != nil {
		return nil, err
	}

	return &RawRecord{
		Name:          q.Name,
		KoreanName:    q.Name,
		Symbol:        id.Symbol,
		CurrentPrice:  q.CurrentPrice,
		PreviousClose: q.PreviousClose,
		PERatio:       q.PER,
		PBRatio:       q.PBR,
		EPS:           q.EPS,
		DividendYield: q.DividendYield,
		Currency:      "KRW",
		Source:        a.Name(),
		FetchedAt:     time.Now(),
	}, nil
}
