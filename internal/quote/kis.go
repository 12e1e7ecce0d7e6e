package quote

import (
	"context"
	"strings"
	"time"

	"github.com/wonny/stockpilot/internal/external/kis"
)

// KISAdapter serves domestic identifiers from the KIS open API.
type KISAdapter struct {
	client *kis.Client
}

// NewKISAdapter wraps a KIS client as an Adapter
func NewKISAdapter(client *kis.Client) *KISAdapter {
	return &KISAdapter{client: client}
}

// Name implements Adapter
func (a *KISAdapter) Name() string { return "kis" }

// Supports implements Adapter. KIS serves KRX-listed securities only.
func (a *KISAdapter) Supports(market Market) bool {
	return market == MarketDomestic
}

// Fetch implements Adapter. The KIS API keys on the bare 6-digit code,
// so the market suffix is stripped before the call.
func (a *KISAdapter) Fetch(ctx context.Context, id Identifier) (*RawRecord, error) {
	code := stripKoreanSuffix(id.Symbol)

	q, err := a.client.GetQuote(ctx, code)
	if err != nil {
		return nil, err
	}

	return &RawRecord{
		Name:             q.Name,
		KoreanName:       q.Name,
		Symbol:           id.Symbol,
		CurrentPrice:     q.CurrentPrice,
		PreviousClose:    q.PreviousClose,
		MarketCap:        q.MarketCap,
		PERatio:          q.PER,
		PBRatio:          q.PBR,
		EPS:              q.EPS,
		DividendYield:    q.DividendYield,
		FiftyTwoWeekLow:  q.Week52Low,
		FiftyTwoWeekHigh: q.Week52High,
		Currency:         "KRW",
		Source:           a.Name(),
		FetchedAt:        time.Now(),
	}, nil
}

func stripKoreanSuffix(symbol string) string {
	symbol = strings.TrimSuffix(symbol, ".KS")
	return strings.TrimSuffix(symbol, ".KQ")
}
