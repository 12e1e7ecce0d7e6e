package quote

import "time"

// Market classifies which venue a security trades on. It decides the
// adapter order used by the Selector.
type Market string

const (
	// MarketDomestic covers KRX-listed securities (.KS / .KQ tickers)
	MarketDomestic Market = "domestic"
	// MarketGeneral covers everything else
	MarketGeneral Market = "general"
)

// Identifier is the canonical security identifier used as the cache and
// lookup key. Immutable once produced by the resolver.
type Identifier struct {
	Symbol string `json:"symbol"`
	Market Market `json:"market"`
}

// String returns the symbol (the part used as cache key)
func (id Identifier) String() string {
	return id.Symbol
}

// MarketOf classifies a normalized symbol by its lexical shape
func MarketOf(symbol string) Market {
	if hasKoreanSuffix(symbol) {
		return MarketDomestic
	}
	return MarketGeneral
}

func hasKoreanSuffix(symbol string) bool {
	n := len(symbol)
	if n < 3 {
		return false
	}
	suffix := symbol[n-3:]
	return suffix == ".KS" || suffix == ".KQ"
}

// RawRecord is the vendor-shaped snapshot one adapter returns for a
// security. Fields the vendor does not serve stay nil; nothing is
// fabricated at this layer. The record is owned by the fetch that
// produced it and is never mutated afterwards.
type RawRecord struct {
	Name       string `json:"name"`
	KoreanName string `json:"korean_name,omitempty"`
	Symbol     string `json:"symbol"`

	CurrentPrice  *float64 `json:"current_price"`
	PreviousClose *float64 `json:"previous_close"`
	MarketCap     *float64 `json:"market_cap"`

	PERatio       *float64 `json:"pe_ratio"`
	PBRatio       *float64 `json:"pb_ratio"`
	EPS           *float64 `json:"eps"`
	ROE           *float64 `json:"roe"`
	DividendYield *float64 `json:"dividend_yield"`
	Beta          *float64 `json:"beta"`

	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high"`
	TargetMeanPrice  *float64 `json:"target_mean_price"`

	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Currency string `json:"currency"`

	// Up to three recent headline titles, when the vendor serves news
	News []string `json:"news,omitempty"`

	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Float returns a pointer to v. Helper for building records.
func Float(v float64) *float64 {
	return &v
}
