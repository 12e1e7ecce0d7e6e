package metrics

import (
	"github.com/wonny/stockpilot/internal/quote"
)

// Normalize derives vendor-agnostic metrics from a raw record. Pure
// function: no I/O, no failure path. Absent inputs propagate as nil
// through every derived field.
func Normalize(record *quote.RawRecord) *NormalizedMetrics {
	currency := record.Currency
	if currency == "" {
		if quote.MarketOf(record.Symbol) == quote.MarketDomestic {
			currency = "KRW"
		} else {
			currency = "USD"
		}
	}

	m := &NormalizedMetrics{
		Name:       record.Name,
		KoreanName: record.KoreanName,
		Symbol:     record.Symbol,
		Currency:   currency,
		Sector:     record.Sector,
		Industry:   record.Industry,
		Summary:    record.Summary,
		News:       record.News,

		CurrentPrice:     record.CurrentPrice,
		PreviousClose:    record.PreviousClose,
		MarketCap:        record.MarketCap,
		PERatio:          record.PERatio,
		PBRatio:          record.PBRatio,
		EPS:              record.EPS,
		Beta:             record.Beta,
		FiftyTwoWeekLow:  record.FiftyTwoWeekLow,
		FiftyTwoWeekHigh: record.FiftyTwoWeekHigh,
		TargetMeanPrice:  record.TargetMeanPrice,

		// 어댑터가 퍼센트 단위로 맞춰서 넘김 (Yahoo는 분수 → ×100)
		ROE:           record.ROE,
		DividendYield: record.DividendYield,

		ChangeStatus: ChangeNeutral,
	}

	computeChange(m)
	computeFiftyTwoWeekPosition(m)
	computeTargetUpside(m)
	attachDisplayStrings(m)

	return m
}

func computeChange(m *NormalizedMetrics) {
	if m.CurrentPrice == nil || m.PreviousClose == nil {
		return
	}

	change := *m.CurrentPrice - *m.PreviousClose
	m.ChangeValue = &change

	// 전일 종가 0이면 변동률은 0으로 처리
	pct := 0.0
	if *m.PreviousClose != 0 {
		pct = change / *m.PreviousClose * 100
	}
	m.ChangePercentage = &pct

	switch {
	case change > 0:
		m.ChangeStatus = ChangeRising
	case change < 0:
		m.ChangeStatus = ChangeFalling
	default:
		m.ChangeStatus = ChangeNeutral
	}
}

// computeFiftyTwoWeekPosition places the current price inside the 52-week
// band, clamped to [0, 1]. Omitted (nil) when the band is degenerate or
// either bound is missing.
func computeFiftyTwoWeekPosition(m *NormalizedMetrics) {
	if m.CurrentPrice == nil || m.FiftyTwoWeekLow == nil || m.FiftyTwoWeekHigh == nil {
		return
	}

	low, high := *m.FiftyTwoWeekLow, *m.FiftyTwoWeekHigh
	if low >= high {
		return
	}

	pos := (*m.CurrentPrice - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	m.FiftyTwoWeekPosition = &pos
}

func computeTargetUpside(m *NormalizedMetrics) {
	if m.CurrentPrice == nil || m.TargetMeanPrice == nil || *m.CurrentPrice <= 0 {
		return
	}

	upside := (*m.TargetMeanPrice - *m.CurrentPrice) / *m.CurrentPrice * 100
	m.TargetUpside = &upside
}

// attachDisplayStrings pairs every present numeric with its formatted
// string. Display formatting never alters the numeric value.
func attachDisplayStrings(m *NormalizedMetrics) {
	cur := m.Currency

	m.CurrentPriceStr = currencyStr(m.CurrentPrice, cur)
	m.PreviousCloseStr = currencyStr(m.PreviousClose, cur)
	m.FiftyTwoWeekLowStr = currencyStr(m.FiftyTwoWeekLow, cur)
	m.FiftyTwoWeekHighStr = currencyStr(m.FiftyTwoWeekHigh, cur)
	m.TargetMeanPriceStr = currencyStr(m.TargetMeanPrice, cur)
	m.EPSStr = currencyStr(m.EPS, cur)

	if m.ChangeValue != nil {
		s := formatSignedCurrency(*m.ChangeValue, cur)
		m.ChangeValueStr = &s
	}
	if m.ChangePercentage != nil {
		s := formatSignedPercent(*m.ChangePercentage)
		m.ChangePercentageStr = &s
	}
	if m.MarketCap != nil {
		s := formatMarketCap(*m.MarketCap)
		m.MarketCapStr = &s
	}

	m.PERatioStr = ratioStr(m.PERatio)
	m.PBRatioStr = ratioStr(m.PBRatio)
	m.BetaStr = ratioStr(m.Beta)
	m.ROEStr = percentStr(m.ROE)
	m.DividendYieldStr = percentStr(m.DividendYield)
	m.TargetUpsideStr = signedPercentStr(m.TargetUpside)
}

func currencyStr(v *float64, currency string) *string {
	if v == nil {
		return nil
	}
	s := formatCurrency(*v, currency)
	return &s
}

func ratioStr(v *float64) *string {
	if v == nil {
		return nil
	}
	s := formatRatio(*v)
	return &s
}

func percentStr(v *float64) *string {
	if v == nil {
		return nil
	}
	s := formatPercent(*v)
	return &s
}

func signedPercentStr(v *float64) *string {
	if v == nil {
		return nil
	}
	s := formatSignedPercent(*v)
	return &s
}
