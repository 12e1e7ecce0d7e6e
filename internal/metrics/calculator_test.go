package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpilot/internal/quote"
)

func TestNormalizePercentChange(t *testing.T) {
	rec := &quote.RawRecord{
		Symbol:        "AAPL",
		Currency:      "USD",
		CurrentPrice:  quote.Float(150.00),
		PreviousClose: quote.Float(148.00),
	}

	m := Normalize(rec)

	require.NotNil(t, m.ChangeValue)
	assert.InDelta(t, 2.00, *m.ChangeValue, 1e-9)
	require.NotNil(t, m.ChangePercentage)
	assert.InDelta(t, 1.3513, *m.ChangePercentage, 0.001)
	assert.Equal(t, ChangeRising, m.ChangeStatus)

	require.NotNil(t, m.ChangeValueStr)
	assert.Equal(t, "+$2.00", *m.ChangeValueStr)
	require.NotNil(t, m.ChangePercentageStr)
	assert.Equal(t, "+1.35%", *m.ChangePercentageStr)
}

func TestNormalizeZeroPreviousClose(t *testing.T) {
	rec := &quote.RawRecord{
		Symbol:        "XYZ",
		Currency:      "USD",
		CurrentPrice:  quote.Float(10),
		PreviousClose: quote.Float(0),
	}

	m := Normalize(rec)

	require.NotNil(t, m.ChangePercentage)
	assert.Zero(t, *m.ChangePercentage)
	assert.Equal(t, ChangeRising, m.ChangeStatus)
}

func TestNormalizeFallingAndNeutral(t *testing.T) {
	falling := Normalize(&quote.RawRecord{
		Symbol: "A", Currency: "USD",
		CurrentPrice: quote.Float(90), PreviousClose: quote.Float(100),
	})
	assert.Equal(t, ChangeFalling, falling.ChangeStatus)

	neutral := Normalize(&quote.RawRecord{
		Symbol: "B", Currency: "USD",
		CurrentPrice: quote.Float(100), PreviousClose: quote.Float(100),
	})
	assert.Equal(t, ChangeNeutral, neutral.ChangeStatus)
}

func TestNormalizeFiftyTwoWeekPosition(t *testing.T) {
	tests := []struct {
		name    string
		current *float64
		low     *float64
		high    *float64
		want    *float64
	}{
		{"mid band", quote.Float(150), quote.Float(100), quote.Float(200), quote.Float(0.5)},
		{"clamped below", quote.Float(90), quote.Float(100), quote.Float(200), quote.Float(0)},
		{"clamped above", quote.Float(250), quote.Float(100), quote.Float(200), quote.Float(1)},
		{"degenerate band", quote.Float(150), quote.Float(200), quote.Float(200), nil},
		{"inverted band", quote.Float(150), quote.Float(250), quote.Float(200), nil},
		{"missing low", quote.Float(150), nil, quote.Float(200), nil},
		{"missing current", nil, quote.Float(100), quote.Float(200), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Normalize(&quote.RawRecord{
				Symbol:           "T",
				Currency:         "USD",
				CurrentPrice:     tt.current,
				FiftyTwoWeekLow:  tt.low,
				FiftyTwoWeekHigh: tt.high,
			})

			if tt.want == nil {
				assert.Nil(t, m.FiftyTwoWeekPosition)
				return
			}
			require.NotNil(t, m.FiftyTwoWeekPosition)
			assert.InDelta(t, *tt.want, *m.FiftyTwoWeekPosition, 1e-9)
		})
	}
}

func TestNormalizeTargetUpside(t *testing.T) {
	m := Normalize(&quote.RawRecord{
		Symbol:          "AAPL",
		Currency:        "USD",
		CurrentPrice:    quote.Float(150),
		TargetMeanPrice: quote.Float(180),
	})

	require.NotNil(t, m.TargetUpside)
	assert.InDelta(t, 20.0, *m.TargetUpside, 1e-9)
	require.NotNil(t, m.TargetUpsideStr)
	assert.Equal(t, "+20.00%", *m.TargetUpsideStr)

	noTarget := Normalize(&quote.RawRecord{
		Symbol: "X", Currency: "USD", CurrentPrice: quote.Float(150),
	})
	assert.Nil(t, noTarget.TargetUpside)
	assert.Nil(t, noTarget.TargetUpsideStr)
}

// Percent units are the adapters' responsibility; the calculator never
// rescales. A 0.80% domestic yield must stay 0.80, not become 80.
func TestNormalizePercentUnitsPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		record quote.RawRecord
		field  func(m *NormalizedMetrics) *float64
		want   float64
	}{
		{
			name:   "sub-1% kis yield",
			record: quote.RawRecord{Symbol: "005930.KS", Currency: "KRW", Source: "kis", DividendYield: quote.Float(0.80)},
			field:  func(m *NormalizedMetrics) *float64 { return m.DividendYield },
			want:   0.80,
		},
		{
			name:   "ordinary kis yield",
			record: quote.RawRecord{Symbol: "005930.KS", Currency: "KRW", Source: "kis", DividendYield: quote.Float(2.01)},
			field:  func(m *NormalizedMetrics) *float64 { return m.DividendYield },
			want:   2.01,
		},
		{
			name:   "adapter-converted yahoo yield",
			record: quote.RawRecord{Symbol: "AAPL", Currency: "USD", Source: "yahoo", DividendYield: quote.Float(0.44)},
			field:  func(m *NormalizedMetrics) *float64 { return m.DividendYield },
			want:   0.44,
		},
		{
			name:   "roe percent",
			record: quote.RawRecord{Symbol: "AAPL", Currency: "USD", Source: "yahoo", ROE: quote.Float(18.5)},
			field:  func(m *NormalizedMetrics) *float64 { return m.ROE },
			want:   18.5,
		},
		{
			name:   "negative sub-1 roe",
			record: quote.RawRecord{Symbol: "X", Currency: "USD", Source: "yahoo", ROE: quote.Float(-0.12)},
			field:  func(m *NormalizedMetrics) *float64 { return m.ROE },
			want:   -0.12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.field(Normalize(&tt.record))
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestNormalizeSubOnePercentYieldDisplay(t *testing.T) {
	m := Normalize(&quote.RawRecord{Symbol: "005930.KS", Currency: "KRW", Source: "kis", DividendYield: quote.Float(0.80)})

	require.NotNil(t, m.DividendYieldStr)
	assert.Equal(t, "0.80%", *m.DividendYieldStr)
}

func TestNormalizeAllAbsent(t *testing.T) {
	m := Normalize(&quote.RawRecord{Symbol: "EMPTY", Currency: "USD"})

	assert.Nil(t, m.CurrentPrice)
	assert.Nil(t, m.CurrentPriceStr)
	assert.Nil(t, m.ChangeValue)
	assert.Nil(t, m.ChangePercentage)
	assert.Nil(t, m.FiftyTwoWeekPosition)
	assert.Nil(t, m.TargetUpside)
	assert.Nil(t, m.PERatioStr)
	assert.Equal(t, ChangeNeutral, m.ChangeStatus)
}

func TestNormalizeCurrencyDefaults(t *testing.T) {
	domestic := Normalize(&quote.RawRecord{Symbol: "005930.KS"})
	assert.Equal(t, "KRW", domestic.Currency)

	general := Normalize(&quote.RawRecord{Symbol: "AAPL"})
	assert.Equal(t, "USD", general.Currency)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "72,500원", formatCurrency(72500, "KRW"))
	assert.Equal(t, "72,500원", formatCurrency(72500.9, "KRW"), "KRW is floored, not rounded")
	assert.Equal(t, "500원", formatCurrency(500, "KRW"))
	assert.Equal(t, "$145.20", formatCurrency(145.2, "USD"))
	assert.Equal(t, "$1,234,567.89", formatCurrency(1234567.89, "USD"))
	assert.Equal(t, "$0.05", formatCurrency(0.05, "EUR"))
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "1", groupDigits("1"))
	assert.Equal(t, "999", groupDigits("999"))
	assert.Equal(t, "1,000", groupDigits("1000"))
	assert.Equal(t, "1,234,567", groupDigits("1234567"))
	assert.Equal(t, "-12,345", groupDigits("-12345"))
	assert.Equal(t, "1,234.56", groupDigits("1234.56"))
}
