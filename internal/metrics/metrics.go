// Package metrics turns raw vendor records into normalized, display-ready
// financial metrics. Everything here is pure computation.
package metrics

// ChangeStatus classifies the day-over-day price direction
type ChangeStatus string

const (
	ChangeRising  ChangeStatus = "RISING"
	ChangeFalling ChangeStatus = "FALLING"
	ChangeNeutral ChangeStatus = "NEUTRAL"
)

// NormalizedMetrics is the vendor-agnostic view of one security. Numeric
// fields absent upstream stay nil and their paired display string stays
// nil with them; nothing is fabricated.
type NormalizedMetrics struct {
	Name       string `json:"name"`
	KoreanName string `json:"korean_name,omitempty"`
	Symbol     string `json:"symbol"`
	Currency   string `json:"currency"`
	Sector     string `json:"sector,omitempty"`
	Industry   string `json:"industry,omitempty"`
	Summary    string `json:"summary,omitempty"`

	CurrentPrice     *float64 `json:"current_price"`
	CurrentPriceStr  *string  `json:"current_price_str"`
	PreviousClose    *float64 `json:"previous_close"`
	PreviousCloseStr *string  `json:"previous_close_str"`

	ChangeValue         *float64     `json:"change_value"`
	ChangeValueStr      *string      `json:"change_value_str"`
	ChangePercentage    *float64     `json:"change_percentage"`
	ChangePercentageStr *string      `json:"change_percentage_str"`
	ChangeStatus        ChangeStatus `json:"change_status"`

	MarketCap    *float64 `json:"market_cap"`
	MarketCapStr *string  `json:"market_cap_str"`

	PERatio          *float64 `json:"pe_ratio"`
	PERatioStr       *string  `json:"pe_ratio_str"`
	PBRatio          *float64 `json:"pb_ratio"`
	PBRatioStr       *string  `json:"pb_ratio_str"`
	ROE              *float64 `json:"roe"`
	ROEStr           *string  `json:"roe_str"`
	EPS              *float64 `json:"eps"`
	EPSStr           *string  `json:"eps_str"`
	DividendYield    *float64 `json:"dividend_yield"`
	DividendYieldStr *string  `json:"dividend_yield_str"`
	Beta             *float64 `json:"beta"`
	BetaStr          *string  `json:"beta_str"`

	FiftyTwoWeekLow      *float64 `json:"fifty_two_week_low"`
	FiftyTwoWeekLowStr   *string  `json:"fifty_two_week_low_str"`
	FiftyTwoWeekHigh     *float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekHighStr  *string  `json:"fifty_two_week_high_str"`
	FiftyTwoWeekPosition *float64 `json:"fifty_two_week_position"`

	TargetMeanPrice    *float64 `json:"target_mean_price"`
	TargetMeanPriceStr *string  `json:"target_mean_price_str"`
	TargetUpside       *float64 `json:"target_upside"`
	TargetUpsideStr    *string  `json:"target_upside_str"`

	News []string `json:"news,omitempty"`
}
