// Package scoring computes the weighted composite score, maps it to a
// discrete signal, and attaches an LLM-generated narrative.
package scoring

// Signal is the three-way investment recommendation derived from the
// composite score.
type Signal string

const (
	SignalBuy     Signal = "매수"
	SignalNeutral Signal = "중립"
	SignalCaution Signal = "주의"
)

// Signal thresholds over the composite score. The mapping is total and
// monotonic: every score in [0,100] lands on exactly one signal.
const (
	buyThreshold     = 70.0
	neutralThreshold = 40.0
)

// SignalFor maps a composite score to its signal
func SignalFor(score float64) Signal {
	switch {
	case score >= buyThreshold:
		return SignalBuy
	case score >= neutralThreshold:
		return SignalNeutral
	default:
		return SignalCaution
	}
}

// Result is the scoring outcome for one security. Narrative fields stay
// empty when the reasoning call fails; the numeric score never does.
type Result struct {
	Score  float64 `json:"score"`
	Signal Signal  `json:"signal"`

	OneLine        string            `json:"one_line,omitempty"`
	Summary        []string          `json:"summary,omitempty"`
	Risk           string            `json:"risk,omitempty"`
	MetricInsights map[string]string `json:"metric_insights,omitempty"`
}
