package scoring

import (
	"context"

	"github.com/wonny/stockpilot/internal/metrics"
	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/logger"
)

// Aggregator combines normalized metrics into a bounded composite score
// and delegates narrative generation to the reasoning collaborator.
// ⭐ SSOT: 종합 점수 계산은 이 구조체에서만
type Aggregator struct {
	weights  config.AnalysisConfig
	narrator Narrator
	logger   *logger.Logger
}

// NewAggregator creates an aggregator. narrator may be nil to disable
// narrative generation (numeric-only results).
func NewAggregator(cfg config.AnalysisConfig, narrator Narrator, log *logger.Logger) *Aggregator {
	return &Aggregator{
		weights:  cfg,
		narrator: narrator,
		logger:   log,
	}
}

// component is one weighted slice of the composite
type component struct {
	name   string
	weight float64
	score  *float64 // nil when every input metric is absent
}

// Score computes the composite and signal, then attaches the narrative.
// The numeric result never fails; narrative failure degrades to an
// empty narrative.
func (a *Aggregator) Score(ctx context.Context, m *metrics.NormalizedMetrics) *Result {
	composite := a.composite(m)

	result := &Result{
		Score:  composite,
		Signal: SignalFor(composite),
	}

	if a.narrator == nil {
		return result
	}

	narrative, err := a.narrator.Generate(ctx, m, result.Score, result.Signal)
	if err != nil {
		// 내러티브 실패는 숫자 점수를 희생하지 않음
		a.logger.WithError(err).WithField("symbol", m.Symbol).Warn("Narrative generation failed, returning numeric-only result")
		return result
	}

	result.OneLine = narrative.OneLine
	result.Summary = narrative.Summary
	result.Risk = narrative.Risk
	result.MetricInsights = narrative.MetricInsights

	return result
}

// composite is the weighted mean of present components. Missing
// components are excluded and their weight is redistributed
// proportionally by dividing by the sum of present weights.
func (a *Aggregator) composite(m *metrics.NormalizedMetrics) float64 {
	components := []component{
		{"valuation", a.weights.WeightValuation, valuationScore(m)},
		{"profitability", a.weights.WeightProfitability, profitabilityScore(m)},
		{"yield", a.weights.WeightYield, yieldScore(m)},
		{"risk", a.weights.WeightRisk, riskScore(m)},
		{"upside", a.weights.WeightUpside, upsideScore(m)},
	}

	var weightedSum, presentWeight float64
	for _, c := range components {
		if c.score == nil || c.weight <= 0 {
			continue
		}
		weightedSum += *c.score * c.weight
		presentWeight += c.weight
	}

	// 지표가 하나도 없으면 중립 점수
	if presentWeight == 0 {
		return 50.0
	}

	return clampScore(weightedSum / presentWeight)
}

// valuationScore averages the PER and PBR bands; either alone carries
// the component.
func valuationScore(m *metrics.NormalizedMetrics) *float64 {
	var scores []float64

	if m.PERatio != nil && *m.PERatio > 0 {
		// PER 5 이하 100점, 60 이상 0점
		scores = append(scores, band(*m.PERatio, 60, 5))
	}
	if m.PBRatio != nil && *m.PBRatio > 0 {
		// PBR 1 이하 100점, 10 이상 0점
		scores = append(scores, band(*m.PBRatio, 10, 1))
	}

	if len(scores) == 0 {
		return nil
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))
	return &avg
}

// profitabilityScore bands ROE: 0% 이하 0점, 20% 이상 100점
func profitabilityScore(m *metrics.NormalizedMetrics) *float64 {
	if m.ROE == nil {
		return nil
	}
	s := band(*m.ROE, 0, 20)
	return &s
}

// yieldScore bands dividend yield: 0%는 0점, 5% 이상 100점
func yieldScore(m *metrics.NormalizedMetrics) *float64 {
	if m.DividendYield == nil {
		return nil
	}
	s := band(*m.DividendYield, 0, 5)
	return &s
}

// riskScore bands beta: 0.5 이하 100점, 2.0 이상 0점
func riskScore(m *metrics.NormalizedMetrics) *float64 {
	if m.Beta == nil {
		return nil
	}
	s := band(*m.Beta, 2.0, 0.5)
	return &s
}

// upsideScore bands analyst target upside: -20%는 0점, +30% 이상 100점
func upsideScore(m *metrics.NormalizedMetrics) *float64 {
	if m.TargetUpside == nil {
		return nil
	}
	s := band(*m.TargetUpside, -20, 30)
	return &s
}

// band maps v linearly onto [0, 100] between a worst and best bound.
// Works in both directions: worst > best means lower values score higher.
func band(v, worst, best float64) float64 {
	if worst == best {
		return 50
	}
	score := (v - worst) / (best - worst) * 100
	return clampScore(score)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
