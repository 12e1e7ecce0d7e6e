package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/wonny/stockpilot/internal/metrics"
	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/logger"
)

// NarrativeError wraps a failed or malformed reasoning call. It is never
// fatal: callers degrade to a numeric-only result.
type NarrativeError struct {
	Symbol string
	Cause  error
}

func (e *NarrativeError) Error() string {
	return fmt.Sprintf("narrative generation for %s: %v", e.Symbol, e.Cause)
}

func (e *NarrativeError) Unwrap() error { return e.Cause }

// Narrative is the validated output of the reasoning call.
type Narrative struct {
	OneLine        string            `json:"one_line"`
	Summary        []string          `json:"summary"`
	Risk           string            `json:"risk"`
	MetricInsights map[string]string `json:"metric_insights"`
}

// Narrator generates the narrative parts of a Result. The computed
// score and signal are passed as context so the text agrees with them.
type Narrator interface {
	Generate(ctx context.Context, m *metrics.NormalizedMetrics, score float64, signal Signal) (*Narrative, error)
}

// OpenAINarrator asks an OpenAI chat model for the narrative as a JSON
// object.
type OpenAINarrator struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewOpenAINarrator creates a narrator from config
func NewOpenAINarrator(cfg config.OpenAIConfig, log *logger.Logger) *OpenAINarrator {
	return &OpenAINarrator{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: log,
	}
}

// Generate implements Narrator
func (n *OpenAINarrator) Generate(ctx context.Context, m *metrics.NormalizedMetrics, score float64, signal Signal) (*Narrative, error) {
	prompt := buildNarrativePrompt(m, score, signal)

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful financial assistant. Output valid JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, &NarrativeError{Symbol: m.Symbol, Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &NarrativeError{Symbol: m.Symbol, Cause: fmt.Errorf("empty completion")}
	}

	var narrative Narrative
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &narrative); err != nil {
		return nil, &NarrativeError{Symbol: m.Symbol, Cause: fmt.Errorf("decode completion: %w", err)}
	}

	if err := validateNarrative(&narrative); err != nil {
		return nil, &NarrativeError{Symbol: m.Symbol, Cause: err}
	}

	return &narrative, nil
}

// validateNarrative enforces the required shape before the narrative is
// attached to a Result.
func validateNarrative(n *Narrative) error {
	if strings.TrimSpace(n.OneLine) == "" {
		return fmt.Errorf("one_line is empty")
	}
	if len(n.Summary) < 1 || len(n.Summary) > 3 {
		return fmt.Errorf("summary must carry 1-3 items, got %d", len(n.Summary))
	}
	for i, s := range n.Summary {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("summary item %d is empty", i)
		}
	}
	if strings.TrimSpace(n.Risk) == "" {
		return fmt.Errorf("risk is empty")
	}
	return nil
}

// buildNarrativePrompt renders the metrics, the computed score/signal and
// recent headlines into the Korean advisory prompt.
func buildNarrativePrompt(m *metrics.NormalizedMetrics, score float64, signal Signal) string {
	var b strings.Builder

	b.WriteString("너는 주식 잘하는 학교 선배야. 친근하고 쉬운 말투로 초보 투자자에게 조언해줘.\n\n")
	b.WriteString("[말투 지침]\n")
	b.WriteString("- 친근하고 쉬운 구어체를 사용해 (~~해요, ~~요 체)\n")
	b.WriteString("- 어려운 금융 용어는 쉽게 풀어서 설명해\n")
	b.WriteString("- 문장의 끝에 마침표(.)를 절대 찍지 마\n\n")

	name := m.Name
	if m.KoreanName != "" {
		name = m.KoreanName
	}

	b.WriteString("[기업 정보]\n")
	fmt.Fprintf(&b, "- 종목: %s (%s)\n", name, m.Symbol)
	fmt.Fprintf(&b, "- 섹터: %s\n", m.Sector)
	writeMetricLine(&b, "현재가", m.CurrentPriceStr)
	writeMetricLine(&b, "PER", m.PERatioStr)
	writeMetricLine(&b, "PBR", m.PBRatioStr)
	writeMetricLine(&b, "ROE", m.ROEStr)
	writeMetricLine(&b, "배당률", m.DividendYieldStr)
	writeMetricLine(&b, "Beta", m.BetaStr)
	writeMetricLine(&b, "목표가", m.TargetMeanPriceStr)
	fmt.Fprintf(&b, "- 종합 점수: %.1f / 100 (시그널: %s)\n", score, signal)

	if len(m.News) > 0 {
		fmt.Fprintf(&b, "- 최근 뉴스 헤드라인: %s\n", strings.Join(m.News, ", "))
	}

	b.WriteString(`
[요청사항]
위 점수와 시그널에 부합하는 해설을 반드시 아래 JSON 포맷으로만 응답해 (다른 말 덧붙이지 마)
{
    "one_line": (한 줄 핵심 코멘트, 친근한 구어체, 마침표 없음),
    "summary": (투자 포인트 1~3가지 요약, 리스트 형태, 각 항목 마침표 없음),
    "risk": (주의해야 할 리스크 1가지, 마침표 없음),
    "metric_insights": {
        "pe_ratio": (PER 지표에 대한 한 문장 평가, 값이 없으면 "데이터 없음"),
        "pb_ratio": (PBR 지표에 대한 한 문장 평가, 값이 없으면 "데이터 없음"),
        "roe": (ROE 지표에 대한 한 문장 평가, 값이 없으면 "데이터 없음"),
        "dividend_yield": (배당률 지표에 대한 한 문장 평가, 값이 없으면 "데이터 없음"),
        "beta": (Beta 지표에 대한 한 문장 평가, 값이 없으면 "데이터 없음"),
        "target_mean_price": (목표가 지표에 대한 한 문장 평가, 값이 없으면 "데이터 없음")
    }
}`)

	return b.String()
}

func writeMetricLine(b *strings.Builder, label string, value *string) {
	if value == nil {
		fmt.Fprintf(b, "- %s: 데이터 없음\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, *value)
}
