package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "종목 1건 분석",
	Long: `질의 하나를 받아 전체 분석 파이프라인을 실행하고
리포트를 JSON으로 출력합니다. DB 없이 동작합니다 (저장 생략).

Example:
  go run ./cmd/stockpilot analyze "삼성전자"
  go run ./cmd/stockpilot analyze AAPL
  go run ./cmd/stockpilot analyze 엔비디아 --timeout 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeTimeout time.Duration

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 90*time.Second, "분석 전체 제한 시간")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	// 단독 실행: DB/Redis 없이 구성
	pipe := buildPipeline(ctx, cfg, log, nil, nil)

	report, err := pipe.service.Analyze(ctx, query)
	if err != nil {
		return fmt.Errorf("analyze %q: %w", query, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
