package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpilot",
	Short: "StockPilot - 주식 분석 파이프라인",
	Long: `StockPilot Unified CLI

자유 질의를 받아 종목을 찾고, 시세·재무 지표를 수집해
0~100점 종합 점수와 한국어 해설을 만들어주는 분석 서버.

Usage:
  go run ./cmd/stockpilot [command]

Examples:
  go run ./cmd/stockpilot api
  go run ./cmd/stockpilot analyze "삼성전자"
  go run ./cmd/stockpilot analyze AAPL`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
