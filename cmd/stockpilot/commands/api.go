package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpilot/internal/analysis"
	"github.com/wonny/stockpilot/internal/api"
	"github.com/wonny/stockpilot/internal/api/handlers"
	"github.com/wonny/stockpilot/internal/scheduler"
	"github.com/wonny/stockpilot/internal/scheduler/jobs"
	"github.com/wonny/stockpilot/internal/updatelog"
	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/database"
	"github.com/wonny/stockpilot/pkg/logger"
	"github.com/wonny/stockpilot/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 종목 분석 엔드포인트 제공
- KRX 종목 마스터 일일 갱신 스케줄 등록

Endpoints:
  GET  /health                  - Health check
  POST /api/stocks/search       - 질의 → 티커 해석
  POST /api/stocks/analyze      - 전체 분석 리포트
  GET  /api/stocks/{symbol}     - 시세 + 점수 (해설 제외)
  GET  /api/updates             - 업데이트 로그

Example:
  go run ./cmd/stockpilot api
  go run ./cmd/stockpilot api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockPilot API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Optional Redis L2 cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	var l2 *redis.Cache
	if redisClient.Enabled() {
		l2 = redis.NewCache(redisClient, "analysis")
		log.Info("Redis L2 cache enabled")
	}

	// 5. Build the analysis pipeline
	pipe := buildPipeline(cmd.Context(), cfg, log, analysis.NewRepository(db.Pool), l2)

	// 6. Schedule the daily listing master refresh
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewMasterRefreshJob(pipe.master, log)); err != nil {
		return fmt.Errorf("schedule master refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 7. Create handlers
	stockHandler := handlers.NewStockHandler(pipe.service, log)
	updateHandler := handlers.NewUpdateLogHandler(updatelog.NewRepository(db.Pool), log)

	// 8. Create router
	router := api.NewRouter(stockHandler, updateHandler, log)

	// 9. Create server
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/stocks/search")
	fmt.Println("  POST /api/stocks/analyze")
	fmt.Println("  GET  /api/stocks/{symbol}")
	fmt.Println("  GET  /api/updates")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
