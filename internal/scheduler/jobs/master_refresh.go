package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockpilot/internal/ticker"
	"github.com/wonny/stockpilot/pkg/logger"
)

// MasterRefreshJob reloads the KRX listing master once a day
// ⭐ SSOT: 종목 마스터 갱신 스케줄은 이 Job에서만
type MasterRefreshJob struct {
	master *ticker.Master
	logger *logger.Logger
}

// NewMasterRefreshJob creates a new master refresh job
func NewMasterRefreshJob(master *ticker.Master, log *logger.Logger) *MasterRefreshJob {
	return &MasterRefreshJob{
		master: master,
		logger: log,
	}
}

// Name returns the job name
func (j *MasterRefreshJob) Name() string {
	return "master_refresh"
}

// Schedule returns the cron schedule (every day at 7 AM KST, before market open)
func (j *MasterRefreshJob) Schedule() string {
	return "0 0 7 * * *"
}

// Run reloads the listing master
func (j *MasterRefreshJob) Run(ctx context.Context) error {
	if err := j.master.Load(ctx); err != nil {
		return fmt.Errorf("reload listing master: %w", err)
	}

	j.logger.WithField("listings", j.master.Size()).Info("Listing master refreshed")
	return nil
}
