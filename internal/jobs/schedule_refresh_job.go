package job

import (
	"context"
	"log/slog"

	"github.com/lumenfeed/console/internal/service"
)

type ScheduleRefreshJob struct {
	s service.LifecycleService
}

func NewScheduleRefreshJob(s service.LifecycleService) *ScheduleRefreshJob {
	return &ScheduleRefreshJob{s: s}
}

// RefreshJobs pulls the remote scheduled-job list and reconciles it onto the
// post collection. Runs on the cron schedule wired in main; without a session
// there is nothing to refresh.
func (j *ScheduleRefreshJob) RefreshJobs() {
	ctx := context.Background()

	if _, ok := j.s.Session(); !ok {
		return
	}

	if err := j.s.SyncScheduledJobs(ctx); err != nil {
		slog.Info("scheduled job refresh failed", "error", err.Error())
	}
}
