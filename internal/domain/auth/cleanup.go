package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"beautybook/internal/pkg/logger"
)

// CleanupJob periodically removes registrations whose code expired unconfirmed.
type CleanupJob struct {
	cron      *cron.Cron
	svc       *Service
	retention time.Duration
	log       *logger.Logger
}

func NewCleanupJob(svc *Service, schedule string, retention time.Duration, log *logger.Logger) (*CleanupJob, error) {
	j := &CleanupJob{
		cron:      cron.New(cron.WithLogger(cron.PrintfLogger(log))),
		svc:       svc,
		retention: retention,
		log:       log,
	}
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *CleanupJob) Start() {
	j.cron.Start()
	j.log.Info("unverified account cleanup scheduled", "retention", j.retention.String())
}

// Stop waits for a running sweep to finish.
func (j *CleanupJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *CleanupJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := j.svc.SweepExpiredUnverified(ctx, j.retention)
	if err != nil {
		j.log.Error(err, "unverified account cleanup failed")
		return
	}
	if n > 0 {
		j.log.Info("unverified accounts removed", "count", n)
	}
}
