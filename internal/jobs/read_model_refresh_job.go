package jobs

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/application/readmodel"

	"github.com/robfig/cron/v3"
)

// DefaultReadModelRefreshSchedule rebuilds the role queues once a minute.
const DefaultReadModelRefreshSchedule = "0 * * * * *"

type readModelRebuilder interface {
	Rebuild(ctx context.Context, source readmodel.SnapshotSource) error
}

// ReadModelRefreshJob rebuilds the role queues from the order record store. It covers
// notifications lost to a crash between commit and publish, and transitions made by
// other instances sharing the database.
type ReadModelRefreshJob struct {
	queues   readModelRebuilder
	source   readmodel.SnapshotSource
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReadModelRefreshJob creates the job. schedule is a six-field cron expression;
// empty means DefaultReadModelRefreshSchedule.
func NewReadModelRefreshJob(
	queues readModelRebuilder,
	source readmodel.SnapshotSource,
	schedule string,
	logger *slog.Logger,
) *ReadModelRefreshJob {
	if schedule == "" {
		schedule = DefaultReadModelRefreshSchedule
	}
	return &ReadModelRefreshJob{
		queues:   queues,
		source:   source,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "read_model_refresh_job"),
	}
}

// RunOnce rebuilds the queues now. Errors are logged and returned.
func (j *ReadModelRefreshJob) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if err := j.queues.Rebuild(ctx, j.source); err != nil {
		j.logger.ErrorContext(ctx, "Read model refresh failed", "error", err)
		return err
	}
	return nil
}

// Start schedules the rebuild.
func (j *ReadModelRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Read model refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running rebuild to finish.
func (j *ReadModelRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Read model refresh job stopped")
}
