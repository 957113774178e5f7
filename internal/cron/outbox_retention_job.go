package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/portside-hq/portside-backend/pkg/logger"
)

const defaultOutboxRetention = 30 * 24 * time.Hour

// retentionRepository prunes delivered outbox rows.
type retentionRepository interface {
	DeletePublishedBefore(cutoff time.Time) (int64, error)
}

// OutboxRetentionJobParams configure the outbox retention job.
type OutboxRetentionJobParams struct {
	Logger    *logger.Logger
	Outbox    retentionRepository
	Retention time.Duration
}

// OutboxRetentionJob deletes published outbox events older than the
// retention window. Unpublished and failed rows are never touched.
type OutboxRetentionJob struct {
	logg      *logger.Logger
	outbox    retentionRepository
	retention time.Duration
	now       func() time.Time
}

// NewOutboxRetentionJob builds the retention job.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (*OutboxRetentionJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOutboxRetention
	}
	return &OutboxRetentionJob{
		logg:      params.Logger,
		outbox:    params.Outbox,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *OutboxRetentionJob) Name() string {
	return "outbox_retention"
}

// Run prunes published events past the retention window.
func (j *OutboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	deleted, err := j.outbox.DeletePublishedBefore(cutoff)
	if err != nil {
		return fmt.Errorf("delete published events: %w", err)
	}
	if deleted > 0 {
		ctx = j.logg.WithField(ctx, "deleted_count", deleted)
		j.logg.Info(ctx, "published outbox events pruned")
	}
	return nil
}
