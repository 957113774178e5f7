package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	"github.com/portside-hq/portside-backend/pkg/logger"
	"github.com/portside-hq/portside-backend/pkg/outbox"
	"github.com/portside-hq/portside-backend/pkg/outbox/payloads"
)

const sessionSweepBatchSize = 200

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// sweepRepository lists and removes expired wizard drafts.
type sweepRepository interface {
	ListExpiredDrafts(ctx context.Context, cutoff time.Time, limit int) ([]models.WizardSession, error)
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

// sweepPublisher records sweep events alongside the deletes.
type sweepPublisher interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SessionSweepJobParams configure the expired draft sweep.
type SessionSweepJobParams struct {
	Logger   *logger.Logger
	DB       txRunner
	Sessions sweepRepository
	Outbox   sweepPublisher
}

// SessionSweepJob deletes wizard drafts whose expiry has passed. Reads
// already treat expired drafts as gone; this job reclaims the rows.
type SessionSweepJob struct {
	logg     *logger.Logger
	db       txRunner
	sessions sweepRepository
	outbox   sweepPublisher
	now      func() time.Time
}

// NewSessionSweepJob builds the sweep job.
func NewSessionSweepJob(params SessionSweepJobParams) (*SessionSweepJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &SessionSweepJob{
		logg:     params.Logger,
		db:       params.DB,
		sessions: params.Sessions,
		outbox:   params.Outbox,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *SessionSweepJob) Name() string {
	return "wizard_session_sweep"
}

// Run deletes expired drafts in batches until none remain. A failed delete
// does not stop the rest of the batch.
func (j *SessionSweepJob) Run(ctx context.Context) error {
	cutoff := j.now()
	swept := 0
	var errs []error
	for {
		sessions, err := j.sessions.ListExpiredDrafts(ctx, cutoff, sessionSweepBatchSize)
		if err != nil {
			return fmt.Errorf("list expired drafts: %w", err)
		}
		if len(sessions) == 0 {
			break
		}
		for _, session := range sessions {
			if err := j.sweep(ctx, session); err != nil {
				errs = append(errs, err)
				continue
			}
			swept++
		}
		if len(errs) > 0 || len(sessions) < sessionSweepBatchSize {
			break
		}
	}
	if swept > 0 {
		ctx = j.logg.WithField(ctx, "swept_count", swept)
		j.logg.Info(ctx, "expired wizard drafts removed")
	}
	return multierr.Combine(errs...)
}

func (j *SessionSweepJob) sweep(ctx context.Context, session models.WizardSession) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := j.sessions.DeleteTx(ctx, tx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventWizardSessionSwept,
			AggregateType: enums.AggregateWizardSession,
			AggregateID:   session.ID,
			Data: payloads.WizardSessionSweptEvent{
				SessionID:      session.ID,
				UserID:         session.UserID,
				OrganizationID: session.OrganizationID,
				ExpiredAt:      session.ExpiresAt,
			},
		}
		if err := j.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
			return fmt.Errorf("emit sweep event: %w", err)
		}
		return nil
	})
}
