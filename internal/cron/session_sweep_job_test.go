package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	"github.com/portside-hq/portside-backend/pkg/logger"
	"github.com/portside-hq/portside-backend/pkg/outbox"
)

func TestSessionSweepJobDeletesExpiredDrafts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := models.WizardSession{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		ExpiresAt:      now.Add(-time.Hour),
	}
	repo := &fakeSweepRepo{drafts: []models.WizardSession{expired}}
	publisher := &fakeSweepPublisher{}
	job := newSessionSweepJob(t, repo, publisher)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != expired.ID {
		t.Fatalf("expected session %s deleted, got %v", expired.ID, repo.deleted)
	}
	if !repo.lastCutoff.Equal(now) {
		t.Fatalf("expected cutoff %s, got %s", now, repo.lastCutoff)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 sweep event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != enums.EventWizardSessionSwept {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	if event.AggregateID != expired.ID {
		t.Fatalf("expected aggregate %s, got %s", expired.ID, event.AggregateID)
	}
}

func TestSessionSweepJobNoDraftsIsNoop(t *testing.T) {
	repo := &fakeSweepRepo{}
	publisher := &fakeSweepPublisher{}
	job := newSessionSweepJob(t, repo, publisher)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.deleted) != 0 || len(publisher.events) != 0 {
		t.Fatalf("expected no work, got deletes=%d events=%d", len(repo.deleted), len(publisher.events))
	}
}

func TestSessionSweepJobPropagatesDeleteError(t *testing.T) {
	repo := &fakeSweepRepo{
		drafts:    []models.WizardSession{{ID: uuid.New()}},
		deleteErr: errors.New("boom"),
	}
	job := newSessionSweepJob(t, repo, &fakeSweepPublisher{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newSessionSweepJob(t *testing.T, repo *fakeSweepRepo, publisher *fakeSweepPublisher) *SessionSweepJob {
	t.Helper()
	job, err := NewSessionSweepJob(SessionSweepJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:       sweepTxRunner{},
		Sessions: repo,
		Outbox:   publisher,
	})
	if err != nil {
		t.Fatalf("NewSessionSweepJob: %v", err)
	}
	return job
}

type fakeSweepRepo struct {
	drafts     []models.WizardSession
	deleted    []uuid.UUID
	lastCutoff time.Time
	deleteErr  error
}

func (f *fakeSweepRepo) ListExpiredDrafts(ctx context.Context, cutoff time.Time, limit int) ([]models.WizardSession, error) {
	f.lastCutoff = cutoff
	remaining := make([]models.WizardSession, 0, len(f.drafts))
	for _, draft := range f.drafts {
		stillPresent := true
		for _, id := range f.deleted {
			if id == draft.ID {
				stillPresent = false
				break
			}
		}
		if stillPresent {
			remaining = append(remaining, draft)
		}
	}
	if limit < len(remaining) {
		remaining = remaining[:limit]
	}
	return remaining, nil
}

func (f *fakeSweepRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSweepPublisher struct {
	events []outbox.DomainEvent
}

func (f *fakeSweepPublisher) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type sweepTxRunner struct{}

func (sweepTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
