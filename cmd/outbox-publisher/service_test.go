package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := testOutboxEvent()
	repo := &fakeOutboxRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(pub.messages))
	}
	if pub.messages[0].Attributes["event_type"] != string(event.EventType) {
		t.Fatalf("unexpected event_type attribute %q", pub.messages[0].Attributes["event_type"])
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event %s marked published, got %v", event.ID, repo.published)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failures, got %v", repo.failed)
	}
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	broken := testOutboxEvent()
	healthy := testOutboxEvent()
	repo := &fakeOutboxRepo{events: []models.OutboxEvent{broken, healthy}}
	pub := &fakePublisher{errFor: map[uuid.UUID]error{broken.AggregateID: errors.New("boom")}}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != broken.ID {
		t.Fatalf("expected failure for %s, got %v", broken.ID, repo.failed)
	}
	if len(repo.published) != 1 || repo.published[0] != healthy.ID {
		t.Fatalf("expected %s published, got %v", healthy.ID, repo.published)
	}
}

func TestProcessBatchEmptyIsNoop(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := newTestService(t, repo, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if processed {
		t.Fatal("expected empty batch")
	}
}

func newTestService(t *testing.T, repo *fakeOutboxRepo, pub *fakePublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:           &config.Config{},
		Logger:           logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository:       repo,
		PublisherFactory: func() publisher { return pub },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testOutboxEvent() models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"event_id":"x"}`),
	}
}

type fakeOutboxRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeOutboxRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeOutboxRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	errFor   map[uuid.UUID]error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if err, ok := f.errFor[uuid.MustParse(msg.Attributes["aggregate_id"])]; ok {
		return fakeResult{err: err}
	}
	f.messages = append(f.messages, msg)
	return fakeResult{}
}

type fakeResult struct {
	err error
}

func (f fakeResult) Get(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "msg-id", nil
}
