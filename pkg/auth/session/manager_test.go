package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string { return "session:access:" + accessID }

func newTestManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}
}

func TestGenerateStoresToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store)

	token, err := m.Generate(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if store.values["session:access:jti-1"] != token {
		t.Fatal("expected token stored under access key")
	}
}

func TestRotateSwapsSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store)

	token, err := m.Generate(context.Background(), "jti-old")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newID, newToken, err := m.Rotate(context.Background(), "jti-old", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, ok := store.values["session:access:jti-old"]; ok {
		t.Fatal("expected old session deleted")
	}
	if store.values["session:access:"+newID] != newToken {
		t.Fatal("expected new session stored")
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store)

	if _, err := m.Generate(context.Background(), "jti-old"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := m.Rotate(context.Background(), "jti-old", "forged"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestHasSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := newTestManager(store)

	if _, err := m.Generate(context.Background(), "jti-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	ok, err := m.HasSession(context.Background(), "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}
	ok, err = m.HasSession(context.Background(), "jti-missing")
	if err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}
}
