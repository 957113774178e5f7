package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func completeGroupRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/agency/order-groups/abc/accept", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	hits := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, completeGroupRequest(`{}`))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, completeGroupRequest(`{}`))
	if second.Code != http.StatusOK {
		t.Fatalf("expected replayed 200, got %d", second.Code)
	}
	if hits != 1 {
		t.Fatalf("expected handler to run once, ran %d times", hits)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("replayed body does not match original")
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), completeGroupRequest(`{"notes":"a"}`))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, completeGroupRequest(`{"notes":"b"}`))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestIdempotencyRequiresHeaderOnMatchedRoute(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/agency/order-groups/abc/accept", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", rec.Code)
	}
}

func TestIdempotencySkipsUnmatchedRoutes(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	called := false
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("expected GET route to bypass idempotency")
	}
}
