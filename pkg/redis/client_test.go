package redis

import (
	"context"
	"testing"
)

func TestBuildKeyNamespacesParts(t *testing.T) {
	t.Parallel()

	c := &Client{}
	got := c.IdempotencyKey("orders", "abc-123")
	want := "ps:idempotency:orders:abc-123"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	t.Parallel()

	c := &Client{}
	got := c.buildKey("rate_limit", "", "login:ip:10.0.0.1")
	want := "ps:rate_limit:login:ip:10.0.0.1"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestAccessSessionKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	got := c.AccessSessionKey("jti-1")
	want := "ps:session:access:jti-1"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestClientRequiresInitialization(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if err := c.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}
