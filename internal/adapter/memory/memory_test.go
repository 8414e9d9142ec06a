package memory

import (
	"context"
	"errors"
	"testing"
)

func TestStore(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "authToken"); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "authToken", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "authToken")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	// Overwrite
	_ = s.Set(ctx, "authToken", "def")
	v, _, _ = s.Get(ctx, "authToken")
	if v != "def" {
		t.Errorf("expected overwritten value, got %q", v)
	}

	_ = s.Set(ctx, "users", "{}")
	if err := s.Remove(ctx, "authToken", "users", "missing"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d keys", s.Len())
	}
}

func TestStore_FailWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Set(ctx, "k", "v")

	boom := errors.New("disk full")
	s.FailWrites(boom)
	if err := s.Set(ctx, "k", "w"); !errors.Is(err, boom) {
		t.Fatalf("Set error = %v; want %v", err, boom)
	}
	if err := s.Remove(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("Remove error = %v; want %v", err, boom)
	}
	v, _, _ := s.Get(ctx, "k")
	if v != "v" {
		t.Errorf("failed write changed the value to %q", v)
	}

	s.FailWrites(nil)
	if err := s.Set(ctx, "k", "w"); err != nil {
		t.Fatalf("Set after restore: %v", err)
	}
}
