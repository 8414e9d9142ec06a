package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestKeyNamespace(t *testing.T) {
	s := &Store{namespace: "dietcoach"}
	if got := s.key("authToken"); got != "dietcoach:authToken" {
		t.Errorf("key() = %q", got)
	}
	s.namespace = ""
	if got := s.key("authToken"); got != "authToken" {
		t.Errorf("key() without namespace = %q", got)
	}
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), "dietcoach")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	if v, ok, err := s.Get(ctx, "authToken"); err != nil || ok || v != "" {
		t.Fatalf("Get missing = %q, %v, %v", v, ok, err)
	}

	if err := s.Set(ctx, "authToken", "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := mr.Get("dietcoach:authToken"); err != nil || got != "tok" {
		t.Errorf("raw key = %q, %v", got, err)
	}
	if mr.TTL("dietcoach:authToken") != 0 {
		t.Error("Set should not expire")
	}
	if v, ok, err := s.Get(ctx, "authToken"); err != nil || !ok || v != "tok" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	mr.Set("dietcoach:authToken", "tok")
	mr.Set("dietcoach:userInfo", "{}")
	mr.Set("other:authToken", "keep")

	if err := s.Remove(ctx, "authToken", "userInfo", "neverSet"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if mr.Exists("dietcoach:authToken") || mr.Exists("dietcoach:userInfo") {
		t.Error("namespaced keys should be gone")
	}
	if !mr.Exists("other:authToken") {
		t.Error("keys outside the namespace should survive")
	}
	if err := s.Remove(ctx); err != nil {
		t.Errorf("Remove with no keys: %v", err)
	}
}

func TestStore_Unreachable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()
	if _, _, err := s.Get(context.Background(), "authToken"); err == nil {
		t.Error("Get against a closed server should fail")
	}
}
