// Package redis implements the local key/value store on Redis.
package redis

import (
	"context"
	"errors"

	"dietcoach/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Store keeps every key under namespace+":"+key.
type Store struct {
	client    goredis.UniversalClient
	namespace string
}

var _ domain.KVStore = (*Store)(nil)

// New connects to a single Redis node.
func New(addr, password, namespace string) *Store {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return NewWithClient(rdb, namespace)
}

// NewWithClient wraps an existing client.
func NewWithClient(client goredis.UniversalClient, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

// Remove deletes keys with one DEL.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...).Err()
}
