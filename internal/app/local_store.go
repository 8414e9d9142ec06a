package app

import (
	"context"
	"encoding/json"
	"errors"

	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrLoginRequired indicates that no auth token is stored.
var ErrLoginRequired = &domain.Error{Kind: domain.KindValidation, Message: "login required"}

// LocalStore is the typed facade over device storage. Getters return a zero
// value when a slot is missing or unreadable; setters log failures and never
// return them. Nil values are not written.
type LocalStore struct {
	kv  domain.KVStore
	log *zap.Logger
}

// NewLocalStore wraps kv.
func NewLocalStore(kv domain.KVStore, log *zap.Logger) *LocalStore {
	return &LocalStore{kv: kv, log: logging.OrNop(log).Named("store")}
}

// AuthToken returns the stored token or "".
func (s *LocalStore) AuthToken(ctx context.Context) string {
	v, ok, err := s.kv.Get(ctx, domain.KeyAuthToken)
	if err != nil {
		s.log.Warn("read failed", zap.String("key", domain.KeyAuthToken), zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// SetAuthToken stores the raw token. An empty token is ignored.
func (s *LocalStore) SetAuthToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.kv.Set(ctx, domain.KeyAuthToken, token); err != nil {
		s.log.Error("write failed", zap.String("key", domain.KeyAuthToken), zap.Error(err))
	}
}

// RemoveAuthToken deletes the token.
func (s *LocalStore) RemoveAuthToken(ctx context.Context) {
	if err := s.kv.Remove(ctx, domain.KeyAuthToken); err != nil {
		s.log.Error("remove failed", zap.String("key", domain.KeyAuthToken), zap.Error(err))
	}
}

// UserProfile returns the cached survey profile or nil.
func (s *LocalStore) UserProfile(ctx context.Context) *domain.UserProfile {
	p, ok := getJSON[domain.UserProfile](ctx, s, domain.KeyUserProfile)
	if !ok {
		return nil
	}
	return &p
}

// SetUserProfile caches the survey profile.
func (s *LocalStore) SetUserProfile(ctx context.Context, p *domain.UserProfile) {
	if p == nil {
		return
	}
	setJSON(ctx, s, domain.KeyUserProfile, p)
}

// Account returns the cached account record or nil.
func (s *LocalStore) Account(ctx context.Context) *domain.Account {
	a, ok := getJSON[domain.Account](ctx, s, domain.KeyAccount)
	if !ok {
		return nil
	}
	return &a
}

// SetAccount caches the account record.
func (s *LocalStore) SetAccount(ctx context.Context, a *domain.Account) {
	if a == nil {
		return
	}
	setJSON(ctx, s, domain.KeyAccount, a)
}

// SurveyCompleted reports the survey-completed flag.
func (s *LocalStore) SurveyCompleted(ctx context.Context) bool {
	done, _ := getJSON[bool](ctx, s, domain.KeySurveyCompleted)
	return done
}

// SetSurveyCompleted stores the survey-completed flag.
func (s *LocalStore) SetSurveyCompleted(ctx context.Context, done bool) {
	setJSON(ctx, s, domain.KeySurveyCompleted, done)
}

// EatenFoods returns the cached entry list. ok is false on a cache miss.
func (s *LocalStore) EatenFoods(ctx context.Context) ([]domain.EatenFoodEntry, bool) {
	return getJSON[[]domain.EatenFoodEntry](ctx, s, domain.KeyEatenFoods)
}

// SetEatenFoods replaces the cached entry list. A nil list is ignored; an
// empty one is stored.
func (s *LocalStore) SetEatenFoods(ctx context.Context, entries []domain.EatenFoodEntry) {
	if entries == nil {
		return
	}
	setJSON(ctx, s, domain.KeyEatenFoods, entries)
}

// Recommendations returns the cached recommendation list. ok is false on a
// cache miss.
func (s *LocalStore) Recommendations(ctx context.Context) ([]domain.DietRecommendationItem, bool) {
	return getJSON[[]domain.DietRecommendationItem](ctx, s, domain.KeyRecommendations)
}

// SetRecommendations replaces the cached recommendation list.
func (s *LocalStore) SetRecommendations(ctx context.Context, items []domain.DietRecommendationItem) {
	if items == nil {
		return
	}
	setJSON(ctx, s, domain.KeyRecommendations, items)
}

// ClearAll removes every known slot. The underlying store may not apply the
// removal atomically; callers re-read state afterwards.
func (s *LocalStore) ClearAll(ctx context.Context) {
	if err := s.kv.Remove(ctx, domain.AllKeys...); err != nil {
		s.log.Error("clear failed", zap.Error(err))
	}
}

// TokenSource exposes the stored token as an oauth2.TokenSource for the
// backend client.
func (s *LocalStore) TokenSource(ctx context.Context) oauth2.TokenSource {
	return storeTokenSource{ctx: ctx, store: s}
}

type storeTokenSource struct {
	ctx   context.Context
	store *LocalStore
}

func (ts storeTokenSource) Token() (*oauth2.Token, error) {
	tok := ts.store.AuthToken(ts.ctx)
	if tok == "" {
		return nil, ErrLoginRequired
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

func getJSON[T any](ctx context.Context, s *LocalStore, key string) (T, bool) {
	var zero T
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("read failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok || raw == "" || raw == "null" {
		return zero, false
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn("stored value is not valid JSON", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

func setJSON(ctx context.Context, s *LocalStore, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		s.log.Error("write failed", zap.String("key", key), zap.Error(err))
	}
}

// IsLoginRequired reports whether err means no token is stored.
func IsLoginRequired(err error) bool {
	return errors.Is(err, ErrLoginRequired)
}
