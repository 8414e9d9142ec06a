package app

import (
	"context"
	"time"

	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"go.uber.org/zap"
)

// SurveyService submits and loads the onboarding survey profile.
type SurveyService struct {
	api   domain.SurveyAPI
	store *LocalStore
	log   *zap.Logger
	now   func() time.Time
}

// NewSurveyService creates a new survey service.
func NewSurveyService(api domain.SurveyAPI, store *LocalStore, log *zap.Logger) *SurveyService {
	return &SurveyService{
		api:   api,
		store: store,
		log:   logging.OrNop(log).Named("survey"),
		now:   time.Now,
	}
}

// Submit validates the answers, sends the profile and caches it. Invalid
// answers fail before any network call.
func (s *SurveyService) Submit(ctx context.Context, answers domain.SurveyAnswers) (*domain.UserProfile, error) {
	profile, err := answers.Profile(s.now())
	if err != nil {
		return nil, err
	}

	res := s.api.SubmitSurvey(ctx, profile)
	if !res.Success {
		s.log.Warn("survey submit failed", zap.Stringer("kind", res.Kind), zap.String("error", res.Error))
		return nil, res.Err()
	}

	// The server echo may omit fields it does not store.
	saved := &profile
	if res.Data != nil && res.Data.Valid() {
		saved = res.Data
	}
	s.store.SetUserProfile(ctx, saved)
	s.store.SetSurveyCompleted(ctx, true)
	return saved, nil
}

// Load returns the cached profile unless refresh is set or nothing is
// cached, in which case it is fetched from the backend.
func (s *SurveyService) Load(ctx context.Context, refresh bool) (*domain.UserProfile, error) {
	if !refresh {
		if p := s.store.UserProfile(ctx); p != nil {
			return p, nil
		}
	}

	res := s.api.FetchSurveyProfile(ctx)
	if !res.Success {
		if p := s.store.UserProfile(ctx); p != nil {
			s.log.Warn("serving cached profile", zap.String("error", res.Error))
			return p, nil
		}
		return nil, res.Err()
	}
	if res.Data == nil {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: "survey not completed"}
	}
	s.store.SetUserProfile(ctx, res.Data)
	if res.Data.Valid() {
		s.store.SetSurveyCompleted(ctx, true)
	}
	return res.Data, nil
}
