// Package app holds the application services that orchestrate the local
// store, the backend client and the derived-metric calculations.
package app

import (
	"context"

	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"go.uber.org/zap"
)

// ErrMissingToken indicates that a successful login response carried no token.
var ErrMissingToken = &domain.Error{Kind: domain.KindApplication, Message: "login response did not include a token"}

// AuthService handles login, signup and logout.
type AuthService struct {
	api    domain.AuthAPI
	survey domain.SurveyAPI
	store  *LocalStore
	log    *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(api domain.AuthAPI, survey domain.SurveyAPI, store *LocalStore, log *zap.Logger) *AuthService {
	return &AuthService{
		api:    api,
		survey: survey,
		store:  store,
		log:    logging.OrNop(log).Named("auth"),
	}
}

// LoginOutcome tells the caller where to go next.
type LoginOutcome struct {
	Account         *domain.Account `json:"account,omitempty"`
	SurveyCompleted bool            `json:"survey_completed"`
}

// Status is the locally known session state.
type Status struct {
	LoggedIn        bool            `json:"logged_in"`
	SurveyCompleted bool            `json:"survey_completed"`
	Account         *domain.Account `json:"account,omitempty"`
}

// Login authenticates, stores the token and account, then pulls the survey
// profile so the caller knows whether onboarding is still pending.
func (s *AuthService) Login(ctx context.Context, c domain.Credentials) (*LoginOutcome, error) {
	if err := domain.ValidateCredentials(c); err != nil {
		return nil, err
	}

	res := s.api.Login(ctx, c)
	if !res.Success {
		return nil, res.Err()
	}
	if res.Data == nil || res.Data.Token == "" {
		return nil, ErrMissingToken
	}

	s.store.SetAuthToken(ctx, res.Data.Token)
	s.store.SetAccount(ctx, res.Data.Account)

	out := &LoginOutcome{Account: res.Data.Account}
	info := s.survey.FetchSurveyProfile(ctx)
	switch {
	case info.Success && info.Data != nil && info.Data.Valid():
		s.store.SetUserProfile(ctx, info.Data)
		s.store.SetSurveyCompleted(ctx, true)
		out.SurveyCompleted = true
	case info.Success:
		s.store.SetSurveyCompleted(ctx, false)
	default:
		s.log.Warn("survey profile unavailable after login",
			zap.Stringer("kind", info.Kind), zap.String("error", info.Error))
	}
	return out, nil
}

// Register validates the signup form and creates the account. When the
// backend answers with a token the user is logged in immediately.
func (s *AuthService) Register(ctx context.Context, r domain.Registration) (*domain.Account, error) {
	r, err := domain.NormalizeRegistration(r)
	if err != nil {
		return nil, err
	}

	res := s.api.Register(ctx, r)
	if !res.Success {
		return nil, res.Err()
	}
	if res.Data == nil {
		return nil, nil
	}
	s.store.SetAuthToken(ctx, res.Data.Token)
	s.store.SetAccount(ctx, res.Data.Account)
	return res.Data.Account, nil
}

// Logout clears every local slot. The token is not revoked server-side.
func (s *AuthService) Logout(ctx context.Context) {
	s.store.ClearAll(ctx)
}

// Status reports the locally known session state.
func (s *AuthService) Status(ctx context.Context) Status {
	return Status{
		LoggedIn:        s.store.AuthToken(ctx) != "",
		SurveyCompleted: s.store.SurveyCompleted(ctx),
		Account:         s.store.Account(ctx),
	}
}

// Ping checks that the backend is reachable.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx).Err()
}
