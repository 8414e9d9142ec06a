package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"go.uber.org/zap"
)

// RecommendationState is the refresh state of the recommendation list.
type RecommendationState string

const (
	StateCached       RecommendationState = "cached"
	StateRefreshing   RecommendationState = "refreshing"
	StateStaleOffline RecommendationState = "stale_offline"
)

// Refresh policy for connectivity failures.
const (
	DefaultRefreshRetries = 2
	DefaultRefreshBackoff = 2 * time.Second
)

const (
	alertTitle          = "추천 식단"
	offlineAlertMessage = "네트워크 연결을 확인해주세요. 저장된 추천 식단을 표시합니다."
)

// RecommendationView is what the recommendation screen renders.
type RecommendationView struct {
	Items   []domain.DietRecommendationItem `json:"items"`
	State   RecommendationState             `json:"state"`
	Offline bool                            `json:"offline"`
	Error   string                          `json:"error,omitempty"`
}

// RecommendationService serves the cached recommendation list and refreshes
// it with retry on connectivity failures.
type RecommendationService struct {
	api    domain.RecommendationAPI
	store  *LocalStore
	alerts Alerter
	log    *zap.Logger

	retries int
	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	state   RecommendationState
	offline bool
	alerted bool
}

// NewRecommendationService creates a new recommendation service. backoff is
// the base delay; attempt n waits n*backoff.
func NewRecommendationService(api domain.RecommendationAPI, store *LocalStore, alerts Alerter, backoff time.Duration, log *zap.Logger) *RecommendationService {
	if backoff <= 0 {
		backoff = DefaultRefreshBackoff
	}
	return &RecommendationService{
		api:     api,
		store:   store,
		alerts:  alerts,
		log:     logging.OrNop(log).Named("recommendations"),
		retries: DefaultRefreshRetries,
		backoff: backoff,
		sleep:   sleepCtx,
		state:   StateCached,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State reports the current refresh state and offline flag.
func (s *RecommendationService) State() (RecommendationState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.offline
}

// Load serves the cached list unless force is set or nothing is cached. A
// refresh retries connectivity failures with linear backoff. The returned
// error is nil whenever there is a list to show.
func (s *RecommendationService) Load(ctx context.Context, force bool) (*RecommendationView, error) {
	cached, hasCache := s.store.Recommendations(ctx)

	s.mu.Lock()
	if hasCache && !force {
		if s.state != StateRefreshing {
			s.state = StateCached
		}
		view := &RecommendationView{Items: cached, State: s.state, Offline: s.offline}
		s.mu.Unlock()
		return view, nil
	}
	if s.state == StateRefreshing {
		view := &RecommendationView{Items: cached, State: StateRefreshing, Offline: s.offline}
		s.mu.Unlock()
		return nonNilItems(view), nil
	}
	s.state = StateRefreshing
	s.mu.Unlock()

	res := s.generate(ctx)
	if res.Success {
		items := res.Data
		if items == nil {
			items = []domain.DietRecommendationItem{}
		}
		s.store.SetRecommendations(ctx, items)

		s.mu.Lock()
		s.state, s.offline, s.alerted = StateCached, false, false
		s.mu.Unlock()
		return &RecommendationView{Items: items, State: StateCached}, nil
	}

	view := &RecommendationView{Items: cached, Error: res.Error}
	s.mu.Lock()
	if res.Kind == domain.KindConnectivity {
		s.state, s.offline = StateStaleOffline, true
	} else {
		s.state = StateCached
	}
	view.State, view.Offline = s.state, s.offline
	s.mu.Unlock()

	// Only connectivity failures share the per-episode guard. Every
	// application error is shown.
	if res.Kind == domain.KindConnectivity {
		s.alertOnce(ctx, offlineAlertMessage)
	} else if s.alerts != nil {
		s.alerts.Alert(ctx, alertTitle, res.Error)
	}

	if !hasCache {
		return nonNilItems(view), res.Err()
	}
	return view, nil
}

// generate calls the backend, retrying connectivity failures only.
func (s *RecommendationService) generate(ctx context.Context) domain.Result[[]domain.DietRecommendationItem] {
	var res domain.Result[[]domain.DietRecommendationItem]
	for attempt := 0; ; attempt++ {
		res = s.api.GenerateRecommendations(ctx)
		if res.Success || res.Kind != domain.KindConnectivity {
			return res
		}
		s.alertOnce(ctx, offlineAlertMessage)
		if attempt >= s.retries {
			return res
		}
		wait := s.backoff * time.Duration(attempt+1)
		s.log.Info("retrying recommendation refresh",
			zap.Int("attempt", attempt+1), zap.Duration("wait", wait), zap.String("error", res.Error))
		if err := s.sleep(ctx, wait); err != nil {
			return res
		}
	}
}

// alertOnce raises at most one alert until the next successful refresh.
func (s *RecommendationService) alertOnce(ctx context.Context, msg string) {
	s.mu.Lock()
	notify := !s.alerted
	s.alerted = true
	s.mu.Unlock()
	if notify && s.alerts != nil {
		s.alerts.Alert(ctx, alertTitle, msg)
	}
}

func nonNilItems(v *RecommendationView) *RecommendationView {
	if v.Items == nil {
		v.Items = []domain.DietRecommendationItem{}
	}
	return v
}

// Recipe returns the recipe behind a recommendation. A recipe that has not
// been generated yet is a KindNotFound error.
func (s *RecommendationService) Recipe(ctx context.Context, refID string) (*domain.Recipe, error) {
	if refID == "" {
		return nil, domain.Validationf("recommendation id is required")
	}
	res := s.api.GetRecipe(ctx, refID)
	if !res.Success {
		return nil, res.Err()
	}
	return res.Data, nil
}

// MealKit returns the meal kit behind a recommendation.
func (s *RecommendationService) MealKit(ctx context.Context, refID string) (*domain.MealKit, error) {
	if refID == "" {
		return nil, domain.Validationf("recommendation id is required")
	}
	res := s.api.GetMealKit(ctx, refID)
	if !res.Success {
		return nil, res.Err()
	}
	return res.Data, nil
}

// PurchaseLink returns the shop URL for a meal kit.
func (s *RecommendationService) PurchaseLink(ctx context.Context, refID string) (string, error) {
	if refID == "" {
		return "", domain.Validationf("recommendation id is required")
	}
	res := s.api.GetPurchaseLink(ctx, refID)
	if !res.Success {
		return "", res.Err()
	}
	return res.Data, nil
}

// AnalyzeFood looks up ingredients and a recipe for a dish name and returns
// the first match. It needs a stored session.
func (s *RecommendationService) AnalyzeFood(ctx context.Context, name string) (*domain.FoodAnalysis, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("food name is required")
	}
	if s.store.AuthToken(ctx) == "" {
		return nil, ErrLoginRequired
	}

	res := s.api.AnalyzeFood(ctx, name)
	if !res.Success {
		s.log.Warn("food analysis failed", zap.String("name", name), zap.String("error", res.Error))
		return nil, res.Err()
	}
	if len(res.Data) == 0 {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: domain.FoodNotFoundMessage(name)}
	}
	return &res.Data[0], nil
}
