package app

import (
	"context"
	"io"
	"sync"

	"dietcoach/internal/adapter/memory"
	"dietcoach/internal/domain"
)

type mockAuthAPI struct {
	loginFn    func(ctx context.Context, c domain.Credentials) domain.Result[*domain.Session]
	registerFn func(ctx context.Context, r domain.Registration) domain.Result[*domain.Session]
	pingFn     func(ctx context.Context) domain.Result[struct{}]
}

func (m *mockAuthAPI) Login(ctx context.Context, c domain.Credentials) domain.Result[*domain.Session] {
	if m.loginFn != nil {
		return m.loginFn(ctx, c)
	}
	return domain.OK(&domain.Session{Token: "tok"})
}

func (m *mockAuthAPI) Register(ctx context.Context, r domain.Registration) domain.Result[*domain.Session] {
	if m.registerFn != nil {
		return m.registerFn(ctx, r)
	}
	return domain.OK[*domain.Session](nil)
}

func (m *mockAuthAPI) Ping(ctx context.Context) domain.Result[struct{}] {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return domain.OK(struct{}{})
}

type mockSurveyAPI struct {
	fetchFn  func(ctx context.Context) domain.Result[*domain.UserProfile]
	submitFn func(ctx context.Context, p domain.UserProfile) domain.Result[*domain.UserProfile]
}

func (m *mockSurveyAPI) FetchSurveyProfile(ctx context.Context) domain.Result[*domain.UserProfile] {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return domain.OK[*domain.UserProfile](nil)
}

func (m *mockSurveyAPI) SubmitSurvey(ctx context.Context, p domain.UserProfile) domain.Result[*domain.UserProfile] {
	if m.submitFn != nil {
		return m.submitFn(ctx, p)
	}
	return domain.OK(&p)
}

type mockFoodAPI struct {
	listFn        func(ctx context.Context) domain.Result[[]domain.EatenFoodEntry]
	getFn         func(ctx context.Context, id string) domain.Result[*domain.EatenFoodEntry]
	addFn         func(ctx context.Context, e domain.EatenFoodEntry) domain.Result[*domain.EatenFoodEntry]
	updateFn      func(ctx context.Context, id string, e domain.EatenFoodEntry) domain.Result[*domain.EatenFoodEntry]
	deleteFn      func(ctx context.Context, id string) domain.Result[struct{}]
	uploadFn      func(ctx context.Context, filename string, r io.Reader) domain.Result[string]
	deleteImageFn func(ctx context.Context, url string) domain.Result[struct{}]
}

func (m *mockFoodAPI) ListTodayEatenFoods(ctx context.Context) domain.Result[[]domain.EatenFoodEntry] {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return domain.OK([]domain.EatenFoodEntry{})
}

func (m *mockFoodAPI) GetEatenFood(ctx context.Context, id string) domain.Result[*domain.EatenFoodEntry] {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Fail[*domain.EatenFoodEntry](&domain.Error{Kind: domain.KindApplication, Status: 404})
}

func (m *mockFoodAPI) AddEatenFood(ctx context.Context, e domain.EatenFoodEntry) domain.Result[*domain.EatenFoodEntry] {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	return domain.OK(&e)
}

func (m *mockFoodAPI) UpdateEatenFood(ctx context.Context, id string, e domain.EatenFoodEntry) domain.Result[*domain.EatenFoodEntry] {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, e)
	}
	return domain.OK(&e)
}

func (m *mockFoodAPI) DeleteEatenFood(ctx context.Context, id string) domain.Result[struct{}] {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return domain.OK(struct{}{})
}

func (m *mockFoodAPI) UploadEatenFoodImage(ctx context.Context, filename string, r io.Reader) domain.Result[string] {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, filename, r)
	}
	return domain.OK("https://cdn.example.com/" + filename)
}

func (m *mockFoodAPI) DeleteEatenFoodImage(ctx context.Context, url string) domain.Result[struct{}] {
	if m.deleteImageFn != nil {
		return m.deleteImageFn(ctx, url)
	}
	return domain.OK(struct{}{})
}

type mockRecommendationAPI struct {
	generateFn func(ctx context.Context) domain.Result[[]domain.DietRecommendationItem]
	recipeFn   func(ctx context.Context, id string) domain.Result[*domain.Recipe]
	mealKitFn  func(ctx context.Context, id string) domain.Result[*domain.MealKit]
	linkFn     func(ctx context.Context, id string) domain.Result[string]
	analyzeFn  func(ctx context.Context, name string) domain.Result[[]domain.FoodAnalysis]
}

func (m *mockRecommendationAPI) GenerateRecommendations(ctx context.Context) domain.Result[[]domain.DietRecommendationItem] {
	if m.generateFn != nil {
		return m.generateFn(ctx)
	}
	return domain.OK([]domain.DietRecommendationItem{})
}

func (m *mockRecommendationAPI) GetRecipe(ctx context.Context, id string) domain.Result[*domain.Recipe] {
	if m.recipeFn != nil {
		return m.recipeFn(ctx, id)
	}
	return domain.OK(&domain.Recipe{ID: id})
}

func (m *mockRecommendationAPI) GetMealKit(ctx context.Context, id string) domain.Result[*domain.MealKit] {
	if m.mealKitFn != nil {
		return m.mealKitFn(ctx, id)
	}
	return domain.OK(&domain.MealKit{ID: id})
}

func (m *mockRecommendationAPI) GetPurchaseLink(ctx context.Context, id string) domain.Result[string] {
	if m.linkFn != nil {
		return m.linkFn(ctx, id)
	}
	return domain.OK("https://shop.example.com/" + id)
}

func (m *mockRecommendationAPI) AnalyzeFood(ctx context.Context, name string) domain.Result[[]domain.FoodAnalysis] {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, name)
	}
	return domain.OK([]domain.FoodAnalysis{})
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (r *recordingAlerter) Alert(_ context.Context, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, title+": "+message)
}

func (r *recordingAlerter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

func newTestStore() (*LocalStore, *memory.Store) {
	kv := memory.New()
	return NewLocalStore(kv, nil), kv
}

var connErr = &domain.Error{Kind: domain.KindConnectivity, Message: domain.NetworkFailedMessage}

func validProfile() *domain.UserProfile {
	return &domain.UserProfile{
		Gender:        domain.GenderMale,
		Age:           30,
		Height:        175,
		Weight:        70,
		ActivityLevel: domain.ActivityModerate,
	}
}
