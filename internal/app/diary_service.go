package app

import (
	"context"
	"io"
	"math"
	"slices"
	"sync"
	"time"

	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DailySummary is the home screen: today's entries and the numbers derived
// from them. RecommendedCalories is 0 when no valid profile is stored.
type DailySummary struct {
	Entries             []domain.EatenFoodEntry `json:"entries"`
	Totals              domain.NutritionTotals  `json:"totals"`
	RecommendedCalories int                     `json:"recommended_calories"`
	Targets             domain.NutritionTotals  `json:"targets"`
	RemainingCalories   float64                 `json:"remaining_calories"`
	Percent             domain.NutritionTotals  `json:"percent"`
	Stale               bool                    `json:"stale"`
}

// CaptureResult is a locally recorded photo entry. Warning is set when the
// image could not be stored on the server.
type CaptureResult struct {
	Entry   domain.EatenFoodEntry `json:"entry"`
	Warning string                `json:"warning,omitempty"`
}

const uploadFailedWarning = "서버 저장에 실패했지만 로컬 저장은 완료되었습니다."

// DiaryService manages today's eaten-food list.
type DiaryService struct {
	api     domain.FoodAPI
	store   *LocalStore
	formula domain.CalorieFormula
	alerts  Alerter
	log     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewDiaryService creates a new diary service.
func NewDiaryService(api domain.FoodAPI, store *LocalStore, formula domain.CalorieFormula, alerts Alerter, log *zap.Logger) *DiaryService {
	if formula == nil {
		formula = domain.MifflinStJeor{}
	}
	return &DiaryService{
		api:     api,
		store:   store,
		formula: formula,
		alerts:  alerts,
		log:     logging.OrNop(log).Named("diary"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Load returns today's summary. Without refresh a cached list is served
// as-is; otherwise the list is fetched and every entry's detail is pulled in
// parallel. If the fetch fails and a cache exists, the cache is served with
// Stale set.
func (s *DiaryService) Load(ctx context.Context, refresh bool) (*DailySummary, error) {
	cached, hasCache := s.store.EatenFoods(ctx)
	if hasCache && !refresh {
		return s.summarize(ctx, cached), nil
	}

	res := s.api.ListTodayEatenFoods(ctx)
	if !res.Success {
		if hasCache {
			s.log.Warn("serving cached entries", zap.Stringer("kind", res.Kind), zap.String("error", res.Error))
			sum := s.summarize(ctx, cached)
			sum.Stale = true
			return sum, nil
		}
		return nil, res.Err()
	}

	entries := s.fillDetails(ctx, res.Data)
	// Photo captures that never reached the server live only in the cache.
	for _, e := range cached {
		if e.ID == "" && e.LocalID != "" {
			entries = append(entries, e)
		}
	}
	s.store.SetEatenFoods(ctx, entries)
	return s.summarize(ctx, entries), nil
}

// fillDetails fetches every entry's detail concurrently. A failed lookup
// zeroes that entry's nutrition and leaves the rest untouched.
func (s *DiaryService) fillDetails(ctx context.Context, list []domain.EatenFoodEntry) []domain.EatenFoodEntry {
	out := make([]domain.EatenFoodEntry, len(list))
	copy(out, list)

	var wg sync.WaitGroup
	for i := range out {
		if out[i].ID == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := s.api.GetEatenFood(ctx, out[i].ID)
			if !res.Success || res.Data == nil {
				s.log.Warn("entry detail unavailable",
					zap.String("id", out[i].ID), zap.String("error", res.Error))
				out[i].Calories, out[i].Carbs, out[i].Protein, out[i].Fat = 0, 0, 0, 0
				return
			}
			out[i] = mergeEntry(out[i], *res.Data)
		}(i)
	}
	wg.Wait()
	return out
}

func mergeEntry(base, detail domain.EatenFoodEntry) domain.EatenFoodEntry {
	if detail.Name != "" {
		base.Name = detail.Name
	}
	if detail.ImageURL != "" {
		base.ImageURL = detail.ImageURL
	}
	if !detail.EatenAt.IsZero() {
		base.EatenAt = detail.EatenAt
	}
	base.Calories = detail.Calories
	base.Carbs = detail.Carbs
	base.Protein = detail.Protein
	base.Fat = detail.Fat
	return base
}

// Summary recomputes the summary from the cache without a network call.
func (s *DiaryService) Summary(ctx context.Context) *DailySummary {
	entries, _ := s.store.EatenFoods(ctx)
	return s.summarize(ctx, entries)
}

func (s *DiaryService) summarize(ctx context.Context, entries []domain.EatenFoodEntry) *DailySummary {
	if entries == nil {
		entries = []domain.EatenFoodEntry{}
	}
	sum := &DailySummary{
		Entries: entries,
		Totals:  domain.Aggregate(entries),
	}

	if p := s.store.UserProfile(ctx); p != nil && p.Valid() {
		sum.RecommendedCalories = s.formula.RecommendedCalories(*p)
	}
	sum.Targets = domain.MacroTargets(sum.RecommendedCalories)
	sum.RemainingCalories = math.Max(0, float64(sum.RecommendedCalories)-sum.Totals.Calories)
	sum.Percent = domain.NutritionTotals{
		Calories: domain.Percent(sum.Totals.Calories, sum.Targets.Calories),
		Carbs:    domain.Percent(sum.Totals.Carbs, sum.Targets.Carbs),
		Protein:  domain.Percent(sum.Totals.Protein, sum.Targets.Protein),
		Fat:      domain.Percent(sum.Totals.Fat, sum.Targets.Fat),
	}
	return sum
}

// Add records a new entry on the server and appends it to the cache.
func (s *DiaryService) Add(ctx context.Context, entry domain.EatenFoodEntry) (*DailySummary, error) {
	if entry.Name == "" {
		return nil, domain.Validationf("food name is required")
	}
	if entry.EatenAt.IsZero() {
		entry.EatenAt = s.now()
	}

	res := s.api.AddEatenFood(ctx, entry)
	if !res.Success {
		return nil, res.Err()
	}
	saved := entry
	if res.Data != nil {
		saved = *res.Data
	}

	entries, _ := s.store.EatenFoods(ctx)
	entries = append(entries, saved)
	s.store.SetEatenFoods(ctx, entries)
	return s.summarize(ctx, entries), nil
}

// Update replaces an entry on the server and in the cache.
func (s *DiaryService) Update(ctx context.Context, id string, entry domain.EatenFoodEntry) (*DailySummary, error) {
	if id == "" {
		return nil, domain.Validationf("entry id is required")
	}

	res := s.api.UpdateEatenFood(ctx, id, entry)
	if !res.Success {
		return nil, res.Err()
	}
	saved := entry
	if res.Data != nil {
		saved = *res.Data
	}
	saved.ID = id

	entries, _ := s.store.EatenFoods(ctx)
	entries = slices.Clone(entries)
	i := slices.IndexFunc(entries, func(e domain.EatenFoodEntry) bool { return e.ID == id })
	if i >= 0 {
		entries[i] = saved
	} else {
		entries = append(entries, saved)
	}
	s.store.SetEatenFoods(ctx, entries)
	return s.summarize(ctx, entries), nil
}

// Delete removes an entry. Local-only captures are removed from the cache
// without a network call.
func (s *DiaryService) Delete(ctx context.Context, id string) (*DailySummary, error) {
	if id == "" {
		return nil, domain.Validationf("entry id is required")
	}

	entries, _ := s.store.EatenFoods(ctx)
	i := slices.IndexFunc(entries, func(e domain.EatenFoodEntry) bool {
		return e.ID == id || (e.ID == "" && e.LocalID == id)
	})

	if i < 0 || entries[i].ID != "" {
		res := s.api.DeleteEatenFood(ctx, id)
		if !res.Success {
			return nil, res.Err()
		}
	}

	if i >= 0 {
		entries = slices.Delete(slices.Clone(entries), i, i+1)
		s.store.SetEatenFoods(ctx, entries)
	}
	return s.summarize(ctx, entries), nil
}

// Capture records a photo taken on the device. When a session exists the
// image is uploaded first; if that fails the local URI is kept and a warning
// is raised. The entry is always appended to the cache.
func (s *DiaryService) Capture(ctx context.Context, localURI, filename string, image io.Reader) (*CaptureResult, error) {
	if localURI == "" && image == nil {
		return nil, domain.Validationf("an image is required")
	}

	out := &CaptureResult{Entry: domain.EatenFoodEntry{
		LocalID:  s.newID(),
		Name:     filename,
		ImageURL: localURI,
		EatenAt:  s.now(),
	}}

	switch {
	case image == nil:
	case s.store.AuthToken(ctx) == "":
		s.log.Info("no session, skipping image upload")
	default:
		res := s.api.UploadEatenFoodImage(ctx, filename, image)
		if res.Success && res.Data != "" {
			out.Entry.ImageURL = res.Data
		} else {
			s.log.Error("image upload failed", zap.String("error", res.Error))
			out.Warning = uploadFailedWarning
			if s.alerts != nil {
				s.alerts.Alert(ctx, "경고", uploadFailedWarning)
			}
		}
	}

	entries, _ := s.store.EatenFoods(ctx)
	entries = append(entries, out.Entry)
	s.store.SetEatenFoods(ctx, entries)
	return out, nil
}

// RemoveImage deletes an uploaded image from the server.
func (s *DiaryService) RemoveImage(ctx context.Context, imageURL string) error {
	if imageURL == "" {
		return domain.Validationf("image url is required")
	}
	return s.api.DeleteEatenFoodImage(ctx, imageURL).Err()
}
