package domain

import (
	"context"
	"io"
	"math"
	"time"
)

// EatenFoodEntry is one logged meal or food item.
type EatenFoodEntry struct {
	ID       string    `json:"id,omitempty"`
	LocalID  string    `json:"local_id,omitempty"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
	Calories float64   `json:"calories"`
	Carbs    float64   `json:"carbs_g"`
	Protein  float64   `json:"protein_g"`
	Fat      float64   `json:"fat_g"`
	EatenAt  time.Time `json:"eaten_at"`
}

// NutritionTotals is derived from an entry list and never stored on its own.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// Aggregate sums calories and macros across entries.
func Aggregate(entries []EatenFoodEntry) NutritionTotals {
	var t NutritionTotals
	for _, e := range entries {
		t.Calories += finite(e.Calories)
		t.Carbs += finite(e.Carbs)
		t.Protein += finite(e.Protein)
		t.Fat += finite(e.Fat)
	}
	return t
}

// Percent returns consumed/target as a percentage clamped to [0, 100].
// A non-positive target yields 0.
func Percent(consumed, target float64) float64 {
	if target <= 0 || math.IsNaN(target) || math.IsNaN(consumed) {
		return 0
	}
	p := consumed / target * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FoodAPI is the port for the backend's eaten-food endpoints.
type FoodAPI interface {
	ListTodayEatenFoods(ctx context.Context) Result[[]EatenFoodEntry]
	GetEatenFood(ctx context.Context, id string) Result[*EatenFoodEntry]
	AddEatenFood(ctx context.Context, entry EatenFoodEntry) Result[*EatenFoodEntry]
	UpdateEatenFood(ctx context.Context, id string, entry EatenFoodEntry) Result[*EatenFoodEntry]
	DeleteEatenFood(ctx context.Context, id string) Result[struct{}]
	UploadEatenFoodImage(ctx context.Context, filename string, image io.Reader) Result[string]
	DeleteEatenFoodImage(ctx context.Context, imageURL string) Result[struct{}]
}

// Energy split used for macro targets: 50% carbs, 20% protein, 30% fat.
const (
	carbShare    = 0.5
	proteinShare = 0.2
	fatShare     = 0.3

	kcalPerGramCarb    = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
)

// MacroTargets converts a calorie target into gram targets per macro.
func MacroTargets(calories int) NutritionTotals {
	if calories <= 0 {
		return NutritionTotals{}
	}
	kcal := float64(calories)
	return NutritionTotals{
		Calories: kcal,
		Carbs:    math.Round(kcal * carbShare / kcalPerGramCarb),
		Protein:  math.Round(kcal * proteinShare / kcalPerGramProtein),
		Fat:      math.Round(kcal * fatShare / kcalPerGramFat),
	}
}
