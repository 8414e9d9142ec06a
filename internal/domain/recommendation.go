package domain

import (
	"context"
	"fmt"
)

// DietRecommendationItem is a server-suggested meal. Calories is nil when the
// server did not provide an estimate.
type DietRecommendationItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	ImageURL string   `json:"image_url"`
	Calories *float64 `json:"calories,omitempty"`
	RefID    string   `json:"ref_id"`
}

// Recipe is the cooking detail behind a recommendation.
type Recipe struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Calories    float64  `json:"calories"`
	CookMinutes int      `json:"cook_minutes"`
}

// MealKit is a purchasable kit for a recommendation.
type MealKit struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
}

// FoodAnalysis is the AI breakdown of a dish looked up by name.
type FoodAnalysis struct {
	FoodName    string   `json:"food_name"`
	Ingredients []string `json:"ingredients"`
	Recipe      []string `json:"recipe"`
	YoutubeLink string   `json:"youtube_link"`
}

// FoodNotFoundMessage is shown when the analysis has nothing for name.
func FoodNotFoundMessage(name string) string {
	return fmt.Sprintf("%q에 대한 정보를 찾을 수 없습니다.", name)
}

// RecommendationAPI is the port for the backend's AI endpoints.
type RecommendationAPI interface {
	GenerateRecommendations(ctx context.Context) Result[[]DietRecommendationItem]
	AnalyzeFood(ctx context.Context, name string) Result[[]FoodAnalysis]
	GetRecipe(ctx context.Context, refID string) Result[*Recipe]
	GetMealKit(ctx context.Context, refID string) Result[*MealKit]
	GetPurchaseLink(ctx context.Context, refID string) Result[string]
}
