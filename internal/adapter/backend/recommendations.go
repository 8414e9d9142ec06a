package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"dietcoach/internal/domain"
)

// Messages for recipe and meal-kit lookups that have not been generated yet.
const (
	RecipeNotFoundMessage  = "레시피 정보가 아직 준비되지 않았습니다."
	MealKitNotFoundMessage = "밀키트 정보가 아직 준비되지 않았습니다."
)

type wireRecommendation struct {
	ID               flexString `json:"id"`
	RecommendationID flexString `json:"recommendation_id"`
	Title            string     `json:"title"`
	Name             string     `json:"name"`
	FoodName         string     `json:"food_name"`
	Subtitle         string     `json:"subtitle"`
	Description      string     `json:"description"`
	ImageURL         string     `json:"image_url"`
	Image            string     `json:"image"`
	Calories         flexFloat  `json:"calories"`
	Kcal             flexFloat  `json:"kcal"`
	RefID            flexString `json:"ref_id"`
	RecipeID         flexString `json:"recipe_id"`
}

// toDomain maps a wire item. Calories stays nil when the server sent none.
func (w wireRecommendation) toDomain() domain.DietRecommendationItem {
	id := firstString(w.ID, w.RecommendationID)
	item := domain.DietRecommendationItem{
		ID:       id,
		Title:    firstString(w.Title, w.Name, w.FoodName),
		Subtitle: firstString(w.Subtitle, w.Description),
		ImageURL: firstString(w.ImageURL, w.Image),
		RefID:    firstString(string(w.RefID), string(w.RecipeID), id),
	}
	if v, ok := firstFloat(w.Calories, w.Kcal); ok {
		item.Calories = &v
	}
	return item
}

// GenerateRecommendations asks the backend for a fresh recommendation list.
func (c *Client) GenerateRecommendations(ctx context.Context) domain.Result[[]domain.DietRecommendationItem] {
	return call(ctx, c, request{
		method: http.MethodPost,
		path:   "/ai/generate-recommendation/food",
		body:   strings.NewReader("{}"),
		auth:   true,
	}, "", func(r *response) ([]domain.DietRecommendationItem, error) {
		ws, err := unwrap[[]wireRecommendation](r.body, "recommendations", "foods", "items")
		if err != nil {
			return nil, err
		}
		out := make([]domain.DietRecommendationItem, 0, len(ws))
		for _, w := range ws {
			item := w.toDomain()
			if item.Calories == nil {
				c.log.Debug("recommendation without calories")
			}
			out = append(out, item)
		}
		return out, nil
	})
}

type wireRecipe struct {
	ID           flexString `json:"id"`
	Title        string     `json:"title"`
	Name         string     `json:"name"`
	Ingredients  []string   `json:"ingredients"`
	Steps        []string   `json:"steps"`
	Instructions []string   `json:"instructions"`
	Calories     flexFloat  `json:"calories"`
	CookMinutes  flexFloat  `json:"cook_minutes"`
	CookTime     flexFloat  `json:"cooking_time"`
}

// GetRecipe returns the recipe for a recommendation. 404 means the recipe
// has not been generated yet.
func (c *Client) GetRecipe(ctx context.Context, refID string) domain.Result[*domain.Recipe] {
	return call(ctx, c, request{
		method: http.MethodGet,
		path:   "/ai/recommendations/" + url.PathEscape(refID) + "/recipe",
		auth:   true,
	}, RecipeNotFoundMessage, func(r *response) (*domain.Recipe, error) {
		w, err := unwrap[wireRecipe](r.body, "recipe")
		if err != nil {
			return nil, err
		}
		cal, _ := firstFloat(w.Calories)
		mins, _ := firstFloat(w.CookMinutes, w.CookTime)
		steps := w.Steps
		if len(steps) == 0 {
			steps = w.Instructions
		}
		return &domain.Recipe{
			ID:          firstString(string(w.ID), refID),
			Title:       firstString(w.Title, w.Name),
			Ingredients: w.Ingredients,
			Steps:       steps,
			Calories:    cal,
			CookMinutes: int(mins),
		}, nil
	})
}

type wireMealKit struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Price       flexFloat  `json:"price"`
}

// GetMealKit returns the meal kit for a recommendation. The backend path has
// no separator between "detail" and the id.
func (c *Client) GetMealKit(ctx context.Context, refID string) domain.Result[*domain.MealKit] {
	return call(ctx, c, request{
		method: http.MethodGet,
		path:   "/ai/meal-kit/detail" + url.PathEscape(refID),
		auth:   true,
	}, MealKitNotFoundMessage, func(r *response) (*domain.MealKit, error) {
		w, err := unwrap[wireMealKit](r.body, "meal_kit", "mealkit")
		if err != nil {
			return nil, err
		}
		price, _ := firstFloat(w.Price)
		return &domain.MealKit{
			ID:          firstString(string(w.ID), refID),
			Name:        firstString(w.Name, w.Title),
			Description: w.Description,
			ImageURL:    w.ImageURL,
			Price:       price,
		}, nil
	})
}

type wireLink struct {
	PurchaseLink string `json:"purchase_link"`
	URL          string `json:"url"`
	Link         string `json:"link"`
}

// GetPurchaseLink returns the shop URL for a meal kit.
func (c *Client) GetPurchaseLink(ctx context.Context, refID string) domain.Result[string] {
	return call(ctx, c, request{
		method: http.MethodGet,
		path:   "/ai/meal-kit/purchase-link/" + url.PathEscape(refID),
		auth:   true,
	}, MealKitNotFoundMessage, func(r *response) (string, error) {
		var bare string
		if json.Unmarshal(r.body, &bare) == nil && bare != "" {
			return bare, nil
		}
		w, err := unwrap[wireLink](r.body)
		if err != nil {
			return "", err
		}
		link := firstString(w.PurchaseLink, w.URL, w.Link)
		if link == "" {
			return "", errNoPayload
		}
		return link, nil
	})
}

type wireFoodAnalysis struct {
	FoodName    string   `json:"food_name"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Recipe      []string `json:"recipe"`
	YoutubeLink string   `json:"youtube_link"`
}

type wireAnalysisResponse struct {
	AnalyzedFoods []wireFoodAnalysis `json:"analyzed_foods"`
}

// AnalyzeFood asks the AI for ingredients and a recipe for a dish name. An
// empty list means nothing matched.
func (c *Client) AnalyzeFood(ctx context.Context, name string) domain.Result[[]domain.FoodAnalysis] {
	body, err := jsonBody(map[string]string{"food_name": name})
	if err != nil {
		return domain.Fail[[]domain.FoodAnalysis](domain.Validationf("encode food name: %v", err))
	}
	return call(ctx, c, request{
		method: http.MethodPost,
		path:   "/ai/food-analysis",
		body:   body,
		auth:   true,
	}, domain.FoodNotFoundMessage(name), func(r *response) ([]domain.FoodAnalysis, error) {
		w, err := unwrap[wireAnalysisResponse](r.body)
		if err != nil {
			return nil, err
		}
		out := make([]domain.FoodAnalysis, 0, len(w.AnalyzedFoods))
		for _, f := range w.AnalyzedFoods {
			out = append(out, domain.FoodAnalysis{
				FoodName:    firstString(f.FoodName, f.Name),
				Ingredients: f.Ingredients,
				Recipe:      f.Recipe,
				YoutubeLink: f.YoutubeLink,
			})
		}
		return out, nil
	})
}
