package backend

import (
	"context"
	"net/http"
	"strings"

	"dietcoach/internal/domain"
)

type wireEatLevel struct {
	Breakfast flexString `json:"breakfast"`
	Lunch     flexString `json:"lunch"`
	Dinner    flexString `json:"dinner"`
}

type wireProfile struct {
	Gender        string       `json:"gender"`
	Age           flexFloat    `json:"age"`
	UserAge       flexFloat    `json:"user_age"`
	Height        flexFloat    `json:"height"`
	Weight        flexFloat    `json:"weight"`
	ActivityLevel string       `json:"activity_level"`
	Goal          string       `json:"goal"`
	DietGoal      string       `json:"diet_goal"`
	PreferredFood []string     `json:"preferred_food"`
	Allergies     []string     `json:"allergies"`
	EatLevel      wireEatLevel `json:"eat_level"`
}

func (w wireProfile) empty() bool {
	return w.Gender == "" && !w.Age.Set && !w.UserAge.Set && !w.Height.Set && !w.Weight.Set && w.ActivityLevel == ""
}

func (w wireProfile) toDomain() *domain.UserProfile {
	age, _ := firstFloat(w.Age, w.UserAge)
	height, _ := firstFloat(w.Height)
	weight, _ := firstFloat(w.Weight)
	p := &domain.UserProfile{
		Gender:        strings.TrimSpace(w.Gender),
		Age:           int(age),
		Height:        height,
		Weight:        weight,
		ActivityLevel: w.ActivityLevel,
		Goal:          firstString(w.Goal, w.DietGoal),
		PreferredFood: w.PreferredFood,
		Allergies:     w.Allergies,
		EatLevel: domain.MealFrequency{
			Breakfast: string(w.EatLevel.Breakfast),
			Lunch:     string(w.EatLevel.Lunch),
			Dinner:    string(w.EatLevel.Dinner),
		},
	}
	if p.PreferredFood == nil {
		p.PreferredFood = []string{}
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	return p
}

// FetchSurveyProfile reads the stored survey. The backend serves it from
// PATCH /users/initial/info with an empty body. A response without profile
// data yields a nil profile.
func (c *Client) FetchSurveyProfile(ctx context.Context) domain.Result[*domain.UserProfile] {
	return call(ctx, c, request{
		method: http.MethodPatch,
		path:   "/users/initial/info",
		body:   strings.NewReader("{}"),
		auth:   true,
	}, "", decodeProfile)
}

// SubmitSurvey stores the survey profile.
func (c *Client) SubmitSurvey(ctx context.Context, p domain.UserProfile) domain.Result[*domain.UserProfile] {
	body, err := jsonBody(p)
	if err != nil {
		return domain.Fail[*domain.UserProfile](domain.Validationf("encode profile: %v", err))
	}
	return call(ctx, c, request{
		method: http.MethodPatch,
		path:   "/users/initial/info",
		body:   body,
		auth:   true,
	}, "", decodeProfile)
}

func decodeProfile(r *response) (*domain.UserProfile, error) {
	if len(strings.TrimSpace(string(r.body))) == 0 {
		return nil, nil
	}
	w, err := unwrap[wireProfile](r.body, "user_info", "initial_info")
	if err != nil {
		return nil, nil
	}
	if w.empty() {
		return nil, nil
	}
	return w.toDomain(), nil
}
