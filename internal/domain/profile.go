package domain

import (
	"context"
	"strings"
)

// Activity levels offered by the survey, lowest to highest.
const (
	ActivityRarely     = "운동을 거의 하지 않아요"
	ActivityLight      = "일주일에 1~2회 운동해요"
	ActivityModerate   = "일주일에 3~5회 운동해요"
	ActivityActive     = "일주일에 5~7회 운동해요"
	ActivityVeryActive = "매일 고강도로 운동해요"
)

// Survey answer values.
const (
	GenderMale   = "남성"
	GenderFemale = "여성"

	MealSkip    = "식사안함"
	MealLight   = "간단히"
	MealRegular = "보통"

	AllergyNone    = "없음"
	AllergyNuts    = "견과류"
	AllergyDairy   = "유제품"
	AllergySeafood = "해산물"
	AllergyOther   = "기타"
)

// ActivityLevels lists the survey's activity answers, lowest first.
var ActivityLevels = []string{ActivityRarely, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}

// MealFrequency records how much the user usually eats in each slot.
type MealFrequency struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// UserProfile is the result of the onboarding survey.
type UserProfile struct {
	Gender        string        `json:"gender"`
	Age           int           `json:"age"`
	Height        float64       `json:"height"`
	Weight        float64       `json:"weight"`
	ActivityLevel string        `json:"activity_level"`
	Goal          string        `json:"goal"`
	PreferredFood []string      `json:"preferred_food"`
	Allergies     []string      `json:"allergies"`
	EatLevel      MealFrequency `json:"eat_level"`
}

// Valid reports whether the profile carries enough body data for a calorie target.
func (p UserProfile) Valid() bool {
	return p.Height > 0 && p.Weight > 0 && p.Age > 0
}

// IsMale reports whether a gender answer denotes male. Anything else is
// treated as female by the calorie formulas.
func IsMale(gender string) bool {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case GenderMale, "남자", "male", "m":
		return true
	}
	return false
}

// SurveyAPI is the port for the backend's survey endpoints.
type SurveyAPI interface {
	FetchSurveyProfile(ctx context.Context) Result[*UserProfile]
	SubmitSurvey(ctx context.Context, profile UserProfile) Result[*UserProfile]
}
