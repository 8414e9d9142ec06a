package domain

import (
	"fmt"
	"math"
)

// CalorieFormula computes a daily calorie target from a profile. Callers must
// check UserProfile.Valid first; an invalid profile yields a degenerate value.
type CalorieFormula interface {
	Name() string
	RecommendedCalories(p UserProfile) int
}

// NewCalorieFormula returns the formula registered under name.
func NewCalorieFormula(name string) (CalorieFormula, error) {
	switch name {
	case "", FormulaMifflin:
		return MifflinStJeor{}, nil
	case FormulaStandard:
		return StandardWeight{}, nil
	}
	return nil, fmt.Errorf("unknown calorie formula %q", name)
}

const (
	FormulaMifflin  = "mifflin"
	FormulaStandard = "standard"
)

var standardFactors = map[string]float64{
	ActivityRarely:     25,
	ActivityLight:      30,
	ActivityModerate:   33,
	ActivityActive:     37,
	ActivityVeryActive: 40,
}

var bmrFactors = map[string]float64{
	ActivityRarely:     1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// StandardWeight multiplies the standard body weight (height² × 22 for men,
// × 21 for women) by a per-kilogram activity factor.
type StandardWeight struct{}

func (StandardWeight) Name() string { return FormulaStandard }

func (StandardWeight) RecommendedCalories(p UserProfile) int {
	factor, ok := standardFactors[p.ActivityLevel]
	if !ok {
		factor = standardFactors[ActivityRarely]
	}
	return int(math.Round(StandardBodyWeight(p.Height, p.Gender) * factor))
}

// StandardBodyWeight returns the standard weight in kg for a height in cm.
func StandardBodyWeight(heightCm float64, gender string) float64 {
	m := heightCm / 100
	if IsMale(gender) {
		return m * m * 22
	}
	return m * m * 21
}

// MifflinStJeor multiplies the Mifflin-St Jeor basal metabolic rate by an
// activity factor.
type MifflinStJeor struct{}

func (MifflinStJeor) Name() string { return FormulaMifflin }

func (MifflinStJeor) RecommendedCalories(p UserProfile) int {
	factor, ok := bmrFactors[p.ActivityLevel]
	if !ok {
		factor = bmrFactors[ActivityRarely]
	}
	return int(math.Round(BMR(p) * factor))
}

// BMR returns the Mifflin-St Jeor basal metabolic rate.
func BMR(p UserProfile) float64 {
	base := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if IsMale(p.Gender) {
		return base + 5
	}
	return base - 161
}
