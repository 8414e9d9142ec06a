package domain

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe     = regexp.MustCompile(`^01[0-9][0-9]{3,4}[0-9]{4}$`)
	birthdateRe = regexp.MustCompile(`^(19|20)\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])$`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
)

const minPasswordLen = 6

// ValidateCredentials checks the login form.
func ValidateCredentials(c Credentials) error {
	if strings.TrimSpace(c.Email) == "" {
		return Validationf("email is required")
	}
	if c.Password == "" {
		return Validationf("password is required")
	}
	return nil
}

// NormalizeRegistration validates the signup form and returns it with trimmed
// fields, a formatted phone number and ID defaulted to the username.
func NormalizeRegistration(r Registration) (Registration, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		r.ID = r.Username
	}

	if !usernameRe.MatchString(r.Username) {
		return r, Validationf("username must be 3-20 letters, digits or underscores")
	}
	if !emailRe.MatchString(r.Email) {
		return r, Validationf("invalid email address")
	}
	phone := strings.ReplaceAll(strings.TrimSpace(r.Phone), "-", "")
	if !phoneRe.MatchString(phone) {
		return r, Validationf("invalid phone number (e.g. 010-1234-5678)")
	}
	r.Phone = FormatPhone(phone)
	if r.Password == "" {
		return r, Validationf("password is required")
	}
	if r.Password != r.PasswordConfirm {
		return r, Validationf("passwords do not match")
	}
	if len(r.Password) < minPasswordLen {
		return r, Validationf("password must be at least %d characters", minPasswordLen)
	}
	return r, nil
}

// FormatPhone renders an 11-digit 010 number as 010-1234-5678 and leaves
// anything else unchanged.
func FormatPhone(phone string) string {
	cleaned := strings.ReplaceAll(phone, "-", "")
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "010") {
		return cleaned[:3] + "-" + cleaned[3:7] + "-" + cleaned[7:]
	}
	return phone
}

// SurveyAnswers is the raw survey form.
type SurveyAnswers struct {
	Gender        string        `json:"gender"`
	Birthdate     string        `json:"birthdate"`
	Height        string        `json:"height"`
	Weight        string        `json:"weight"`
	ActivityLevel string        `json:"activity_level"`
	Meals         MealFrequency `json:"meals"`
	Allergies     []string      `json:"allergies"`
	Goal          string        `json:"goal"`
	PreferredFood []string      `json:"preferred_food"`
}

var (
	mealAnswers    = []string{MealSkip, MealLight, MealRegular}
	allergyAnswers = []string{AllergyNone, AllergyNuts, AllergyDairy, AllergySeafood, AllergyOther}
)

// Profile validates the answers and converts them into a UserProfile. Age is
// the difference between now's year and the birth year.
func (a SurveyAnswers) Profile(now time.Time) (UserProfile, error) {
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return UserProfile{}, Validationf("gender must be %q or %q", GenderMale, GenderFemale)
	}

	birth, err := parseBirthdate(a.Birthdate)
	if err != nil {
		return UserProfile{}, err
	}
	// The profile needs an age of at least one year to be usable.
	if birth.Year() >= now.Year() {
		return UserProfile{}, Validationf("birthdate must be before %d", now.Year())
	}

	height, err := boundedInt(a.Height, "height", 100, 250)
	if err != nil {
		return UserProfile{}, err
	}
	weight, err := boundedInt(a.Weight, "weight", 20, 200)
	if err != nil {
		return UserProfile{}, err
	}

	if !slices.Contains(ActivityLevels, a.ActivityLevel) {
		return UserProfile{}, Validationf("unknown activity level %q", a.ActivityLevel)
	}

	slots := []struct{ name, answer string }{
		{"breakfast", a.Meals.Breakfast},
		{"lunch", a.Meals.Lunch},
		{"dinner", a.Meals.Dinner},
	}
	for _, s := range slots {
		if !slices.Contains(mealAnswers, s.answer) {
			return UserProfile{}, Validationf("%s answer is required", s.name)
		}
	}

	if len(a.Allergies) == 0 {
		return UserProfile{}, Validationf("select at least one allergy option")
	}
	for _, al := range a.Allergies {
		if !slices.Contains(allergyAnswers, al) {
			return UserProfile{}, Validationf("unknown allergy option %q", al)
		}
	}

	preferred := a.PreferredFood
	if preferred == nil {
		preferred = []string{}
	}

	return UserProfile{
		Gender:        a.Gender,
		Age:           now.Year() - birth.Year(),
		Height:        float64(height),
		Weight:        float64(weight),
		ActivityLevel: a.ActivityLevel,
		Goal:          a.Goal,
		PreferredFood: preferred,
		Allergies:     slices.Clone(a.Allergies),
		EatLevel:      a.Meals,
	}, nil
}

func parseBirthdate(s string) (time.Time, error) {
	if !birthdateRe.MatchString(s) {
		return time.Time{}, Validationf("birthdate must be YYYYMMDD (e.g. 19900101)")
	}
	// time.Parse rejects impossible days such as 20230230.
	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, Validationf("invalid date %q", s)
	}
	return t, nil
}

func boundedInt(s, field string, lo, hi int) (int, error) {
	s = strings.TrimSpace(s)
	if !digitsRe.MatchString(s) {
		return 0, Validationf("%s must be a number", field)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, Validationf("%s must be between %d and %d", field, lo, hi)
	}
	return n, nil
}
