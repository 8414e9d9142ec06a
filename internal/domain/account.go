// Package domain contains the core entities, ports and pure calculations.
package domain

import "context"

// Account is the raw user record returned by login and signup.
type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
}

// Credentials is the login form.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the signup form.
type Registration struct {
	ID              string
	Email           string
	Username        string
	Phone           string
	Password        string
	PasswordConfirm string
}

// Session is a successful login: the opaque token plus the account, when sent.
type Session struct {
	Token   string
	Account *Account
}

// AuthAPI is the port for the backend's account endpoints.
type AuthAPI interface {
	Login(ctx context.Context, c Credentials) Result[*Session]
	Register(ctx context.Context, r Registration) Result[*Session]
	Ping(ctx context.Context) Result[struct{}]
}

// KVStore is the port for device-local key/value storage. Get reports
// ok=false for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Local storage keys.
const (
	KeyAuthToken       = "authToken"
	KeyAccount         = "users"
	KeyUserProfile     = "userInitialInfo"
	KeySurveyCompleted = "surveyCompleted"
	KeyEatenFoods      = "userEatData"
	KeyRecommendations = "dietRecommendations"
)

// AllKeys lists every slot cleared on logout.
var AllKeys = []string{
	KeyAuthToken,
	KeyAccount,
	KeyUserProfile,
	KeySurveyCompleted,
	KeyEatenFoods,
	KeyRecommendations,
}
