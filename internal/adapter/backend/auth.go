package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"dietcoach/internal/domain"
)

type wireAccount struct {
	ID             flexString `json:"id"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	CreatedAt      string     `json:"createdAt"`
	CreatedAtSnake string     `json:"created_at"`
}

func (w wireAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:        string(w.ID),
		Name:      w.Name,
		Username:  w.Username,
		Email:     w.Email,
		Phone:     w.Phone,
		CreatedAt: firstString(w.CreatedAt, w.CreatedAtSnake),
	}
}

type wireAuth struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"access_token"`
	User        *wireAccount `json:"user"`
	Data        *struct {
		Token       string       `json:"token"`
		AccessToken string       `json:"access_token"`
		User        *wireAccount `json:"user"`
	} `json:"data"`
}

// Login posts the credentials as query parameters with an empty JSON body.
// The backend expects the email under "id".
func (c *Client) Login(ctx context.Context, cr domain.Credentials) domain.Result[*domain.Session] {
	q := url.Values{}
	q.Set("id", cr.Email)
	q.Set("password", cr.Password)
	return call(ctx, c, request{
		method: http.MethodPost,
		path:   "/users/login",
		query:  q,
		body:   strings.NewReader("{}"),
	}, "", decodeSession)
}

// Register posts the signup form as query parameters with an empty JSON body.
func (c *Client) Register(ctx context.Context, r domain.Registration) domain.Result[*domain.Session] {
	q := url.Values{}
	q.Set("id", r.ID)
	q.Set("email", r.Email)
	q.Set("username", r.Username)
	q.Set("phone", r.Phone)
	q.Set("password", r.Password)
	q.Set("password_confirm", r.PasswordConfirm)
	return call(ctx, c, request{
		method: http.MethodPost,
		path:   "/users/signup",
		query:  q,
		body:   strings.NewReader("{}"),
	}, "", decodeSession)
}

// Ping checks GET /health.
func (c *Client) Ping(ctx context.Context) domain.Result[struct{}] {
	return call(ctx, c, request{method: http.MethodGet, path: "/health"}, "", discard)
}

// decodeSession finds the token in the body, then the Authorization and
// X-Auth-Token headers, then an access_token cookie. A body that is not JSON
// is tolerated so header-only tokens still work.
func decodeSession(r *response) (*domain.Session, error) {
	var w wireAuth
	_ = json.Unmarshal(r.body, &w)

	s := &domain.Session{}
	user := w.User
	if w.Data != nil {
		s.Token = firstString(w.Token, w.AccessToken, w.Data.Token, w.Data.AccessToken)
		if user == nil {
			user = w.Data.User
		}
	} else {
		s.Token = firstString(w.Token, w.AccessToken)
	}
	if user != nil {
		s.Account = user.toDomain()
	}

	if s.Token == "" {
		s.Token = tokenFromHeaders(r.header)
	}
	return s, nil
}

func tokenFromHeaders(h http.Header) string {
	if v := strings.TrimSpace(h.Get("Authorization")); v != "" {
		if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
			return strings.TrimSpace(v[7:])
		}
		return v
	}
	if v := strings.TrimSpace(h.Get("X-Auth-Token")); v != "" {
		return v
	}
	resp := http.Response{Header: h}
	for _, ck := range resp.Cookies() {
		if ck.Name == "access_token" && ck.Value != "" {
			return ck.Value
		}
	}
	return ""
}
