package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"dietcoach/internal/domain"
)

func TestEatenFoodCRUD_Wire(t *testing.T) {
	lunch := domain.EatenFoodEntry{
		Name:     "김밥",
		Calories: 320,
		Carbs:    50,
		Protein:  8,
		Fat:      6,
		EatenAt:  time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC),
	}
	entryBody := `{"eaten_food":{"id":12,"food_name":"김밥","kcal":"320","carbs":50,"protein_g":8,"fat_g":6}}`

	tests := []struct {
		name       string
		call       func(c *Client) (bool, *domain.EatenFoodEntry)
		wantMethod string
		wantPath   string
		wantBody   bool
		reply      string
	}{
		{
			name: "get",
			call: func(c *Client) (bool, *domain.EatenFoodEntry) {
				res := c.GetEatenFood(context.Background(), "12")
				return res.Success, res.Data
			},
			wantMethod: http.MethodGet,
			wantPath:   "/users/eaten-foods/12",
			reply:      entryBody,
		},
		{
			name: "add",
			call: func(c *Client) (bool, *domain.EatenFoodEntry) {
				res := c.AddEatenFood(context.Background(), lunch)
				return res.Success, res.Data
			},
			wantMethod: http.MethodPost,
			wantPath:   "/users/eaten-foods",
			wantBody:   true,
			reply:      entryBody,
		},
		{
			name: "update",
			call: func(c *Client) (bool, *domain.EatenFoodEntry) {
				res := c.UpdateEatenFood(context.Background(), "12", lunch)
				return res.Success, res.Data
			},
			wantMethod: http.MethodPut,
			wantPath:   "/users/eaten-foods/12",
			wantBody:   true,
			reply:      `{"data":{"eaten_food":{"id":"12","name":"김밥","calories":320,"carbs_g":50,"protein_g":8,"fat_g":6}}}`,
		},
		{
			name: "delete",
			call: func(c *Client) (bool, *domain.EatenFoodEntry) {
				return c.DeleteEatenFood(context.Background(), "12").Success, nil
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/users/eaten-foods/12",
			reply:      `{"message":"deleted"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != tc.wantMethod || r.URL.Path != tc.wantPath {
					t.Errorf("got %s %s; want %s %s", r.Method, r.URL.Path, tc.wantMethod, tc.wantPath)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("Authorization = %q", got)
				}
				if tc.wantBody {
					var body map[string]any
					if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
						t.Errorf("decode body: %v", err)
						http.Error(w, "bad body", http.StatusBadRequest)
						return
					}
					if body["name"] != "김밥" || body["calories"] != float64(320) || body["carbs_g"] != float64(50) {
						t.Errorf("body = %v", body)
					}
					if body["eaten_at"] != "2026-10-18T12:30:00Z" {
						t.Errorf("eaten_at = %v", body["eaten_at"])
					}
				}
				w.Write([]byte(tc.reply))
			})

			ok, entry := tc.call(c)
			if !ok {
				t.Fatal("call failed")
			}
			if entry == nil {
				return
			}
			if entry.ID != "12" || entry.Name != "김밥" || entry.Calories != 320 || entry.Carbs != 50 || entry.Fat != 6 {
				t.Errorf("entry = %+v", entry)
			}
		})
	}
}

func TestGetEatenFood_ApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such entry"))
	})
	res := c.GetEatenFood(context.Background(), "99")
	if res.Success || res.Kind != domain.KindApplication || res.Status != http.StatusNotFound {
		t.Errorf("res = %+v", res)
	}
	if res.Error != "HTTP error! status: 404, message: no such entry" {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestRegister_QueryParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/signup" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		want := map[string]string{
			"id":               "kim01",
			"email":            "kim@example.com",
			"username":         "kim_01",
			"phone":            "010-1234-5678",
			"password":         "secret1",
			"password_confirm": "secret1",
		}
		q := r.URL.Query()
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("%s = %q; want %q", k, got, v)
			}
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "{}" {
			t.Errorf("body = %q; want {}", body)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("signup must not send a bearer token")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"user":{"id":"kim01","email":"kim@example.com","created_at":"2026-10-18"}}`))
	})

	res := c.Register(context.Background(), domain.Registration{
		ID:              "kim01",
		Email:           "kim@example.com",
		Username:        "kim_01",
		Phone:           "010-1234-5678",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	if !res.Success {
		t.Fatalf("Register failed: %s", res.Error)
	}
	if res.Data.Account == nil || res.Data.Account.ID != "kim01" || res.Data.Account.CreatedAt != "2026-10-18" {
		t.Errorf("Account = %+v", res.Data.Account)
	}
}

func TestAnalyzeFood(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		ok     bool
		want   int
		kind   domain.ErrorKind
	}{
		{"top level", http.StatusOK, `{"analyzed_foods":[{"food_name":"김치찌개","ingredients":["김치","두부"],"recipe":["끓인다"],"youtube_link":"https://youtu.be/x"}]}`, true, 1, domain.KindNone},
		{"under data", http.StatusOK, `{"data":{"analyzed_foods":[{"name":"김치찌개"}]}}`, true, 1, domain.KindNone},
		{"no match", http.StatusOK, `{"analyzed_foods":[]}`, true, 0, domain.KindNone},
		{"not found", http.StatusNotFound, `{"detail":"none"}`, false, 0, domain.KindNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/ai/food-analysis" {
					t.Errorf("got %s %s", r.Method, r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				if !strings.Contains(string(body), `"food_name":"김치찌개"`) {
					t.Errorf("body = %s", body)
				}
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.reply))
			})

			res := c.AnalyzeFood(context.Background(), "김치찌개")
			if res.Success != tc.ok || res.Kind != tc.kind {
				t.Fatalf("res = %+v", res)
			}
			if len(res.Data) != tc.want {
				t.Fatalf("len = %d; want %d", len(res.Data), tc.want)
			}
			if tc.want > 0 && res.Data[0].FoodName != "김치찌개" {
				t.Errorf("FoodName = %q", res.Data[0].FoodName)
			}
			if tc.kind == domain.KindNotFound && res.Error != domain.FoodNotFoundMessage("김치찌개") {
				t.Errorf("Error = %q", res.Error)
			}
		})
	}
}
