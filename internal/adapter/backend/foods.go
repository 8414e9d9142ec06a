package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"dietcoach/internal/domain"

	"go.uber.org/zap"
)

type wireEatenFood struct {
	ID          flexString `json:"id"`
	EatenFoodID flexString `json:"eaten_food_id"`
	Name        string     `json:"name"`
	FoodName    string     `json:"food_name"`
	ImageURL    string     `json:"image_url"`
	Image       string     `json:"image"`
	Calories    flexFloat  `json:"calories"`
	Kcal        flexFloat  `json:"kcal"`
	Carbs       flexFloat  `json:"carbs_g"`
	CarbsAlt    flexFloat  `json:"carbs"`
	Protein     flexFloat  `json:"protein_g"`
	ProteinAlt  flexFloat  `json:"protein"`
	Fat         flexFloat  `json:"fat_g"`
	FatAlt      flexFloat  `json:"fat"`
	EatenAt     string     `json:"eaten_at"`
	CreatedAt   string     `json:"created_at"`
}

// toDomain maps a wire entry. Missing numbers become 0.
func (w wireEatenFood) toDomain() domain.EatenFoodEntry {
	cal, _ := firstFloat(w.Calories, w.Kcal)
	carbs, _ := firstFloat(w.Carbs, w.CarbsAlt)
	protein, _ := firstFloat(w.Protein, w.ProteinAlt)
	fat, _ := firstFloat(w.Fat, w.FatAlt)
	return domain.EatenFoodEntry{
		ID:       firstString(w.ID, w.EatenFoodID),
		Name:     firstString(w.Name, w.FoodName),
		ImageURL: firstString(w.ImageURL, w.Image),
		Calories: cal,
		Carbs:    carbs,
		Protein:  protein,
		Fat:      fat,
		EatenAt:  parseTime(firstString(w.EatenAt, w.CreatedAt)),
	}
}

type wireEatenFoodRequest struct {
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url,omitempty"`
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs_g"`
	Protein  float64 `json:"protein_g"`
	Fat      float64 `json:"fat_g"`
	EatenAt  string  `json:"eaten_at,omitempty"`
}

func toWireRequest(e domain.EatenFoodEntry) wireEatenFoodRequest {
	w := wireEatenFoodRequest{
		Name:     e.Name,
		ImageURL: e.ImageURL,
		Calories: e.Calories,
		Carbs:    e.Carbs,
		Protein:  e.Protein,
		Fat:      e.Fat,
	}
	if !e.EatenAt.IsZero() {
		w.EatenAt = e.EatenAt.Format(time.RFC3339)
	}
	return w
}

// degradedListStatuses are answered with an empty list instead of an error.
// This hides real auth failures from the caller; the backend returns them
// spuriously for users with no entries yet.
var degradedListStatuses = map[int]bool{
	http.StatusUnauthorized:        true,
	http.StatusUnprocessableEntity: true,
	http.StatusInternalServerError: true,
}

// ListTodayEatenFoods returns today's entries.
func (c *Client) ListTodayEatenFoods(ctx context.Context) domain.Result[[]domain.EatenFoodEntry] {
	r := request{method: http.MethodGet, path: "/users/eaten-foods/today", auth: true}
	resp, derr := c.do(ctx, r)
	if derr != nil {
		return domain.Fail[[]domain.EatenFoodEntry](derr)
	}
	if degradedListStatuses[resp.status] {
		c.log.Warn("eaten-food list degraded to empty",
			zap.Int("status", resp.status), zap.ByteString("body", resp.body))
		return domain.OK([]domain.EatenFoodEntry{})
	}
	if !resp.ok() {
		return domain.Fail[[]domain.EatenFoodEntry](resp.httpError())
	}
	entries, err := decodeEntries(resp)
	if err != nil {
		c.log.Warn("unexpected eaten-food list body", zap.Error(err))
		return domain.Fail[[]domain.EatenFoodEntry](&domain.Error{
			Kind:    domain.KindApplication,
			Status:  resp.status,
			Message: fmt.Sprintf("invalid response: %v", err),
		})
	}
	return domain.OK(entries)
}

func decodeEntries(r *response) ([]domain.EatenFoodEntry, error) {
	ws, err := unwrap[[]wireEatenFood](r.body, "eaten_foods", "foods", "items")
	if err != nil {
		return nil, err
	}
	out := make([]domain.EatenFoodEntry, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func decodeEntry(r *response) (*domain.EatenFoodEntry, error) {
	w, err := unwrap[wireEatenFood](r.body, "eaten_food", "food")
	if err != nil {
		return nil, err
	}
	e := w.toDomain()
	return &e, nil
}

// GetEatenFood returns one entry with its nutrition breakdown.
func (c *Client) GetEatenFood(ctx context.Context, id string) domain.Result[*domain.EatenFoodEntry] {
	return call(ctx, c, request{
		method: http.MethodGet,
		path:   "/users/eaten-foods/" + url.PathEscape(id),
		auth:   true,
	}, "", decodeEntry)
}

// AddEatenFood creates an entry.
func (c *Client) AddEatenFood(ctx context.Context, e domain.EatenFoodEntry) domain.Result[*domain.EatenFoodEntry] {
	body, err := jsonBody(toWireRequest(e))
	if err != nil {
		return domain.Fail[*domain.EatenFoodEntry](domain.Validationf("encode entry: %v", err))
	}
	return call(ctx, c, request{
		method: http.MethodPost,
		path:   "/users/eaten-foods",
		body:   body,
		auth:   true,
	}, "", decodeEntry)
}

// UpdateEatenFood replaces an entry.
func (c *Client) UpdateEatenFood(ctx context.Context, id string, e domain.EatenFoodEntry) domain.Result[*domain.EatenFoodEntry] {
	body, err := jsonBody(toWireRequest(e))
	if err != nil {
		return domain.Fail[*domain.EatenFoodEntry](domain.Validationf("encode entry: %v", err))
	}
	return call(ctx, c, request{
		method: http.MethodPut,
		path:   "/users/eaten-foods/" + url.PathEscape(id),
		body:   body,
		auth:   true,
	}, "", decodeEntry)
}

// DeleteEatenFood removes an entry.
func (c *Client) DeleteEatenFood(ctx context.Context, id string) domain.Result[struct{}] {
	return call(ctx, c, request{
		method: http.MethodDelete,
		path:   "/users/eaten-foods/" + url.PathEscape(id),
		auth:   true,
	}, "", discard)
}

type wireImage struct {
	ImageURL string `json:"image_url"`
	URL      string `json:"url"`
}

// UploadEatenFoodImage sends the image as multipart field "file" and returns
// the server URL.
func (c *Client) UploadEatenFoodImage(ctx context.Context, filename string, image io.Reader) domain.Result[string] {
	if filename == "" {
		filename = "photo.jpg"
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", path.Base(filename))
	if err == nil {
		_, err = io.Copy(part, image)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return domain.Fail[string](domain.Validationf("read image: %v", err))
	}

	return call(ctx, c, request{
		method:      http.MethodPost,
		path:        "/users/eaten-food-image",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		auth:        true,
	}, "", func(r *response) (string, error) {
		w, err := unwrap[wireImage](r.body, "image")
		if err != nil {
			return "", err
		}
		u := firstString(w.ImageURL, w.URL)
		if u == "" {
			return "", errNoPayload
		}
		return u, nil
	})
}

// DeleteEatenFoodImage removes an uploaded image.
func (c *Client) DeleteEatenFoodImage(ctx context.Context, imageURL string) domain.Result[struct{}] {
	q := url.Values{}
	q.Set("image_url", imageURL)
	return call(ctx, c, request{
		method: http.MethodDelete,
		path:   "/users/eaten-food-image",
		query:  q,
		auth:   true,
	}, "", discard)
}
