package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"dietcoach/internal/domain"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

type foodRequest struct {
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
	Calories float64   `json:"calories"`
	Carbs    float64   `json:"carbs_g"`
	Protein  float64   `json:"protein_g"`
	Fat      float64   `json:"fat_g"`
	EatenAt  time.Time `json:"eaten_at"`
}

func (f foodRequest) entry() domain.EatenFoodEntry {
	return domain.EatenFoodEntry{
		Name:     f.Name,
		ImageURL: f.ImageURL,
		Calories: f.Calories,
		Carbs:    f.Carbs,
		Protein:  f.Protein,
		Fat:      f.Fat,
		EatenAt:  f.EatenAt,
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sum, err := s.diary.Load(r.Context(), boolQuery(r, "refresh"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleFoodAdd(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sum, err := s.diary.Add(r.Context(), req.entry())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func (s *Server) handleFoodUpdate(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sum, err := s.diary.Update(r.Context(), chi.URLParam(r, "id"), req.entry())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleFoodDelete(w http.ResponseWriter, r *http.Request) {
	sum, err := s.diary.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleFoodCapture accepts a multipart photo in field "file" and the
// device-local URI in field "uri".
func (s *Server) handleFoodCapture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	defer f.Close()

	out, err := s.diary.Capture(r.Context(), r.FormValue("uri"), hdr.Filename, f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleFoodImageDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.diary.RemoveImage(r.Context(), r.URL.Query().Get("url")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
