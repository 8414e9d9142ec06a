package adapthttp

import (
	"net/http"

	"dietcoach/internal/app"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	view, err := s.recs.Load(r.Context(), boolQuery(r, "refresh"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recs.Recipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleMealKit(w http.ResponseWriter, r *http.Request) {
	kit, err := s.recs.MealKit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (s *Server) handlePurchaseLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.recs.PurchaseLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *Server) handleFoodAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	analysis, err := s.recs.AnalyzeFood(r.Context(), req.Name)
	if app.IsLoginRequired(err) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "login required"})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
