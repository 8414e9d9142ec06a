package adapthttp

import (
	"net/http"

	"dietcoach/internal/domain"
)

func (s *Server) handleSurveyGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.survey.Load(r.Context(), boolQuery(r, "refresh"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSurveySubmit(w http.ResponseWriter, r *http.Request) {
	var answers domain.SurveyAnswers
	if err := parseJSON(r, &answers); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.survey.Submit(r.Context(), answers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
