package adapthttp

import (
	"net/http"

	"dietcoach/internal/app"
	"dietcoach/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth   *app.AuthService
	survey *app.SurveyService
	diary  *app.DiaryService
	recs   *app.RecommendationService
	log    *zap.Logger

	webDir      string
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, survey *app.SurveyService, diary *app.DiaryService, recs *app.RecommendationService, log *zap.Logger) *Server {
	return &Server{
		auth:   auth,
		survey: survey,
		diary:  diary,
		recs:   recs,
		log:    logging.OrNop(log).Named("http"),
	}
}

// WithWebDir serves a single-page front end from dir for non-API paths.
func (s *Server) WithWebDir(dir string) *Server {
	s.webDir = dir
	return s
}

// WithoutAuth disables the session check (for tests).
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(withNoCache)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/health/backend", s.handleBackendHealth)

		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/survey", s.handleSurveyGet)
			r.Post("/survey", s.handleSurveySubmit)

			r.Get("/home", s.handleHome)
			r.Post("/foods", s.handleFoodAdd)
			r.Put("/foods/{id}", s.handleFoodUpdate)
			r.Delete("/foods/{id}", s.handleFoodDelete)
			r.Post("/foods/capture", s.handleFoodCapture)
			r.Delete("/foods/image", s.handleFoodImageDelete)
			r.Post("/foods/analyze", s.handleFoodAnalyze)

			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/recommendations/{id}/recipe", s.handleRecipe)
			r.Get("/recommendations/{id}/meal-kit", s.handleMealKit)
			r.Get("/recommendations/{id}/purchase-link", s.handlePurchaseLink)
		})
	})

	if s.webDir != "" {
		r.Handle("/*", spaFromDisk(s.webDir))
	}
	return r
}
