package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/bidguide/internal/config"
	"github.com/dgallion1/bidguide/internal/guide"
	"github.com/dgallion1/bidguide/internal/intake"
	"github.com/dgallion1/bidguide/internal/pipeline"
	"github.com/dgallion1/bidguide/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for bidguide.
type Server struct {
	router           chi.Router
	sessions         *session.Store
	orchestrator     *pipeline.Orchestrator
	intake           *intake.Intake
	generator        *guide.Generator
	defaultQuestions []string
	log              *slog.Logger
	cfg              config.Config
}

// Deps are the collaborators the HTTP handlers drive.
type Deps struct {
	Sessions         *session.Store
	Orchestrator     *pipeline.Orchestrator
	Intake           *intake.Intake
	Generator        *guide.Generator
	DefaultQuestions []string
}

// NewServer creates and configures the HTTP server.
func NewServer(d Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions:         d.Sessions,
		orchestrator:     d.Orchestrator,
		intake:           d.Intake,
		generator:        d.Generator,
		defaultQuestions: d.DefaultQuestions,
		log:              log,
		cfg:              cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints (open when no API key is configured).
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Put("/questions", s.handleEditQuestions)
			r.Post("/document", s.handleUploadDocument)
			r.Post("/answers", s.handleSubmitAnswer)
			r.Post("/restart", s.handleRestart)
			r.Get("/guide", s.handleGuide)
		})
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
