package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"llm-code-deploy/internal/infra/worker"
	"llm-code-deploy/internal/usecase"
)

// Server wires the webhook endpoint to the job use case. Accepted jobs are
// handed to the worker pool strictly after the acknowledgment is written.
type Server struct {
	jobs usecase.JobUseCase
	pool *worker.Pool
	log  *zerolog.Logger
}

func NewServer(jobs usecase.JobUseCase, pool *worker.Pool, logger *zerolog.Logger) *Server {
	return &Server{jobs: jobs, pool: pool, log: logger}
}

// Router builds the HTTP surface: the submission endpoint, the liveness
// probe, and the Prometheus scrape target.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api-endpoint", s.handleSubmit)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
