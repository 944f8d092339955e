package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"llm-code-deploy/internal/domain"
	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/infra/logging"
	"llm-code-deploy/internal/infra/metrics"
)

type acceptedResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Task      string `json:"task"`
	JobID     string `json:"job_id"`
	Timestamp string `json:"timestamp"`
}

// handleSubmit validates synchronously, acknowledges, and only then schedules
// the pipeline. The generation/publish/notify outcome is never reflected in
// this response; it reaches the evaluation URL later.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req model.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	job, err := s.jobs.Accept(req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			s.log.Error().Strs("missing", verr.Missing).Msg("request rejected, missing fields")
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "missing required fields",
				"missing": verr.Missing,
			})
		case errors.Is(err, domain.ErrUnauthorized):
			s.log.Warn().Str("task", req.Task).Msg("request rejected, invalid secret")
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid secret"})
		default:
			s.log.Error().Err(err).Msg("request rejected")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	s.log.Info().Str("job_id", job.ID).Str("task", req.Task).Msg("request accepted")
	reqID := middleware.GetReqID(r.Context())
	writeJSON(w, http.StatusOK, acceptedResponse{
		Status:    "accepted",
		Message:   "request received and processing started",
		Task:      req.Task,
		JobID:     job.ID,
		Timestamp: job.AcceptedAt.Format(time.RFC3339),
	})

	run := func(ctx context.Context) error {
		ctx = logging.WithTraceID(ctx, reqID)
		ctx = logging.WithTask(ctx, req.Task)
		s.jobs.Process(ctx, job)
		return nil
	}

	// Ack has been written; the caller gets nothing further synchronously.
	// A saturated queue must not lose the job: every accepted job gets its
	// report attempt, so overflow falls back to a dedicated goroutine.
	if err := s.pool.Submit(run); err != nil {
		metrics.IncJobOverflow()
		s.log.Warn().Err(err).Str("job_id", job.ID).Str("task", req.Task).Msg("worker queue full, processing in dedicated goroutine")
		go func() { _ = run(context.Background()) }()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
