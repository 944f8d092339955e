// File: internal/usecase/job_uc.go
package usecase

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"llm-code-deploy/internal/domain"
	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/infra/logging"
	"llm-code-deploy/internal/infra/metrics"
)

// Compile-time check
var _ JobUseCase = (*jobUC)(nil)

// JobUseCase validates inbound requests and drives the
// generate -> publish -> notify pipeline for accepted jobs.
type JobUseCase interface {
	// Accept validates synchronously. It returns a *domain.ValidationError
	// for missing fields and domain.ErrUnauthorized for a bad secret; the
	// pipeline is never started for a rejected request.
	Accept(req model.JobRequest) (*model.Job, error)

	// Process runs the pipeline to completion. Generator and publisher
	// faults are absorbed into a failure report that is still forwarded to
	// the notifier; Process itself never returns an error.
	Process(ctx context.Context, job *model.Job)
}

type jobUC struct {
	sharedSecret string
	generate     GenerationUseCase
	publish      PublishUseCase
	notify       NotifyUseCase
	log          *zerolog.Logger
}

func NewJobUseCase(sharedSecret string, gen GenerationUseCase, pub PublishUseCase, notif NotifyUseCase, logger *zerolog.Logger) *jobUC {
	return &jobUC{
		sharedSecret: sharedSecret,
		generate:     gen,
		publish:      pub,
		notify:       notif,
		log:          logger,
	}
}

func (j *jobUC) Accept(req model.JobRequest) (*model.Job, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, &domain.ValidationError{Missing: missing}
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(j.sharedSecret)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	// The nonce is carried through to the report but not checked against a
	// replay store. Known gap in the inbound protocol.
	return &model.Job{
		ID:         uuid.NewString(),
		Request:    req,
		AcceptedAt: time.Now().UTC(),
	}, nil
}

func (j *jobUC) Process(ctx context.Context, job *model.Job) {
	req := job.Request
	log := logging.With(ctx, j.log).With().Str("job_id", job.ID).Str("task", req.Task).Int("round", req.Round).Logger()
	log.Info().Msg("pipeline started")

	artifacts := j.generate.Generate(ctx, req.Brief, req.Task)

	var report *model.EvaluationReport
	result, err := j.publish.Publish(ctx, req.Task, req.Brief, artifacts)
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		metrics.IncJob("failed")
		report = model.NewFailureReport(req, err)
	} else {
		log.Info().Str("repo", result.RepoURL).Str("pages", result.PagesURL).Msg("publish complete")
		metrics.IncJob("completed")
		report = model.NewSuccessReport(req, result)
	}

	// Exactly one report attempt per accepted job, best-effort delivered.
	if j.notify.Notify(ctx, req.Evaluation, report) {
		log.Info().Msg("evaluation submitted")
	} else {
		log.Error().Msg("evaluation delivery failed, job closed")
	}
}
