package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Common domain errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("invalid secret")
	ErrRepoExists      = errors.New("repository name already exists")
)

// ValidationError rejects a request before the pipeline starts. Never retried.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// PublishStage identifies which hosting-provider step failed.
type PublishStage string

const (
	PublishStageCreateRepo  PublishStage = "create_repo"
	PublishStagePush        PublishStage = "push"
	PublishStageEnablePages PublishStage = "enable_pages"
)

// PublishError is terminal for a job. The stage lets the orchestrator
// build an accurate failure report.
type PublishError struct {
	Stage PublishStage
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

func NewPublishError(stage PublishStage, err error) *PublishError {
	return &PublishError{Stage: stage, Err: err}
}
