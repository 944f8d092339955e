package adapter

import (
	"context"

	"llm-code-deploy/internal/domain/model"
)

// Repo identifies a created remote repository.
type Repo struct {
	Name          string
	Owner         string
	HTMLURL       string
	DefaultBranch string
}

// HostingProvider is the port for the source-hosting provider API.
// CreateRepo must return domain.ErrRepoExists (possibly wrapped) when the
// name is taken so the publisher can apply its disambiguation policy.
type HostingProvider interface {
	CreateRepo(ctx context.Context, name, description string) (*Repo, error)

	// PushFiles commits all artifacts as a single initial commit on the
	// default branch and returns the commit SHA.
	PushFiles(ctx context.Context, repo *Repo, artifacts *model.ArtifactSet, message string) (string, error)

	// EnablePages requests static hosting for the branch and returns the
	// best-known site URL. It must not block on provider-side propagation.
	EnablePages(ctx context.Context, repo *Repo, branch string) (string, error)
}
