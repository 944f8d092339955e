package hosting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"llm-code-deploy/internal/domain"
	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.HostingProvider = (*GitHubAdapter)(nil)

// GitHubAdapter implements adapter.HostingProvider against the GitHub REST
// API: repository creation, a single initial commit through the Git Data API,
// and Pages enablement.
type GitHubAdapter struct {
	client        *github.Client
	owner         string
	defaultBranch string
}

func NewGitHubAdapter(token, owner, defaultBranch string) (*GitHubAdapter, error) {
	if token == "" {
		return nil, errors.New("github token empty")
	}
	if owner == "" {
		return nil, errors.New("github owner empty")
	}
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	return &GitHubAdapter{
		client:        github.NewClient(nil).WithAuthToken(token),
		owner:         owner,
		defaultBranch: defaultBranch,
	}, nil
}

func (g *GitHubAdapter) CreateRepo(ctx context.Context, name, description string) (*adapter.Repo, error) {
	repo, _, err := g.client.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.String(name),
		Description: github.String(description),
		Private:     github.Bool(false),
		AutoInit:    github.Bool(false),
	})
	if err != nil {
		if isNameTaken(err) {
			return nil, fmt.Errorf("create %q: %w", name, domain.ErrRepoExists)
		}
		return nil, fmt.Errorf("create %q: %w", name, err)
	}
	return &adapter.Repo{
		Name:          repo.GetName(),
		Owner:         g.owner,
		HTMLURL:       repo.GetHTMLURL(),
		DefaultBranch: g.defaultBranch,
	}, nil
}

// PushFiles writes every artifact into one tree, commits it with no parent,
// and points the default branch ref at the commit. One initial commit, as a
// freshly created repository has no history to build on.
func (g *GitHubAdapter) PushFiles(ctx context.Context, repo *adapter.Repo, artifacts *model.ArtifactSet, message string) (string, error) {
	entries := make([]*github.TreeEntry, 0, artifacts.Len())
	for _, f := range artifacts.Files() {
		entries = append(entries, &github.TreeEntry{
			Path:    github.String(f.Path),
			Mode:    github.String("100644"),
			Type:    github.String("blob"),
			Content: github.String(f.Content),
		})
	}

	tree, _, err := g.client.Git.CreateTree(ctx, repo.Owner, repo.Name, "", entries)
	if err != nil {
		return "", fmt.Errorf("create tree: %w", err)
	}

	commit, _, err := g.client.Git.CreateCommit(ctx, repo.Owner, repo.Name, &github.Commit{
		Message: github.String(message),
		Tree:    tree,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	_, _, err = g.client.Git.CreateRef(ctx, repo.Owner, repo.Name, &github.Reference{
		Ref:    github.String("refs/heads/" + repo.DefaultBranch),
		Object: &github.GitObject{SHA: commit.SHA},
	})
	if err != nil {
		return "", fmt.Errorf("create ref: %w", err)
	}
	return commit.GetSHA(), nil
}

// EnablePages issues the enable request and returns the expected site URL.
// It does not wait for the provider-side build; a 409 means Pages is already
// enabled and counts as success.
func (g *GitHubAdapter) EnablePages(ctx context.Context, repo *adapter.Repo, branch string) (string, error) {
	if branch == "" {
		branch = repo.DefaultBranch
	}
	url := fmt.Sprintf("https://%s.github.io/%s/", repo.Owner, repo.Name)

	_, resp, err := g.client.Repositories.EnablePages(ctx, repo.Owner, repo.Name, &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String("/"),
		},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return url, nil
		}
		return "", fmt.Errorf("enable pages: %w", err)
	}
	return url, nil
}

// isNameTaken classifies the 422 the API returns for a duplicate repo name.
func isNameTaken(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	if ghErr.Response == nil || ghErr.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, e := range ghErr.Errors {
		if strings.Contains(strings.ToLower(e.Message), "already exists") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(ghErr.Message), "already exists")
}
