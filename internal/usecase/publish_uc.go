// File: internal/usecase/publish_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"llm-code-deploy/internal/domain"
	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/domain/ports/adapter"
	"llm-code-deploy/internal/infra/logging"
	"llm-code-deploy/internal/infra/metrics"
)

// Compile-time check
var _ PublishUseCase = (*publishUC)(nil)

// PublishUseCase creates the remote repository, pushes the artifact set as a
// single initial commit, and requests static hosting. Failure on any step is
// terminal for the job and carries the failed stage.
type PublishUseCase interface {
	Publish(ctx context.Context, task, brief string, artifacts *model.ArtifactSet) (*model.PublishResult, error)
}

type publishUC struct {
	hosting       adapter.HostingProvider
	username      string
	defaultBranch string
	log           *zerolog.Logger
}

func NewPublishUseCase(hosting adapter.HostingProvider, username, defaultBranch string, logger *zerolog.Logger) *publishUC {
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	return &publishUC{hosting: hosting, username: username, defaultBranch: defaultBranch, log: logger}
}

func (p *publishUC) Publish(ctx context.Context, task, brief string, artifacts *model.ArtifactSet) (*model.PublishResult, error) {
	defer logging.TraceDuration(p.log, "PublishUC.Publish")()
	start := time.Now()

	name := RepoNameForTask(task)
	description := TruncateDescription(brief, 100)

	repo, err := p.createRepo(ctx, name, description)
	if err != nil {
		metrics.IncPublishFailure(string(domain.PublishStageCreateRepo))
		return nil, domain.NewPublishError(domain.PublishStageCreateRepo, err)
	}
	p.log.Info().Str("task", task).Str("repo", repo.Name).Msg("repository created")

	pagesURL := p.pagesURL(repo.Name)
	ensureLicense(artifacts, p.username)
	ensureReadme(artifacts, repo.Name, brief, pagesURL, p.username)

	sha, err := p.hosting.PushFiles(ctx, repo, artifacts, "Initial commit: generated application")
	if err != nil {
		metrics.IncPublishFailure(string(domain.PublishStagePush))
		return nil, domain.NewPublishError(domain.PublishStagePush, err)
	}
	p.log.Info().Str("task", task).Str("repo", repo.Name).Str("commit", sha).Msg("artifacts pushed")

	// The enable call returns as soon as the provider accepts the request;
	// the site itself propagates asynchronously on the provider side.
	url, err := p.hosting.EnablePages(ctx, repo, p.defaultBranch)
	if err != nil {
		metrics.IncPublishFailure(string(domain.PublishStageEnablePages))
		return nil, domain.NewPublishError(domain.PublishStageEnablePages, err)
	}
	if url == "" {
		url = pagesURL
	}

	metrics.ObservePublishDuration(time.Since(start))
	return &model.PublishResult{
		RepoName:      repo.Name,
		RepoURL:       repo.HTMLURL,
		CommitSHA:     sha,
		DefaultBranch: p.defaultBranch,
		PagesURL:      url,
	}, nil
}

// createRepo applies the name-collision policy: when the name is taken, retry
// once under a disambiguated name (short lowercase ULID suffix) rather than
// reusing or deleting the existing repository.
func (p *publishUC) createRepo(ctx context.Context, name, description string) (*adapter.Repo, error) {
	repo, err := p.hosting.CreateRepo(ctx, name, description)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, domain.ErrRepoExists) {
		return nil, err
	}
	alt := DisambiguatedName(name)
	p.log.Warn().Str("repo", name).Str("renamed", alt).Msg("repository name taken, retrying with suffix")
	return p.hosting.CreateRepo(ctx, alt, description)
}

func (p *publishUC) pagesURL(repoName string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", p.username, repoName)
}

// RepoNameForTask derives a provider-safe repository name from the task
// identifier: lowercase, alphanumerics and hyphens only.
func RepoNameForTask(task string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(task)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "generated-app"
	}
	return name
}

// TruncateDescription caps the brief at max characters for the repository
// description. It cuts on rune boundaries so a multi-byte brief never yields
// invalid UTF-8.
func TruncateDescription(brief string, max int) string {
	if utf8.RuneCountInString(brief) <= max {
		return brief
	}
	return string([]rune(brief)[:max])
}

// DisambiguatedName appends a short lowercase ULID fragment.
func DisambiguatedName(name string) string {
	suffix := strings.ToLower(ulid.Make().String())
	return name + "-" + suffix[len(suffix)-6:]
}

func ensureLicense(artifacts *model.ArtifactSet, username string) {
	if artifacts.Has("LICENSE") {
		return
	}
	artifacts.Add("LICENSE", fmt.Sprintf(`MIT License

Copyright (c) %d %s

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`, time.Now().Year(), username))
}

func ensureReadme(artifacts *model.ArtifactSet, repoName, brief, pagesURL, username string) {
	if artifacts.Has("README.md") {
		return
	}

	var files []string
	for _, f := range artifacts.Files() {
		files = append(files, f.Path)
	}
	sort.Strings(files)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", repoName)
	fmt.Fprintf(&b, "Generated static web application.\n\n")
	fmt.Fprintf(&b, "**Brief:** %s\n\n", brief)
	fmt.Fprintf(&b, "**Live demo:** %s\n\n", pagesURL)
	fmt.Fprintf(&b, "## Setup\n\nClone and open `index.html` in a browser:\n\n")
	fmt.Fprintf(&b, "```bash\ngit clone https://github.com/%s/%s.git\ncd %s\nopen index.html\n```\n\n", username, repoName, repoName)
	fmt.Fprintf(&b, "## Files\n\n")
	for _, f := range files {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}
	fmt.Fprintf(&b, "\n## License\n\nMIT License - see LICENSE for details.\n")

	artifacts.Add("README.md", b.String())
}
