package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/domain/ports/adapter"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// ---- adapter.TextGenerator mock ----

type MockGenerator struct {
	mu       sync.Mutex
	Calls    int
	LastMsgs []adapter.Message
	ChatFunc func(ctx context.Context, model string, messages []adapter.Message) (string, error)
}

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastMsgs = messages
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, model, messages)
	}
	return "", nil
}

// ---- adapter.HostingProvider mock ----

type MockHosting struct {
	mu              sync.Mutex
	Sequence        []string // records "create", "push", "enable" in call order
	CreatedNames    []string
	PushedArtifacts *model.ArtifactSet
	PushedMessage   string

	CreateRepoFunc  func(ctx context.Context, name, description string) (*adapter.Repo, error)
	PushFilesFunc   func(ctx context.Context, repo *adapter.Repo, artifacts *model.ArtifactSet, message string) (string, error)
	EnablePagesFunc func(ctx context.Context, repo *adapter.Repo, branch string) (string, error)
}

func (m *MockHosting) CreateRepo(ctx context.Context, name, description string) (*adapter.Repo, error) {
	m.mu.Lock()
	m.Sequence = append(m.Sequence, "create")
	m.CreatedNames = append(m.CreatedNames, name)
	m.mu.Unlock()
	if m.CreateRepoFunc != nil {
		return m.CreateRepoFunc(ctx, name, description)
	}
	return &adapter.Repo{Name: name, Owner: "octo", HTMLURL: "https://github.com/octo/" + name, DefaultBranch: "main"}, nil
}

func (m *MockHosting) PushFiles(ctx context.Context, repo *adapter.Repo, artifacts *model.ArtifactSet, message string) (string, error) {
	m.mu.Lock()
	m.Sequence = append(m.Sequence, "push")
	m.PushedArtifacts = artifacts
	m.PushedMessage = message
	m.mu.Unlock()
	if m.PushFilesFunc != nil {
		return m.PushFilesFunc(ctx, repo, artifacts, message)
	}
	return "abc123", nil
}

func (m *MockHosting) EnablePages(ctx context.Context, repo *adapter.Repo, branch string) (string, error) {
	m.mu.Lock()
	m.Sequence = append(m.Sequence, "enable")
	m.mu.Unlock()
	if m.EnablePagesFunc != nil {
		return m.EnablePagesFunc(ctx, repo, branch)
	}
	return "https://octo.github.io/" + repo.Name + "/", nil
}

// ---- use case mocks for the orchestrator tests ----

type MockGenerationUC struct {
	GenerateFunc func(ctx context.Context, brief, task string) *model.ArtifactSet
}

func (m *MockGenerationUC) Generate(ctx context.Context, brief, task string) *model.ArtifactSet {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, brief, task)
	}
	set := model.NewArtifactSet()
	set.Add(model.EntryPoint, "<html></html>")
	return set
}

type MockPublishUC struct {
	PublishFunc func(ctx context.Context, task, brief string, artifacts *model.ArtifactSet) (*model.PublishResult, error)
}

func (m *MockPublishUC) Publish(ctx context.Context, task, brief string, artifacts *model.ArtifactSet) (*model.PublishResult, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, task, brief, artifacts)
	}
	return &model.PublishResult{
		RepoName:      task,
		RepoURL:       "https://github.com/octo/" + task,
		CommitSHA:     "abc123",
		DefaultBranch: "main",
		PagesURL:      "https://octo.github.io/" + task + "/",
	}, nil
}

type MockNotifyUC struct {
	mu      sync.Mutex
	Reports []*model.EvaluationReport
	Result  bool
}

func (m *MockNotifyUC) Notify(ctx context.Context, eval model.Evaluation, report *model.EvaluationReport) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports = append(m.Reports, report)
	return m.Result
}
