package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"llm-code-deploy/internal/domain"
	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/domain/ports/adapter"
	"llm-code-deploy/internal/infra/web"
	"llm-code-deploy/internal/usecase"
)

// recordingHosting is an in-memory HostingProvider for end-to-end flows.
type recordingHosting struct {
	mu       sync.Mutex
	sequence []string
	names    []string
	taken    map[string]bool
}

func (h *recordingHosting) CreateRepo(ctx context.Context, name, description string) (*adapter.Repo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sequence = append(h.sequence, "create")
	h.names = append(h.names, name)
	if h.taken[name] {
		return nil, fmt.Errorf("create %q: %w", name, domain.ErrRepoExists)
	}
	return &adapter.Repo{Name: name, Owner: "octo", HTMLURL: "https://github.com/octo/" + name, DefaultBranch: "main"}, nil
}

func (h *recordingHosting) PushFiles(ctx context.Context, repo *adapter.Repo, artifacts *model.ArtifactSet, message string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sequence = append(h.sequence, "push")
	return "abc123", nil
}

func (h *recordingHosting) EnablePages(ctx context.Context, repo *adapter.Repo, branch string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sequence = append(h.sequence, "enable")
	return "https://octo.github.io/" + repo.Name + "/", nil
}

func (h *recordingHosting) snapshot() ([]string, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.sequence...), append([]string(nil), h.names...)
}

// newPipelineServer wires real use cases (generation disabled, so every job
// takes the deterministic fallback path) around the recording provider.
func newPipelineServer(t *testing.T, hostingMock adapter.HostingProvider) *web.Server {
	t.Helper()
	logger := newTestLogger()
	genUC := usecase.NewGenerationUseCase(nil, "gpt-4o-mini", time.Second, logger)
	pubUC := usecase.NewPublishUseCase(hostingMock, "octo", "main", logger)
	notifUC := usecase.NewNotifyUseCase(1, time.Millisecond, time.Second, logger)
	jobUC := usecase.NewJobUseCase("shared-secret", genUC, pubUC, notifUC, logger)
	return web.NewServer(jobUC, newTestPool(t), logger)
}

func postSubmission(t *testing.T, router http.Handler, callbackURL string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api-endpoint", requestBody(t, func(m map[string]any) {
		m["evaluation"] = map[string]any{"url": callbackURL}
	}))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Run("generation unavailable -> publish succeeds and callback reports success", func(t *testing.T) {
		reports := make(chan map[string]any, 1)
		callback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			var payload map[string]any
			_ = json.Unmarshal(b, &payload)
			reports <- payload
			w.WriteHeader(http.StatusOK)
		}))
		defer callback.Close()

		hostingMock := &recordingHosting{}
		srv := newPipelineServer(t, hostingMock)

		rr := postSubmission(t, srv.Router(), callback.URL)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 ack, got %d", rr.Code)
		}

		var payload map[string]any
		select {
		case payload = <-reports:
		case <-time.After(2 * time.Second):
			t.Fatal("callback never received the evaluation report")
		}

		if payload["status"] != "success" {
			t.Fatalf("expected success report, got %v", payload)
		}
		url, _ := payload["url"].(string)
		if url == "" {
			t.Error("expected a non-null hosting url in the report")
		}
		if payload["task"] != "todo-app-xyz" {
			t.Error("report lost the task correlation field")
		}

		seq, _ := hostingMock.snapshot()
		if strings.Join(seq, ",") != "create,push,enable" {
			t.Errorf("expected one create+push+enable sequence, got %v", seq)
		}
	})

	t.Run("repo name taken -> job publishes under disambiguated name", func(t *testing.T) {
		reports := make(chan map[string]any, 1)
		callback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			var payload map[string]any
			_ = json.Unmarshal(b, &payload)
			reports <- payload
			w.WriteHeader(http.StatusOK)
		}))
		defer callback.Close()

		hostingMock := &recordingHosting{taken: map[string]bool{"todo-app-xyz": true}}
		srv := newPipelineServer(t, hostingMock)

		if rr := postSubmission(t, srv.Router(), callback.URL); rr.Code != http.StatusOK {
			t.Fatalf("expected 200 ack, got %d", rr.Code)
		}

		var payload map[string]any
		select {
		case payload = <-reports:
		case <-time.After(2 * time.Second):
			t.Fatal("job was silently dropped on name collision")
		}
		if payload["status"] != "success" {
			t.Fatalf("expected success report, got %v", payload)
		}

		_, names := hostingMock.snapshot()
		if len(names) != 2 {
			t.Fatalf("expected 2 create attempts, got %v", names)
		}
		if !strings.HasPrefix(names[1], "todo-app-xyz-") || names[1] == "todo-app-xyz" {
			t.Errorf("expected a disambiguated name, got %q", names[1])
		}
		url, _ := payload["url"].(string)
		if !strings.Contains(url, names[1]) {
			t.Errorf("report url %q does not point at the disambiguated repo", url)
		}
	})
}
