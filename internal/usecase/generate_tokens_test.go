package usecase

import (
	"context"
	"testing"
	"time"

	"llm-code-deploy/internal/domain/ports/adapter"
)

// White-box: the token encoding is a constructor-time field, so its reuse
// across calls can be asserted directly.

type staticGenerator struct{}

func (staticGenerator) Name() string { return "static" }

func (staticGenerator) Chat(_ context.Context, _ string, _ []adapter.Message) (string, error) {
	return `{"index.html": "<html></html>"}`, nil
}

func TestGenerationUC_EncodingBuiltOnce(t *testing.T) {
	uc := NewGenerationUseCase(staticGenerator{}, "gpt-4o-mini", time.Second, silentLogger())
	first := uc.enc

	uc.Generate(context.Background(), "a landing page", "todo-app-xyz")
	uc.Generate(context.Background(), "a landing page", "todo-app-xyz")

	if uc.enc != first {
		t.Error("token encoding rebuilt after construction")
	}
}

func TestGenerationUC_MissingEncodingDoesNotBlockGeneration(t *testing.T) {
	uc := NewGenerationUseCase(staticGenerator{}, "gpt-4o-mini", time.Second, silentLogger())
	uc.enc = nil

	set := uc.Generate(context.Background(), "a landing page", "todo-app-xyz")
	if set == nil || !set.HasEntryPoint() {
		t.Fatal("generation did not produce the entry point with token metrics disabled")
	}
}
