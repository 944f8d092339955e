// File: internal/usecase/generate_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/domain/ports/adapter"
	"llm-code-deploy/internal/infra/metrics"
)

// Compile-time check
var _ GenerationUseCase = (*generationUC)(nil)

// GenerationUseCase produces the artifact set for a brief. It never fails:
// provider errors, malformed output, or a disabled provider all downgrade to
// the deterministic fallback page, so the pipeline can complete with the
// generative dependency entirely down.
type GenerationUseCase interface {
	Generate(ctx context.Context, brief, task string) *model.ArtifactSet
}

type generationUC struct {
	ai      adapter.TextGenerator // nil means generation is disabled by config
	model   string
	timeout time.Duration
	enc     *tiktoken.Tiktoken // nil when the encoding is unavailable offline
	log     *zerolog.Logger
}

func NewGenerationUseCase(ai adapter.TextGenerator, modelName string, timeout time.Duration, logger *zerolog.Logger) *generationUC {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	// Built once; the vocabulary lookup is too costly per job and its
	// absence must never block generation.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn().Err(err).Msg("token encoding unavailable, prompt token metrics disabled")
		enc = nil
	}
	return &generationUC{ai: ai, model: modelName, timeout: timeout, enc: enc, log: logger}
}

func (g *generationUC) Generate(ctx context.Context, brief, task string) *model.ArtifactSet {
	if g.ai == nil {
		g.log.Info().Str("task", task).Msg("generation disabled, using fallback site")
		metrics.IncGeneration("none", "fallback")
		return fallbackSite(brief, task)
	}

	prompt := buildPrompt(brief)
	g.countPromptTokens(prompt)

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.ai.Chat(cctx, g.model, []adapter.Message{
		{Role: "system", Content: "You are an expert web developer. Generate clean, professional code."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		g.log.Warn().Err(err).Str("task", task).Str("provider", g.ai.Name()).Msg("generation call failed, using fallback site")
		metrics.IncGeneration(g.ai.Name(), "error")
		return fallbackSite(brief, task)
	}

	set, ok := parseResponse(raw)
	if !ok {
		g.log.Warn().Str("task", task).Str("provider", g.ai.Name()).Msg("generation output unusable, using fallback site")
		metrics.IncGeneration(g.ai.Name(), "malformed")
		return fallbackSite(brief, task)
	}
	metrics.IncGeneration(g.ai.Name(), "ok")
	return set
}

func buildPrompt(brief string) string {
	return fmt.Sprintf(`Generate a complete, minimal web application based on this brief:

%s

Requirements:
1. Create a single-page application using HTML, CSS, and JavaScript
2. Make it functional and visually appealing
3. Use only vanilla JavaScript (no frameworks)
4. Include all code inline (no external dependencies)
5. Make it responsive and mobile-friendly
6. Keep it simple but professional

Return ONLY a JSON object mapping file names to file contents, for example:
{
    "index.html": "<complete HTML code with inline CSS and JS>"
}

Important: the HTML must be complete and self-contained. Include all styles in a <style> tag and all JavaScript in a <script> tag.`, brief)
}

// parseResponse extracts the artifact map from raw provider output. Providers
// often wrap the JSON in prose or markdown fences, so it scans for the
// outermost braces before unmarshalling. A bare HTML document is accepted
// as the entry point.
func parseResponse(raw string) (*model.ArtifactSet, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		var files map[string]string
		if err := json.Unmarshal([]byte(raw[start:end+1]), &files); err == nil {
			set := model.NewArtifactSet()
			// Entry point first, remaining paths sorted, so the commit
			// order is stable across runs.
			if content, ok := files[model.EntryPoint]; ok {
				set.Add(model.EntryPoint, content)
			}
			rest := make([]string, 0, len(files))
			for path := range files {
				if path == model.EntryPoint || strings.TrimSpace(path) == "" {
					continue
				}
				rest = append(rest, path)
			}
			sort.Strings(rest)
			for _, path := range rest {
				set.Add(path, files[path])
			}
			if set.HasEntryPoint() {
				return set, true
			}
			return nil, false
		}
	}
	if strings.Contains(strings.ToLower(raw), "<html") {
		set := model.NewArtifactSet()
		set.Add(model.EntryPoint, raw)
		return set, true
	}
	return nil, false
}

// countPromptTokens estimates prompt size for metrics. Best-effort.
func (g *generationUC) countPromptTokens(prompt string) {
	if g.enc == nil {
		return
	}
	metrics.AddPromptTokens(g.ai.Name(), g.model, len(g.enc.Encode(prompt, nil, nil)))
}

// fallbackSite deterministically synthesizes a minimal page that embeds the
// literal brief. No network dependency.
func fallbackSite(brief, task string) *model.ArtifactSet {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>%s</title>
	<style>
		* { margin: 0; padding: 0; box-sizing: border-box; }
		body {
			font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
			line-height: 1.6;
			color: #333;
			background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
			min-height: 100vh;
			display: flex;
			justify-content: center;
			align-items: center;
			padding: 20px;
		}
		.container {
			background: white;
			padding: 40px;
			border-radius: 10px;
			box-shadow: 0 10px 40px rgba(0,0,0,0.2);
			max-width: 600px;
			width: 100%%;
		}
		h1 { color: #667eea; margin-bottom: 20px; }
		.input-group { margin: 20px 0; }
		input {
			width: 100%%;
			padding: 12px;
			border: 2px solid #e0e0e0;
			border-radius: 5px;
			font-size: 16px;
		}
		input:focus { outline: none; border-color: #667eea; }
		button {
			background: #667eea;
			color: white;
			border: none;
			padding: 12px 30px;
			border-radius: 5px;
			font-size: 16px;
			cursor: pointer;
		}
		button:hover { background: #764ba2; }
		.result {
			margin-top: 20px;
			padding: 15px;
			background: #f5f5f5;
			border-radius: 5px;
			display: none;
		}
		.result.show { display: block; }
	</style>
</head>
<body>
	<div class="container">
		<h1>%s</h1>
		<p><strong>Task brief:</strong> %s</p>
		<div class="input-group">
			<input type="text" id="userInput" placeholder="Enter something...">
		</div>
		<button onclick="processInput()">Submit</button>
		<div class="result" id="result"></div>
	</div>
	<script>
		function processInput() {
			const input = document.getElementById('userInput').value;
			const result = document.getElementById('result');
			if (input.trim() === '') {
				result.textContent = 'Please enter something!';
			} else {
				result.textContent = 'Processed: ' + input;
			}
			result.classList.add('show');
		}
		document.getElementById('userInput').addEventListener('keypress', function(e) {
			if (e.key === 'Enter') { processInput(); }
		});
	</script>
</body>
</html>
`, html.EscapeString(task), html.EscapeString(task), html.EscapeString(brief))

	set := model.NewArtifactSet()
	set.Add(model.EntryPoint, page)
	return set
}
