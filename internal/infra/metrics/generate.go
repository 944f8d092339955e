package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(generationCalls, generationPromptTokens) }

var generationCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_calls_total",
		Help: "Generation attempts per provider and outcome. 'error', 'malformed' and 'fallback' outcomes all resolved to the deterministic fallback site.",
	},
	[]string{"provider", "outcome"}, // 'ok', 'error', 'malformed', 'fallback'
)

var generationPromptTokens = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_prompt_tokens",
		Help: "Estimated prompt tokens sent per provider/model.",
	},
	[]string{"provider", "model"},
)

func IncGeneration(provider, outcome string) {
	generationCalls.WithLabelValues(provider, outcome).Inc()
}

func AddPromptTokens(provider, model string, n int) {
	if n <= 0 {
		return
	}
	generationPromptTokens.WithLabelValues(provider, model).Add(float64(n))
}
