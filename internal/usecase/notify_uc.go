// File: internal/usecase/notify_uc.go
package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"llm-code-deploy/internal/domain/model"
	"llm-code-deploy/internal/infra/metrics"
)

// Compile-time check
var _ NotifyUseCase = (*notifyUC)(nil)

// NotifyUseCase delivers the evaluation report to the caller-supplied
// callback. It resolves to a boolean and never returns an error past its
// boundary, so the pipeline always completes cleanly regardless of callback
// reachability.
type NotifyUseCase interface {
	Notify(ctx context.Context, eval model.Evaluation, report *model.EvaluationReport) bool
}

type notifyUC struct {
	client       *http.Client
	maxAttempts  int
	initialDelay time.Duration
	sleep        func(time.Duration)
	log          *zerolog.Logger
}

func NewNotifyUseCase(maxAttempts int, initialDelay, timeout time.Duration, logger *zerolog.Logger) *notifyUC {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if initialDelay <= 0 {
		initialDelay = time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &notifyUC{
		client:       &http.Client{Timeout: timeout},
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		sleep:        time.Sleep,
		log:          logger,
	}
}

// Notify POSTs the report, retrying on any transport error or non-2xx
// response with pure exponential backoff (1s, 2s, 4s, 8s on the defaults).
// A non-2xx status and a transport error retry identically; the detail is
// only surfaced in logs.
func (n *notifyUC) Notify(ctx context.Context, eval model.Evaluation, report *model.EvaluationReport) bool {
	body, err := json.Marshal(report)
	if err != nil {
		n.log.Error().Err(err).Str("task", report.Task).Msg("report marshal failed")
		return false
	}

	delay := n.initialDelay
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if n.post(ctx, eval, body, attempt) {
			metrics.IncNotifyDelivery("delivered")
			return true
		}
		if attempt < n.maxAttempts {
			n.log.Info().Str("task", report.Task).Dur("delay", delay).Int("attempt", attempt).Msg("retrying evaluation submission")
			n.sleep(delay)
			delay *= 2
		}
	}

	n.log.Error().Str("task", report.Task).Int("attempts", n.maxAttempts).Msg("evaluation submission exhausted retries")
	metrics.IncNotifyDelivery("exhausted")
	return false
}

func (n *notifyUC) post(ctx context.Context, eval model.Evaluation, body []byte, attempt int) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, eval.URL, bytes.NewReader(body))
	if err != nil {
		n.log.Error().Err(err).Str("url", eval.URL).Msg("build notify request")
		metrics.IncNotifyAttempt("error")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range eval.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Int("attempt", attempt).Msg("evaluation submission transport error")
		metrics.IncNotifyAttempt("error")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("evaluation submission rejected")
		metrics.IncNotifyAttempt("rejected")
		return false
	}
	metrics.IncNotifyAttempt("ok")
	return true
}
