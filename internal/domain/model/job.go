package model

import (
	"strings"
	"time"
)

// Evaluation describes where the terminal job outcome is delivered.
type Evaluation struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// JobRequest is the inbound submission. Immutable once accepted; task and
// round together form the correlation key echoed in the final report.
type JobRequest struct {
	Email      string     `json:"email"`
	Task       string     `json:"task"`
	Round      int        `json:"round"`
	Nonce      string     `json:"nonce"`
	Secret     string     `json:"secret"`
	Brief      string     `json:"brief"`
	Evaluation Evaluation `json:"evaluation"`
}

// MissingFields returns the names of required fields that are absent.
// The secret is checked separately so a bad secret is distinguishable
// from a missing one.
func (r *JobRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.Task) == "" {
		missing = append(missing, "task")
	}
	if r.Round < 1 {
		missing = append(missing, "round")
	}
	if strings.TrimSpace(r.Nonce) == "" {
		missing = append(missing, "nonce")
	}
	if strings.TrimSpace(r.Secret) == "" {
		missing = append(missing, "secret")
	}
	if strings.TrimSpace(r.Brief) == "" {
		missing = append(missing, "brief")
	}
	if strings.TrimSpace(r.Evaluation.URL) == "" {
		missing = append(missing, "evaluation.url")
	}
	return missing
}

// Job is one accepted request on its way through the
// generate -> publish -> notify pipeline.
type Job struct {
	ID         string
	Request    JobRequest
	AcceptedAt time.Time
}
