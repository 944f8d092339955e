package model

// PublishResult is the outcome of repository creation and push.
// PagesURL is the best-known hosting URL; enablement propagates
// asynchronously on the provider side, so it may not be live yet.
type PublishResult struct {
	RepoName      string
	RepoURL       string
	CommitSHA     string
	DefaultBranch string
	PagesURL      string
}

type ReportStatus string

const (
	ReportStatusSuccess ReportStatus = "success"
	ReportStatusFailure ReportStatus = "failure"
)

// EvaluationReport is the terminal value POSTed to the evaluation URL.
// Created exactly once per job.
type EvaluationReport struct {
	Email     string       `json:"email"`
	Task      string       `json:"task"`
	Round     int          `json:"round"`
	Nonce     string       `json:"nonce"`
	Status    ReportStatus `json:"status"`
	URL       *string      `json:"url"`
	RepoURL   string       `json:"repo_url,omitempty"`
	CommitSHA string       `json:"commit_sha,omitempty"`
	Error     *string      `json:"error"`
}

// NewSuccessReport builds the report for a published job.
func NewSuccessReport(req JobRequest, res *PublishResult) *EvaluationReport {
	rep := &EvaluationReport{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		Status:    ReportStatusSuccess,
		RepoURL:   res.RepoURL,
		CommitSHA: res.CommitSHA,
	}
	if res.PagesURL != "" {
		rep.URL = &res.PagesURL
	}
	return rep
}

// NewFailureReport builds the report for a job that failed upstream.
func NewFailureReport(req JobRequest, cause error) *EvaluationReport {
	msg := cause.Error()
	return &EvaluationReport{
		Email:  req.Email,
		Task:   req.Task,
		Round:  req.Round,
		Nonce:  req.Nonce,
		Status: ReportStatusFailure,
		Error:  &msg,
	}
}
