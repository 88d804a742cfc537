package model

import "time"

// DispositionStatus is the terminal outcome class for one entity.
type DispositionStatus string

const (
	DispositionIncluded DispositionStatus = "included"
	DispositionSkipped  DispositionStatus = "skipped"
)

// SkipReason is the fixed taxonomy code recorded on a skipped entity.
type SkipReason string

const (
	ReasonResolutionTimeout     SkipReason = "resolution_timeout"
	ReasonNoCandidateFound      SkipReason = "no_candidate_found"
	ReasonInvalidURLScheme      SkipReason = "invalid_url_scheme"
	ReasonBlacklistedDomain     SkipReason = "blacklisted_domain"
	ReasonLivenessTimeout       SkipReason = "liveness_timeout"
	ReasonDeadLink              SkipReason = "dead_link"
	ReasonClassifierExcluded    SkipReason = "classifier_excluded"
	ReasonClassificationFailure SkipReason = "classification_failure"
)

// Disposition is the immutable per-entity outcome. Exactly one of Included
// (with industry and url populated) or Skipped (with a reason code and,
// when one was resolved, the url that was rejected).
type Disposition struct {
	Name     string            `json:"name"`
	Status   DispositionStatus `json:"status"`
	Reason   SkipReason        `json:"reason,omitempty"`
	URL      string            `json:"url,omitempty"`
	Industry string            `json:"industry,omitempty"`
	LinkDead bool              `json:"link_dead,omitempty"`
	Elapsed  time.Duration     `json:"elapsed_ns"`
}

// RunStatus tracks the lifecycle of one enrichment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one invocation of the enrichment pipeline over a source.
type Run struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary accumulates per-run disposition counts.
type RunSummary struct {
	Processed   int `json:"processed"`
	Resolved    int `json:"resolved"`
	NoSite      int `json:"no_site"`
	DeadSkipped int `json:"dead_skipped"`
	Included    int `json:"included"`
}

// Record folds one disposition into the summary.
func (s *RunSummary) Record(d Disposition) {
	s.Processed++
	if d.URL != "" {
		s.Resolved++
	}
	switch {
	case d.Status == DispositionIncluded:
		s.Included++
	case d.Reason == ReasonDeadLink:
		s.DeadSkipped++
	case d.Reason == ReasonNoCandidateFound || d.Reason == ReasonResolutionTimeout:
		s.NoSite++
	}
}
