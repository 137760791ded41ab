package analysis

import "pr-rca-service/internal/model"

// SkipReason explains why a run ended without producing a report.
type SkipReason string

const (
	SkipDuplicate       SkipReason = "duplicate"
	SkipNotBug          SkipReason = "not_bug_related"
	SkipServiceDisabled SkipReason = "service_disabled"
)

// AnalyzeOutput summarizes one pipeline run.
type AnalyzeOutput struct {
	RunID        string
	Skipped      bool
	SkipReason   SkipReason
	Report       model.Report
	Distribution DistributionResult
}

// GenerateInput is everything a generator needs to produce one report.
type GenerateInput struct {
	Event        model.PullRequestEvent
	Context      model.AnalysisContext
	Model        string
	DeepThinking bool
}

// DistributionResult records per-sink outcomes of the fan-out. Sinks fail
// independently, so partial results are normal.
type DistributionResult struct {
	CommentPosted    bool
	WorkItemsTotal   int
	WorkItemsUpdated int
	EmailRecipients  int
	EmailSent        bool
}
