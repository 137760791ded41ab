package analysis

import (
	"context"

	"pr-rca-service/internal/classifier"
	"pr-rca-service/internal/model"
	"pr-rca-service/pkg/azuredevops"
)

// UseCase runs the analysis pipeline for one inbound PR event.
type UseCase interface {
	// Analyze takes an admitted webhook event through dedup, classification,
	// authorization, context collection, report generation and distribution.
	// Expected skips (duplicate, not a bug, service disabled) return a
	// skipped output with a nil error; credential and lookup failures
	// return an error.
	Analyze(ctx context.Context, event model.PullRequestEvent) (AnalyzeOutput, error)
}

// Admitter is the duplicate-suppression gate.
type Admitter interface {
	Admit(key string) bool
}

// BugClassifier decides whether an event warrants analysis.
type BugClassifier interface {
	Classify(ctx context.Context, event model.PullRequestEvent, lookup classifier.WorkItemLookup) bool
}

// TokenProvider yields a currently-valid access token for a user.
type TokenProvider interface {
	GetValidToken(ctx context.Context, userID string) (string, error)
}

// Registry resolves the repository link, its owner and the owner's settings.
type Registry interface {
	GetRepository(ctx context.Context, repoID string) (model.RepositoryLink, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	GetSettings(ctx context.Context, userID string) (model.UserSettings, error)
}

// HostClient is the slice of the source-control host API the pipeline uses.
// Satisfied by *azuredevops.Client.
type HostClient interface {
	GetPullRequestIterations(ctx context.Context, project, repoID string, prID int) ([]azuredevops.Iteration, error)
	GetIterationChanges(ctx context.Context, project, repoID string, prID, iterationID int) ([]azuredevops.ChangeEntry, error)
	GetBlobContent(ctx context.Context, project, repoID, objectID string) (string, error)
	GetPullRequestCommits(ctx context.Context, project, repoID string, prID int) ([]azuredevops.CommitRef, error)
	GetBranchCommits(ctx context.Context, project, repoID, branch string, top int) ([]azuredevops.CommitRef, error)
	GetThreads(ctx context.Context, project, repoID string, prID int) ([]azuredevops.CommentThread, error)
	CreateThread(ctx context.Context, project, repoID string, prID int, content string) error
	GetPullRequestWorkItemRefs(ctx context.Context, project, repoID string, prID int) ([]azuredevops.WorkItemRef, error)
	GetWorkItems(ctx context.Context, project string, ids []int, fields []string) ([]azuredevops.WorkItem, error)
	PostWorkItemComment(ctx context.Context, project string, workItemID int, text string) error
	UpdateWorkItemFields(ctx context.Context, project string, workItemID int, fields map[string]any) error
}

// HostClientFactory builds a HostClient for one organization and token.
// The pipeline resolves org URL and token per event, so clients are
// constructed per run.
type HostClientFactory func(orgURL, token string) HostClient

// ReportGenerator is the report-generation boundary. Generate always
// returns usable text: internal failures become a placeholder report and
// are surfaced through logging, never through an error.
type ReportGenerator interface {
	Generate(ctx context.Context, input GenerateInput) string
}
