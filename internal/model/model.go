package model

import (
	"strconv"
	"time"
)

// Environment names used for mode switches.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// PullRequestEvent is a parsed "pull request created" service-hook event.
// It is transient: constructed per inbound webhook call and never persisted.
type PullRequestEvent struct {
	RepositoryID  string
	RepositoryURL string // web URL of the repository, org URL is derived from it
	Project       string
	PullRequestID int
	Title         string
	Description   string
	SourceBranch  string // full ref, e.g. refs/heads/fix/bug-123
	TargetBranch  string // full ref, e.g. refs/heads/main
	AuthorName    string
	AuthorEmail   string // uniqueName from the host, usually an email
	ReceivedAt    time.Time
}

// DedupKey identifies an event for duplicate suppression.
func (e PullRequestEvent) DedupKey() string {
	return e.RepositoryID + "-" + strconv.Itoa(e.PullRequestID)
}

// Credential is a per-user OAuth access/refresh token pair.
// Owned exclusively by the credential manager; mutated only by refresh.
type Credential struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // last-issued token lifetime minus the safety margin
}

// Valid reports whether the cached access token can still be used.
func (c Credential) Valid(now time.Time) bool {
	return c.AccessToken != "" && now.Before(c.ExpiresAt)
}

// RepositoryLink is a repository connected by a user.
type RepositoryLink struct {
	ID        string
	UserID    string
	Name      string
	OrgURL    string // persisted at connect time so disconnect can deregister the hook
	Project   string
	WebhookID string // empty means the remote hook registration failed
}

// User is a registered account.
type User struct {
	ID       string
	Email    string
	Name     string
	IsActive bool
}

// UserSettings control per-user pipeline behaviour. Read-only to the pipeline.
type UserSettings struct {
	AIModel             string
	DeepThinking        bool
	SendEmails          bool
	AutoDetectDeveloper bool
	NotificationEmails  []string
}

// Subscription is the billing plan attached to a user.
type Subscription struct {
	UserID string
	PlanID string // free, standard, pro
	Status string
}

// Commit is one commit in a PR or on a branch.
type Commit struct {
	SHA     string
	Message string
	Author  string
	Email   string
	Date    time.Time
}

// WorkItemRef is a work item linked to a PR, with its tracking type resolved.
type WorkItemRef struct {
	ID    int
	Type  string // Bug, Task, Issue, ...
	Title string
	URL   string
}

// AnalysisContext is everything gathered for one pipeline run.
// Built once per event and discarded after the run.
type AnalysisContext struct {
	DiffSummary     string
	Commits         []Commit
	Comments        []string // "[author]: text", deep analysis only
	PreviousCommits []Commit // recent commits on the target branch, deep analysis only
}

// ReportCategory is the classification extracted from a generated report.
type ReportCategory string

const (
	CategoryCode          ReportCategory = "Code"
	CategoryConfiguration ReportCategory = "Configuration"
	CategoryDesign        ReportCategory = "Design"
	CategoryDeployment    ReportCategory = "Deployment"
	CategoryUnknown       ReportCategory = ""
)

// Report is a generated root-cause analysis.
type Report struct {
	Category ReportCategory // CategoryUnknown when no marker was found
	Body     string
}
