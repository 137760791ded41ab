// Package classifier decides whether a PR event should trigger analysis.
package classifier

import (
	"context"
	"strings"

	"pr-rca-service/internal/model"
	pkgLog "pr-rca-service/pkg/log"
)

// WorkItemLookup resolves the work items linked to the event's PR.
// It is only invoked when the text heuristic is inconclusive.
type WorkItemLookup func(ctx context.Context, event model.PullRequestEvent) ([]model.WorkItemRef, error)

// Classifier applies the branch gate, text heuristic and work-item fallback.
type Classifier struct {
	l pkgLog.Logger
}

// New creates a Classifier.
func New(l pkgLog.Logger) *Classifier {
	return &Classifier{l: l}
}

// Classify reports whether the event looks like a bug fix.
// Order: branch gate first, then the cheap text heuristic, then the
// work-item type fallback. A lookup failure never aborts classification;
// it degrades to "no match".
func (c *Classifier) Classify(ctx context.Context, event model.PullRequestEvent, lookup WorkItemLookup) bool {
	if !targetBranchAllowed(event.TargetBranch) {
		c.l.Infof(ctx, "classifier: PR #%d targets %s, only main/master are analyzed", event.PullRequestID, event.TargetBranch)
		return false
	}

	if textMentionsBug(event) {
		return true
	}

	if lookup == nil {
		return false
	}
	refs, err := lookup(ctx, event)
	if err != nil {
		c.l.Warnf(ctx, "classifier: work item lookup failed for PR #%d, treating as no match: %v", event.PullRequestID, err)
		return false
	}
	for _, ref := range refs {
		switch strings.ToLower(ref.Type) {
		case "bug", "issue":
			return true
		}
	}
	return false
}

func targetBranchAllowed(target string) bool {
	return strings.HasSuffix(target, "/main") || strings.HasSuffix(target, "/master")
}

func textMentionsBug(event model.PullRequestEvent) bool {
	for _, s := range []string{event.Title, event.Description, event.SourceBranch} {
		if strings.Contains(strings.ToLower(s), "bug") {
			return true
		}
	}
	return false
}
