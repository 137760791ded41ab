package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/model"
)

// Budgets keep the collected context inside the prompt window of the
// cheapest supported model.
const (
	maxSummaryChars    = 15000
	maxFileChars       = 3000
	previousCommitsTop = 10
)

const (
	markerFileTruncated  = "\n...(file truncated)"
	markerBudgetExceeded = "\n...(Remaining files truncated due to size limit)..."
)

var (
	sourceFileRe = regexp.MustCompile(`\.(ts|js|py|java|cs|cpp|h|go|rs)$`)
	skipFileRe   = regexp.MustCompile(`(package-lock\.json|yarn\.lock|\.png|\.jpg|\.svg)$`)
)

// collectContext gathers everything the generator will see. Collection is
// best effort: every sub-collector degrades to empty on failure so a flaky
// host API never blocks report generation.
func (uc *implUsecase) collectContext(ctx context.Context, host analysis.HostClient, event model.PullRequestEvent, settings model.UserSettings) model.AnalysisContext {
	actx := model.AnalysisContext{
		DiffSummary: uc.collectDiffSummary(ctx, host, event),
		Commits:     uc.collectCommits(ctx, host, event),
	}

	if settings.DeepThinking {
		actx.Comments = uc.collectComments(ctx, host, event)
		actx.PreviousCommits = uc.collectPreviousCommits(ctx, host, event)
	}
	return actx
}

// collectDiffSummary builds a bounded text summary of the files changed in
// the latest PR iteration. Source files come first so they survive the
// budget; lockfiles and images are listed but never fetched.
func (uc *implUsecase) collectDiffSummary(ctx context.Context, host analysis.HostClient, event model.PullRequestEvent) string {
	iterations, err := host.GetPullRequestIterations(ctx, event.Project, event.RepositoryID, event.PullRequestID)
	if err != nil || len(iterations) == 0 {
		uc.l.Warnf(ctx, "collect: no iterations for PR %d: %v", event.PullRequestID, err)
		return ""
	}
	latest := iterations[len(iterations)-1].ID

	changes, err := host.GetIterationChanges(ctx, event.Project, event.RepositoryID, event.PullRequestID, latest)
	if err != nil {
		uc.l.Warnf(ctx, "collect: failed to list changes for PR %d: %v", event.PullRequestID, err)
		return ""
	}

	type fileChange struct {
		path, changeType, objectID string
	}
	entries := make([]fileChange, 0, len(changes))
	for _, ch := range changes {
		if ch.Item.IsFolder {
			continue
		}
		entries = append(entries, fileChange{ch.Item.Path, ch.ChangeType, ch.Item.ObjectID})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return sourceFileRe.MatchString(entries[i].path) && !sourceFileRe.MatchString(entries[j].path)
	})

	var b strings.Builder
	b.WriteString("Changed Files:\n")
	total := b.Len()

	for _, entry := range entries {
		if total >= maxSummaryChars {
			b.WriteString(markerBudgetExceeded)
			break
		}

		if skipFileRe.MatchString(entry.path) {
			line := fmt.Sprintf("\n--- File: %s (Skipped large/binary file) ---\n", entry.path)
			b.WriteString(line)
			total += len(line)
			continue
		}

		header := fmt.Sprintf("\n--- File: %s (%s) ---\n", entry.path, entry.changeType)
		if entry.objectID == "" || entry.changeType == "delete" {
			b.WriteString(header)
			total += len(header)
			continue
		}

		// No room for content after the header, so a fetch would only
		// produce an empty truncated entry.
		remaining := maxSummaryChars - total - len(header)
		if remaining <= 0 {
			b.WriteString(markerBudgetExceeded)
			break
		}

		content, err := host.GetBlobContent(ctx, event.Project, event.RepositoryID, entry.objectID)
		if err != nil {
			chunk := header + "(Content fetch failed)\n"
			b.WriteString(chunk)
			total += len(chunk)
			continue
		}

		limit := maxFileChars
		if remaining < limit {
			limit = remaining
		}
		if len(content) > limit {
			content = content[:limit] + markerFileTruncated
		}
		chunk := header + content + "\n"
		b.WriteString(chunk)
		total += len(chunk)
	}
	return b.String()
}

func (uc *implUsecase) collectCommits(ctx context.Context, host analysis.HostClient, event model.PullRequestEvent) []model.Commit {
	refs, err := host.GetPullRequestCommits(ctx, event.Project, event.RepositoryID, event.PullRequestID)
	if err != nil {
		uc.l.Warnf(ctx, "collect: failed to list commits for PR %d: %v", event.PullRequestID, err)
		return nil
	}

	commits := make([]model.Commit, 0, len(refs))
	for _, ref := range refs {
		commits = append(commits, model.Commit{
			SHA:     ref.CommitID,
			Message: ref.Comment,
			Author:  ref.Author.Name,
			Email:   ref.Author.Email,
			Date:    ref.Author.Date,
		})
	}
	return commits
}

// collectComments flattens the PR review threads into "[author]: text"
// lines, dropping system and deleted entries.
func (uc *implUsecase) collectComments(ctx context.Context, host analysis.HostClient, event model.PullRequestEvent) []string {
	threads, err := host.GetThreads(ctx, event.Project, event.RepositoryID, event.PullRequestID)
	if err != nil {
		uc.l.Warnf(ctx, "collect: failed to list threads for PR %d: %v", event.PullRequestID, err)
		return nil
	}

	var comments []string
	for _, thread := range threads {
		if thread.IsDeleted {
			continue
		}
		for _, c := range thread.Comments {
			if c.CommentType != "text" || strings.TrimSpace(c.Content) == "" {
				continue
			}
			comments = append(comments, fmt.Sprintf("[%s]: %s", c.Author.DisplayName, c.Content))
		}
	}
	return comments
}

func (uc *implUsecase) collectPreviousCommits(ctx context.Context, host analysis.HostClient, event model.PullRequestEvent) []model.Commit {
	branch := strings.TrimPrefix(event.TargetBranch, "refs/heads/")
	refs, err := host.GetBranchCommits(ctx, event.Project, event.RepositoryID, branch, previousCommitsTop)
	if err != nil {
		uc.l.Warnf(ctx, "collect: failed to list %s commits: %v", branch, err)
		return nil
	}

	commits := make([]model.Commit, 0, len(refs))
	for _, ref := range refs {
		commits = append(commits, model.Commit{
			SHA:     ref.CommitID,
			Message: ref.Comment,
			Author:  ref.Author.Name,
			Email:   ref.Author.Email,
			Date:    ref.Author.Date,
		})
	}
	return commits
}
