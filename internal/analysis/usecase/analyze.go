package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/classifier"
	"pr-rca-service/internal/model"
	"pr-rca-service/pkg/azuredevops"
)

// Analyze runs the full pipeline for one event. Expected skips return a
// nil error; only credential and lookup failures surface as errors.
func (uc *implUsecase) Analyze(ctx context.Context, event model.PullRequestEvent) (analysis.AnalyzeOutput, error) {
	out := analysis.AnalyzeOutput{RunID: uuid.NewString()}

	if !uc.deps.Dedup.Admit(event.DedupKey()) {
		uc.l.Infof(ctx, "analysis[%s]: duplicate delivery for PR %d in %s, skipping", out.RunID, event.PullRequestID, event.RepositoryID)
		out.Skipped = true
		out.SkipReason = analysis.SkipDuplicate
		return out, nil
	}

	repo, err := uc.deps.Registry.GetRepository(ctx, event.RepositoryID)
	if err != nil {
		return out, fmt.Errorf("%w: %s", analysis.ErrRepositoryNotLinked, event.RepositoryID)
	}

	owner, err := uc.deps.Registry.GetUser(ctx, repo.UserID)
	if err != nil {
		return out, fmt.Errorf("failed to resolve owner of repository %s: %w", repo.ID, err)
	}
	if !owner.IsActive {
		uc.l.Infof(ctx, "analysis[%s]: service disabled for user %s, skipping", out.RunID, owner.ID)
		out.Skipped = true
		out.SkipReason = analysis.SkipServiceDisabled
		return out, nil
	}

	if !uc.deps.Classifier.Classify(ctx, event, uc.workItemLookup(owner.ID)) {
		uc.l.Infof(ctx, "analysis[%s]: PR %d not bug related, skipping", out.RunID, event.PullRequestID)
		out.Skipped = true
		out.SkipReason = analysis.SkipNotBug
		return out, nil
	}

	settings, err := uc.deps.Registry.GetSettings(ctx, owner.ID)
	if err != nil {
		uc.l.Warnf(ctx, "analysis[%s]: failed to load settings for user %s, using defaults: %v", out.RunID, owner.ID, err)
		settings = model.UserSettings{}
	}

	token, err := uc.deps.Tokens.GetValidToken(ctx, owner.ID)
	if err != nil {
		return out, fmt.Errorf("analysis aborted, no usable credential for user %s: %w", owner.ID, err)
	}

	orgURL, err := azuredevops.ParseOrgURL(event.RepositoryURL)
	if err != nil {
		return out, fmt.Errorf("analysis aborted: %w", err)
	}
	host := uc.deps.Hosts(orgURL, token)

	actx := uc.collectContext(ctx, host, event, settings)

	raw := uc.deps.Generator.Generate(ctx, analysis.GenerateInput{
		Event:        event,
		Context:      actx,
		Model:        settings.AIModel,
		DeepThinking: settings.DeepThinking,
	})
	out.Report = analysis.ParseReport(raw)

	out.Distribution = uc.distribute(ctx, host, event, settings, out.Report)

	uc.l.Infof(ctx, "analysis[%s]: completed for PR %d (category=%q, comment=%t, workitems=%d/%d, email=%t)",
		out.RunID, event.PullRequestID, out.Report.Category,
		out.Distribution.CommentPosted, out.Distribution.WorkItemsUpdated,
		out.Distribution.WorkItemsTotal, out.Distribution.EmailSent)
	return out, nil
}

// workItemLookup resolves the work items linked to an event on demand.
// Classification must not require a credential up front, so the token is
// acquired lazily and any failure degrades to "no work items".
func (uc *implUsecase) workItemLookup(userID string) classifier.WorkItemLookup {
	return func(ctx context.Context, e model.PullRequestEvent) ([]model.WorkItemRef, error) {
		token, err := uc.deps.Tokens.GetValidToken(ctx, userID)
		if err != nil {
			return nil, err
		}
		orgURL, err := azuredevops.ParseOrgURL(e.RepositoryURL)
		if err != nil {
			return nil, err
		}
		return uc.linkedWorkItems(ctx, uc.deps.Hosts(orgURL, token), e)
	}
}

// linkedWorkItems fetches work item refs for a PR and resolves their type
// and title. Refs with non-numeric ids are skipped.
func (uc *implUsecase) linkedWorkItems(ctx context.Context, host analysis.HostClient, e model.PullRequestEvent) ([]model.WorkItemRef, error) {
	refs, err := host.GetPullRequestWorkItemRefs(ctx, e.Project, e.RepositoryID, e.PullRequestID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		id, err := strconv.Atoi(ref.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	items, err := host.GetWorkItems(ctx, e.Project, ids, []string{azuredevops.FieldWorkItemType, azuredevops.FieldTitle})
	if err != nil {
		return nil, err
	}

	out := make([]model.WorkItemRef, 0, len(items))
	for _, item := range items {
		ref := model.WorkItemRef{ID: item.ID, URL: item.URL}
		if t, ok := item.Fields[azuredevops.FieldWorkItemType].(string); ok {
			ref.Type = t
		}
		if title, ok := item.Fields[azuredevops.FieldTitle].(string); ok {
			ref.Title = title
		}
		out = append(out, ref)
	}
	return out, nil
}
