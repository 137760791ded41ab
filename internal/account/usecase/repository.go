package usecase

import (
	"context"
	"fmt"

	"pr-rca-service/internal/account"
	"pr-rca-service/internal/model"
	"pr-rca-service/pkg/azuredevops"
)

// ConnectRepository links a host repository to the user's account and
// registers the PR-created service hook. Hook registration is best
// effort: a failure leaves the link with an empty webhook id and is
// surfaced through logging only.
func (uc *implUsecase) ConnectRepository(ctx context.Context, input account.ConnectRepositoryInput) (model.RepositoryLink, error) {
	if _, err := uc.repo.GetUser(ctx, input.UserID); err != nil {
		return model.RepositoryLink{}, account.ErrUserNotFound
	}

	if existing, err := uc.repo.GetRepository(ctx, input.RepoID); err == nil {
		if existing.UserID == input.UserID {
			return existing, account.ErrAlreadyConnected
		}
		return model.RepositoryLink{}, account.ErrAlreadyConnected
	}

	if err := uc.checkPlanLimit(ctx, input.UserID); err != nil {
		return model.RepositoryLink{}, err
	}

	orgURL, err := azuredevops.ParseOrgURL(input.RepoURL)
	if err != nil {
		return model.RepositoryLink{}, fmt.Errorf("invalid repository URL: %w", err)
	}

	link := model.RepositoryLink{
		ID:      input.RepoID,
		UserID:  input.UserID,
		Name:    input.Name,
		OrgURL:  orgURL,
		Project: input.Project,
	}

	link.WebhookID = uc.registerHook(ctx, input, orgURL)

	if err := uc.repo.SaveRepository(ctx, link); err != nil {
		return model.RepositoryLink{}, fmt.Errorf("failed to save repository link: %w", err)
	}

	uc.l.Infof(ctx, "account: connected repository %s for user %s (hook=%q)", link.ID, link.UserID, link.WebhookID)
	return link, nil
}

// DisconnectRepository removes the link and tries to deregister the
// service hook. Hook deletion is best effort; the link is removed even
// when the host rejects the delete so a revoked token cannot wedge the
// account.
func (uc *implUsecase) DisconnectRepository(ctx context.Context, userID, repoID string) error {
	link, err := uc.repo.GetRepository(ctx, repoID)
	if err != nil || link.UserID != userID {
		return account.ErrRepositoryNotFound
	}

	if link.WebhookID != "" {
		uc.removeHook(ctx, link)
	}

	if err := uc.repo.DeleteRepository(ctx, repoID); err != nil {
		return fmt.Errorf("failed to delete repository link: %w", err)
	}

	uc.l.Infof(ctx, "account: disconnected repository %s for user %s", repoID, userID)
	return nil
}

func (uc *implUsecase) ListRepositories(ctx context.Context, userID string) ([]model.RepositoryLink, error) {
	if _, err := uc.repo.GetUser(ctx, userID); err != nil {
		return nil, account.ErrUserNotFound
	}
	return uc.repo.ListRepositories(ctx, userID)
}

func (uc *implUsecase) checkPlanLimit(ctx context.Context, userID string) error {
	plan := defaultPlan
	if sub, err := uc.repo.GetSubscription(ctx, userID); err == nil && sub.PlanID != "" {
		plan = sub.PlanID
	}

	limit, ok := planLimits[plan]
	if !ok {
		limit = planLimits[defaultPlan]
	}
	if limit < 0 {
		return nil
	}

	count, err := uc.repo.CountRepositories(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count repositories: %w", err)
	}
	if count >= limit {
		return fmt.Errorf("%w: plan %s allows %d", account.ErrPlanLimitReached, plan, limit)
	}
	return nil
}

func (uc *implUsecase) registerHook(ctx context.Context, input account.ConnectRepositoryInput, orgURL string) string {
	token, err := uc.tokens.GetValidToken(ctx, input.UserID)
	if err != nil {
		uc.l.Warnf(ctx, "account: no credential for user %s, skipping hook registration: %v", input.UserID, err)
		return ""
	}

	hookID, err := uc.hooks(orgURL, token).CreatePullRequestHook(ctx, input.Project, input.RepoID, uc.notifyURL)
	if err != nil {
		uc.l.Errorf(ctx, "account: failed to register hook for repository %s: %v", input.RepoID, err)
		return ""
	}
	return hookID
}

func (uc *implUsecase) removeHook(ctx context.Context, link model.RepositoryLink) {
	token, err := uc.tokens.GetValidToken(ctx, link.UserID)
	if err != nil {
		uc.l.Warnf(ctx, "account: no credential for user %s, leaving hook %s behind: %v", link.UserID, link.WebhookID, err)
		return
	}
	if err := uc.hooks(link.OrgURL, token).DeleteHook(ctx, link.WebhookID); err != nil {
		uc.l.Warnf(ctx, "account: failed to delete hook %s for repository %s: %v", link.WebhookID, link.ID, err)
	}
}
