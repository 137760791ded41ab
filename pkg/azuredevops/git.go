package azuredevops

import (
	"context"
	"fmt"
	"net/url"
)

// GetPullRequestIterations lists the iterations (pushes) of a pull request.
func (c *Client) GetPullRequestIterations(ctx context.Context, project, repoID string, prID int) ([]Iteration, error) {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/pullRequests/%d/iterations?api-version=%s", repoID, prID, apiVersion))

	var out listResponse[Iteration]
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list PR iterations: %w", err)
	}
	return out.Value, nil
}

// GetIterationChanges lists the changed files of one PR iteration.
func (c *Client) GetIterationChanges(ctx context.Context, project, repoID string, prID, iterationID int) ([]ChangeEntry, error) {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/pullRequests/%d/iterations/%d/changes?api-version=%s", repoID, prID, iterationID, apiVersion))

	var out iterationChangesResponse
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list iteration changes: %w", err)
	}
	return out.ChangeEntries, nil
}

// GetBlobContent fetches the content of a blob as text.
func (c *Client) GetBlobContent(ctx context.Context, project, repoID, objectID string) (string, error) {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/blobs/%s?api-version=%s&$format=text", repoID, objectID, apiVersion))

	content, err := c.getText(ctx, u)
	if err != nil {
		return "", fmt.Errorf("failed to fetch blob %s: %w", objectID, err)
	}
	return content, nil
}

// GetPullRequestCommits lists the commits that make up a pull request.
func (c *Client) GetPullRequestCommits(ctx context.Context, project, repoID string, prID int) ([]CommitRef, error) {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/pullRequests/%d/commits?api-version=%s", repoID, prID, apiVersion))

	var out listResponse[CommitRef]
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list PR commits: %w", err)
	}
	return out.Value, nil
}

// GetBranchCommits lists up to top recent commits on a branch.
// branch is the short name (main), not the full ref.
func (c *Client) GetBranchCommits(ctx context.Context, project, repoID, branch string, top int) ([]CommitRef, error) {
	u := c.projectURL(project, fmt.Sprintf(
		"git/repositories/%s/commits?searchCriteria.itemVersion.version=%s&searchCriteria.itemVersion.versionType=branch&searchCriteria.%%24top=%d&api-version=%s",
		repoID, url.QueryEscape(branch), top, apiVersion))

	var out listResponse[CommitRef]
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list branch commits: %w", err)
	}
	return out.Value, nil
}

// GetThreads lists the review discussion threads of a pull request.
func (c *Client) GetThreads(ctx context.Context, project, repoID string, prID int) ([]CommentThread, error) {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/pullRequests/%d/threads?api-version=%s", repoID, prID, apiVersion))

	var out listResponse[CommentThread]
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list PR threads: %w", err)
	}
	return out.Value, nil
}

// CreateThread posts a new top-level comment thread on a pull request.
func (c *Client) CreateThread(ctx context.Context, project, repoID string, prID int, content string) error {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/pullRequests/%d/threads?api-version=%s", repoID, prID, apiVersion))

	thread := CommentThread{
		Status: "active",
		Comments: []ThreadComment{
			{ParentCommentID: 0, Content: content, CommentType: "text"},
		},
	}
	if err := c.do(ctx, "POST", u, thread, nil); err != nil {
		return fmt.Errorf("failed to create PR thread: %w", err)
	}
	return nil
}
