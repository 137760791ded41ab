package azuredevops

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Well-known work item field reference names.
const (
	FieldWorkItemType = "System.WorkItemType"
	FieldTitle        = "System.Title"
	FieldRootCause    = "Microsoft.VSTS.CMMI.RootCause"
)

// GetPullRequestWorkItemRefs lists work items linked to a pull request.
func (c *Client) GetPullRequestWorkItemRefs(ctx context.Context, project, repoID string, prID int) ([]WorkItemRef, error) {
	u := c.projectURL(project, fmt.Sprintf("git/repositories/%s/pullRequests/%d/workitems?api-version=%s", repoID, prID, apiVersion))

	var out listResponse[WorkItemRef]
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list PR work item refs: %w", err)
	}
	return out.Value, nil
}

// GetWorkItems resolves work items by id with the given fields.
func (c *Client) GetWorkItems(ctx context.Context, project string, ids []int, fields []string) ([]WorkItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, strconv.Itoa(id))
	}

	u := c.projectURL(project, fmt.Sprintf("wit/workitems?ids=%s&fields=%s&api-version=%s",
		strings.Join(idStrs, ","), strings.Join(fields, ","), apiVersion))

	var out listResponse[WorkItem]
	if err := c.do(ctx, "GET", u, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to resolve work items: %w", err)
	}
	return out.Value, nil
}

// PostWorkItemComment adds a discussion comment to a work item.
func (c *Client) PostWorkItemComment(ctx context.Context, project string, workItemID int, text string) error {
	// Comments are still a preview API surface.
	u := c.projectURL(project, fmt.Sprintf("wit/workItems/%d/comments?api-version=%s-preview", workItemID, apiVersion))

	body := map[string]string{"text": text}
	if err := c.do(ctx, "POST", u, body, nil); err != nil {
		return fmt.Errorf("failed to post work item comment: %w", err)
	}
	return nil
}

// UpdateWorkItemFields sets fields on a work item via JSON Patch.
func (c *Client) UpdateWorkItemFields(ctx context.Context, project string, workItemID int, fields map[string]any) error {
	u := c.projectURL(project, fmt.Sprintf("wit/workitems/%d?api-version=%s", workItemID, apiVersion))

	ops := make([]patchOperation, 0, len(fields))
	for name, value := range fields {
		ops = append(ops, patchOperation{Op: "add", Path: "/fields/" + name, Value: value})
	}

	if err := c.doPatch(ctx, u, ops, nil); err != nil {
		return fmt.Errorf("failed to update work item %d: %w", workItemID, err)
	}
	return nil
}
