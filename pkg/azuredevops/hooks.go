package azuredevops

import (
	"context"
	"fmt"
)

// EventPullRequestCreated is the service-hook event this service subscribes to.
const EventPullRequestCreated = "git.pullrequest.created"

// CreatePullRequestHook registers a service hook that POSTs PR-created
// events for one repository to the given URL. Returns the subscription id.
func (c *Client) CreatePullRequestHook(ctx context.Context, projectID, repoID, notifyURL string) (string, error) {
	u := fmt.Sprintf("%s/_apis/hooks/subscriptions?api-version=%s", c.orgURL, apiVersion)

	sub := Subscription{
		PublisherID:     "tfs",
		EventType:       EventPullRequestCreated,
		ResourceVersion: "1.0",
		ConsumerID:      "webHooks",
		ConsumerAction:  "httpRequest",
		PublisherInputs: map[string]string{
			"repository": repoID,
			"projectId":  projectID,
		},
		ConsumerInputs: map[string]string{
			"url": notifyURL,
		},
	}

	var created Subscription
	if err := c.do(ctx, "POST", u, sub, &created); err != nil {
		return "", fmt.Errorf("failed to create service hook: %w", err)
	}
	return created.ID, nil
}

// DeleteHook removes a service-hook subscription.
func (c *Client) DeleteHook(ctx context.Context, subscriptionID string) error {
	u := fmt.Sprintf("%s/_apis/hooks/subscriptions/%s?api-version=%s", c.orgURL, subscriptionID, apiVersion)

	if err := c.do(ctx, "DELETE", u, nil, nil); err != nil {
		return fmt.Errorf("failed to delete service hook: %w", err)
	}
	return nil
}
