package webhook

import (
	"errors"
	"time"

	"pr-rca-service/internal/model"
	"pr-rca-service/pkg/azuredevops"
)

// azurePayload is the service-hook envelope for git.pullrequest.* events.
type azurePayload struct {
	EventType string `json:"eventType"`
	Resource  struct {
		PullRequestID int    `json:"pullRequestId"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		SourceRefName string `json:"sourceRefName"`
		TargetRefName string `json:"targetRefName"`
		Repository    struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			WebURL  string `json:"webUrl"`
			Project struct {
				Name string `json:"name"`
			} `json:"project"`
		} `json:"repository"`
		CreatedBy struct {
			DisplayName string `json:"displayName"`
			UniqueName  string `json:"uniqueName"`
		} `json:"createdBy"`
	} `json:"resource"`
}

func (p azurePayload) isPullRequestCreated() bool {
	return p.EventType == azuredevops.EventPullRequestCreated
}

func (p azurePayload) validate() error {
	if p.Resource.PullRequestID <= 0 {
		return errors.New("missing pull request id")
	}
	if p.Resource.Repository.ID == "" {
		return errors.New("missing repository id")
	}
	return nil
}

func (p azurePayload) toEvent(now time.Time) model.PullRequestEvent {
	return model.PullRequestEvent{
		RepositoryID:  p.Resource.Repository.ID,
		RepositoryURL: p.Resource.Repository.WebURL,
		Project:       p.Resource.Repository.Project.Name,
		PullRequestID: p.Resource.PullRequestID,
		Title:         p.Resource.Title,
		Description:   p.Resource.Description,
		SourceBranch:  p.Resource.SourceRefName,
		TargetBranch:  p.Resource.TargetRefName,
		AuthorName:    p.Resource.CreatedBy.DisplayName,
		AuthorEmail:   p.Resource.CreatedBy.UniqueName,
		ReceivedAt:    now,
	}
}

type acceptedResp struct {
	Status string `json:"status"`
}
