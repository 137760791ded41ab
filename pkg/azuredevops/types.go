package azuredevops

import "time"

// listResponse is the generic Azure DevOps collection envelope.
type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

// Iteration is one push/update of a pull request.
type Iteration struct {
	ID          int       `json:"id"`
	CreatedDate time.Time `json:"createdDate"`
}

// ChangeItem is the file behind a change entry.
type ChangeItem struct {
	Path     string `json:"path"`
	ObjectID string `json:"objectId"`
	IsFolder bool   `json:"isFolder"`
}

// ChangeEntry is one changed file in an iteration.
type ChangeEntry struct {
	Item       ChangeItem `json:"item"`
	ChangeType string     `json:"changeType"` // add, edit, delete, rename, ...
}

// iterationChangesResponse wraps the iteration changes listing.
type iterationChangesResponse struct {
	ChangeEntries []ChangeEntry `json:"changeEntries"`
}

// commitAuthor carries name/email/date of a commit author.
type commitAuthor struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CommitRef is one commit as returned by the host.
type CommitRef struct {
	CommitID string       `json:"commitId"`
	Comment  string       `json:"comment"`
	Author   commitAuthor `json:"author"`
}

// ThreadComment is a single comment inside a review thread.
type ThreadComment struct {
	ParentCommentID int    `json:"parentCommentId"`
	Content         string `json:"content"`
	CommentType     string `json:"commentType"` // text, system, codeChange
	Author          struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
}

// CommentThread is a review discussion thread on a pull request.
type CommentThread struct {
	ID        int             `json:"id,omitempty"`
	IsDeleted bool            `json:"isDeleted,omitempty"`
	Status    string          `json:"status,omitempty"`
	Comments  []ThreadComment `json:"comments"`
}

// WorkItemRef is a linked work item reference (details require a second call).
type WorkItemRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WorkItem is a tracked work item with requested fields resolved.
type WorkItem struct {
	ID     int            `json:"id"`
	URL    string         `json:"url"`
	Fields map[string]any `json:"fields"`
}

// patchOperation is one entry of a JSON Patch document.
type patchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Subscription is a service-hook subscription.
type Subscription struct {
	ID              string            `json:"id,omitempty"`
	PublisherID     string            `json:"publisherId"`
	EventType       string            `json:"eventType"`
	ResourceVersion string            `json:"resourceVersion"`
	ConsumerID      string            `json:"consumerId"`
	ConsumerAction  string            `json:"consumerActionId"`
	PublisherInputs map[string]string `json:"publisherInputs"`
	ConsumerInputs  map[string]string `json:"consumerInputs"`
}
