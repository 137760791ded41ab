package account

import "time"

// RegisterUserInput creates a new account on the free plan.
type RegisterUserInput struct {
	Email string
	Name  string
}

// StoreCredentialInput saves the OAuth token pair obtained for a user.
type StoreCredentialInput struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// ConnectRepositoryInput connects one host repository to an account.
// RepoURL is the repository web URL; the organization URL is derived from
// it and persisted with the link.
type ConnectRepositoryInput struct {
	UserID  string
	RepoID  string
	Name    string
	Project string
	RepoURL string
}
