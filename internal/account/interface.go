package account

import (
	"context"

	"pr-rca-service/internal/model"
)

// UseCase manages users, their connected repositories and settings.
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (model.User, error)
	SetServiceEnabled(ctx context.Context, userID string, enabled bool) error
	StoreCredential(ctx context.Context, input StoreCredentialInput) error

	ConnectRepository(ctx context.Context, input ConnectRepositoryInput) (model.RepositoryLink, error)
	DisconnectRepository(ctx context.Context, userID, repoID string) error
	ListRepositories(ctx context.Context, userID string) ([]model.RepositoryLink, error)

	GetSettings(ctx context.Context, userID string) (model.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, settings model.UserSettings) error
}

// Repository is the persistence layer behind the account use case.
type Repository interface {
	SaveUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) error

	GetSubscription(ctx context.Context, userID string) (model.Subscription, error)
	SaveSubscription(ctx context.Context, sub model.Subscription) error

	SaveRepository(ctx context.Context, link model.RepositoryLink) error
	GetRepository(ctx context.Context, repoID string) (model.RepositoryLink, error)
	ListRepositories(ctx context.Context, userID string) ([]model.RepositoryLink, error)
	CountRepositories(ctx context.Context, userID string) (int, error)
	DeleteRepository(ctx context.Context, repoID string) error

	GetSettings(ctx context.Context, userID string) (model.UserSettings, error)
	SaveSettings(ctx context.Context, userID string, settings model.UserSettings) error

	GetCredential(ctx context.Context, userID string) (model.Credential, error)
	PutCredential(ctx context.Context, cred model.Credential) error
}

// HookManager registers and removes service-hook subscriptions on the host.
// Satisfied by *azuredevops.Client.
type HookManager interface {
	CreatePullRequestHook(ctx context.Context, projectID, repoID, notifyURL string) (string, error)
	DeleteHook(ctx context.Context, subscriptionID string) error
}

// HookManagerFactory builds a HookManager for one organization and token.
type HookManagerFactory func(orgURL, token string) HookManager

// TokenProvider yields a currently-valid access token for a user.
type TokenProvider interface {
	GetValidToken(ctx context.Context, userID string) (string, error)
}
