// Package credential keeps per-user OAuth tokens valid without blocking
// the pipeline on interactive re-authentication.
package credential

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"pr-rca-service/internal/model"
	pkgLog "pr-rca-service/pkg/log"
)

// expiryMargin keeps callers from ever observing a token that is about
// to lapse mid-call.
const expiryMargin = 300 * time.Second

// Azure DevOps resource scope for the AAD v2 token endpoint.
const devOpsScope = "499b84ac-1321-427f-aa17-267ca6975798/.default"

// Store persists credentials keyed by user id.
type Store interface {
	GetCredential(ctx context.Context, userID string) (model.Credential, error)
	PutCredential(ctx context.Context, cred model.Credential) error
}

// Config identifies the OAuth application doing the refresh.
type Config struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

// Manager returns currently-valid access tokens, refreshing transparently.
//
// Two concurrent runs for the same user may both observe an expired token
// and both refresh; that race is tolerated on purpose (refresh is
// idempotent, last writer wins, and the last successful refresh is always
// usable) rather than serialized with a per-user lock.
type Manager struct {
	store    Store
	oauthCfg *oauth2.Config
	l        pkgLog.Logger
}

// New creates a Manager refreshing against the Azure AD v2 token endpoint.
func New(cfg Config, store Store, l pkgLog.Logger) *Manager {
	return &Manager{
		store: store,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
			Scopes:       []string{devOpsScope, "offline_access"},
		},
		l: l,
	}
}

// SetEndpoint overrides the token endpoint for testing purposes.
func (m *Manager) SetEndpoint(endpoint oauth2.Endpoint) {
	m.oauthCfg.Endpoint = endpoint
}

// GetValidToken returns an access token valid for at least the safety
// margin. It refreshes and persists the credential when the cached token
// has expired. Refresh failures abort the caller's run for this event
// only; no automatic retry.
func (m *Manager) GetValidToken(ctx context.Context, userID string) (string, error) {
	cred, err := m.store.GetCredential(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoCredential, userID)
	}
	if cred.RefreshToken == "" {
		return "", fmt.Errorf("%w: user %s has no refresh token", ErrNoCredential, userID)
	}

	if cred.Valid(time.Now()) {
		return cred.AccessToken, nil
	}

	m.l.Infof(ctx, "credential: refreshing token for user %s", userID)

	src := m.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	cred.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		// Provider rotated the refresh token.
		cred.RefreshToken = tok.RefreshToken
	}
	cred.ExpiresAt = tok.Expiry.Add(-expiryMargin)

	if err := m.store.PutCredential(ctx, cred); err != nil {
		// The token itself is usable; losing the persist only costs an
		// extra refresh on the next run.
		m.l.Warnf(ctx, "credential: failed to persist refreshed token for user %s: %v", userID, err)
	}

	return cred.AccessToken, nil
}
