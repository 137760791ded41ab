package credential

import "errors"

// Domain-specific errors for the credential package.
var (
	ErrNoCredential  = errors.New("no credential stored for user")
	ErrRefreshFailed = errors.New("failed to refresh access token")
)
