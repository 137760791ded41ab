package account

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrAlreadyConnected   = errors.New("repository is already connected")
	ErrPlanLimitReached   = errors.New("plan repository limit reached")
	ErrEmailRequired      = errors.New("email is required")
)
