package analysis

import "errors"

var (
	// ErrRepositoryNotLinked means an event arrived for a repository no
	// account has connected. Hooks are deleted on disconnect, so this
	// usually indicates a stale hook left behind by a failed cleanup.
	ErrRepositoryNotLinked = errors.New("repository is not connected to any account")
)
