package usecase

import (
	"pr-rca-service/internal/account"
	pkgLog "pr-rca-service/pkg/log"
)

// Per-plan connected repository limits. Negative means unlimited.
var planLimits = map[string]int{
	"free":     1,
	"standard": 5,
	"pro":      -1,
}

const defaultPlan = "free"

type implUsecase struct {
	l         pkgLog.Logger
	repo      account.Repository
	tokens    account.TokenProvider
	hooks     account.HookManagerFactory
	notifyURL string
}

var _ account.UseCase = &implUsecase{}

// New creates the account use case. notifyURL is the externally reachable
// webhook endpoint registered with service hooks.
func New(l pkgLog.Logger, repo account.Repository, tokens account.TokenProvider, hooks account.HookManagerFactory, notifyURL string) account.UseCase {
	return &implUsecase{
		l:         l,
		repo:      repo,
		tokens:    tokens,
		hooks:     hooks,
		notifyURL: notifyURL,
	}
}
