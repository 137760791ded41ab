package http

import (
	"pr-rca-service/internal/account"
	pkgLog "pr-rca-service/pkg/log"
)

type handler struct {
	l  pkgLog.Logger
	uc account.UseCase
}

// New creates the HTTP handler for the account domain.
func New(l pkgLog.Logger, uc account.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
