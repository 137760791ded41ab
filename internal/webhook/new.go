package webhook

import (
	"time"

	"pr-rca-service/internal/analysis"
	pkgLog "pr-rca-service/pkg/log"
)

// processTimeout bounds one background analysis run. Collection, report
// generation and fan-out all share this budget.
const processTimeout = 5 * time.Minute

// Config holds the ingress protections for the webhook endpoint.
type Config struct {
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

type handler struct {
	l   pkgLog.Logger
	uc  analysis.UseCase
	sec *security
}

// New creates the webhook HTTP handler.
func New(l pkgLog.Logger, uc analysis.UseCase, cfg Config) *handler {
	return &handler{
		l:   l,
		uc:  uc,
		sec: newSecurity(cfg),
	}
}
