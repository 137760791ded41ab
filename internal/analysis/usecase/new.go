package usecase

import (
	"pr-rca-service/internal/analysis"
	pkgLog "pr-rca-service/pkg/log"
	"pr-rca-service/pkg/mailer"
)

// Dependencies are the pipeline collaborators.
type Dependencies struct {
	Dedup      analysis.Admitter
	Classifier analysis.BugClassifier
	Registry   analysis.Registry
	Tokens     analysis.TokenProvider
	Generator  analysis.ReportGenerator
	Mailer     mailer.Mailer
	Hosts      analysis.HostClientFactory

	// FallbackEmail receives notifications when no other recipient can
	// be resolved. Empty disables the fallback.
	FallbackEmail string
}

type implUsecase struct {
	l    pkgLog.Logger
	deps Dependencies
}

var _ analysis.UseCase = &implUsecase{}

// New creates the analysis use case.
func New(l pkgLog.Logger, deps Dependencies) analysis.UseCase {
	return &implUsecase{
		l:    l,
		deps: deps,
	}
}
