package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	analysisUC "pr-rca-service/internal/analysis/usecase"
	"pr-rca-service/internal/webhook"
)

// setupAnalysisDomain initializes the analysis pipeline and registers the
// webhook ingress route.
func (srv *HTTPServer) setupAnalysisDomain(ctx context.Context, hooks *gin.RouterGroup) {
	uc := analysisUC.New(srv.l, analysisUC.Dependencies{
		Dedup:         srv.dedup,
		Classifier:    srv.classifier,
		Registry:      srv.store,
		Tokens:        srv.tokens,
		Generator:     srv.generator,
		Mailer:        srv.mailer,
		Hosts:         srv.hosts,
		FallbackEmail: srv.fallbackEmail,
	})

	h := webhook.New(srv.l, uc, srv.webhookCfg)
	webhook.RegisterRoutes(hooks, h)

	srv.l.Infof(ctx, "analysis domain registered")
}
