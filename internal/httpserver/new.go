package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pr-rca-service/internal/account"
	"pr-rca-service/internal/account/repository/sqlite"
	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/webhook"
	"pr-rca-service/pkg/log"
	"pr-rca-service/pkg/mailer"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	store      *sqlite.Store
	tokens     analysis.TokenProvider
	dedup      analysis.Admitter
	classifier analysis.BugClassifier
	generator  analysis.ReportGenerator
	mailer     mailer.Mailer
	hosts      analysis.HostClientFactory
	hookMgrs   account.HookManagerFactory

	webhookCfg    webhook.Config
	notifyURL     string
	fallbackEmail string
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string

	Store      *sqlite.Store
	Tokens     analysis.TokenProvider
	Dedup      analysis.Admitter
	Classifier analysis.BugClassifier
	Generator  analysis.ReportGenerator
	Mailer     mailer.Mailer
	Hosts      analysis.HostClientFactory
	HookMgrs   account.HookManagerFactory

	Webhook       webhook.Config
	NotifyURL     string
	FallbackEmail string
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,

		store:      cfg.Store,
		tokens:     cfg.Tokens,
		dedup:      cfg.Dedup,
		classifier: cfg.Classifier,
		generator:  cfg.Generator,
		mailer:     cfg.Mailer,
		hosts:      cfg.Hosts,
		hookMgrs:   cfg.HookMgrs,

		webhookCfg:    cfg.Webhook,
		notifyURL:     cfg.NotifyURL,
		fallbackEmail: cfg.FallbackEmail,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.store == nil {
		return errors.New("store is required")
	}
	if srv.tokens == nil || srv.dedup == nil || srv.classifier == nil || srv.generator == nil {
		return errors.New("pipeline dependencies are required")
	}
	if srv.hosts == nil || srv.hookMgrs == nil {
		return errors.New("host client factories are required")
	}
	return nil
}

// Run maps the handlers and serves until ctx is cancelled, then shuts
// down gracefully.
func (srv *HTTPServer) Run(ctx context.Context) error {
	if err := srv.mapHandlers(); err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.port),
		Handler: srv.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	srv.l.Infof(ctx, "http server listening on :%d", srv.port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
