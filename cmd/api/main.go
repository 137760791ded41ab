package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pr-rca-service/config"
	_ "pr-rca-service/docs" // Swagger docs
	"pr-rca-service/internal/account"
	"pr-rca-service/internal/account/repository/sqlite"
	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/analysis/generator"
	"pr-rca-service/internal/classifier"
	"pr-rca-service/internal/credential"
	"pr-rca-service/internal/dedup"
	"pr-rca-service/internal/httpserver"
	"pr-rca-service/internal/webhook"
	"pr-rca-service/pkg/azuredevops"
	"pr-rca-service/pkg/encrypter"
	"pr-rca-service/pkg/log"
	"pr-rca-service/pkg/mailer"
	"pr-rca-service/pkg/openai"
)

// @title       PR Root Cause Analysis API
// @description Automated root-cause analysis for bug-fix pull requests: webhook ingestion, AI report generation and multi-channel distribution.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting PR RCA service...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	enc, err := encrypter.New(cfg.Database.EncryptionSecret)
	if err != nil {
		logger.Error(ctx, "Failed to init encrypter: ", err)
		return
	}
	store, err := sqlite.New(cfg.Database.Path, enc, logger)
	if err != nil {
		logger.Error(ctx, "Failed to open database: ", err)
		return
	}
	defer store.Close()

	// 4. Pipeline components
	tokens := credential.New(credential.Config{
		ClientID:     cfg.AzureAD.ClientID,
		ClientSecret: cfg.AzureAD.ClientSecret,
		TenantID:     cfg.AzureAD.TenantID,
	}, store, logger)

	dedup := dedup.New(dedup.DefaultTTL)
	defer dedup.Stop()

	llm := openai.NewClient(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		llm.SetBaseURL(cfg.OpenAI.BaseURL)
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if !mail.Configured() {
		logger.Warn(ctx, "SMTP not configured, email distribution disabled")
	}

	hosts := func(orgURL, token string) analysis.HostClient {
		return azuredevops.NewClient(orgURL, token)
	}
	hookMgrs := func(orgURL, token string) account.HookManager {
		return azuredevops.NewClient(orgURL, token)
	}

	// 5. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,

		Store:      store,
		Tokens:     tokens,
		Dedup:      dedup,
		Classifier: classifier.New(logger),
		Generator:  generator.New(llm, cfg.OpenAI.Model, logger),
		Mailer:     mail,
		Hosts:      hosts,
		HookMgrs:   hookMgrs,

		Webhook: webhook.Config{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
		NotifyURL:     notifyURL(cfg),
		FallbackEmail: cfg.SMTP.FallbackEmail,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 6. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// notifyURL is the externally reachable webhook endpoint registered with
// service hooks. The shared secret rides in the query string because
// hook consumers cannot set request headers.
func notifyURL(cfg *config.Config) string {
	u := strings.TrimRight(cfg.Webhook.PublicURL, "/") + "/internal/webhooks/azure-devops"
	if cfg.Webhook.Secret != "" {
		u += "?secret=" + cfg.Webhook.Secret
	}
	return u
}
