package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	Database   DatabaseConfig

	AzureAD AzureADConfig
	OpenAI  OpenAIConfig
	SMTP    SMTPConfig
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type DatabaseConfig struct {
	Path             string // SQLite file path
	EncryptionSecret string // key for tokens at rest
}

// AzureADConfig configures the OAuth token refresh flow.
type AzureADConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional, Azure OpenAI deployments
	Model   string
}

type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	FallbackEmail string // legacy single-recipient fallback
}

type WebhookConfig struct {
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
	PublicURL       string // externally reachable base URL registered with service hooks
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Database.Path = viper.GetString("database.path")
	cfg.Database.EncryptionSecret = viper.GetString("database.encryption_secret")
	if secret := viper.GetString("db_encryption_secret"); secret != "" {
		cfg.Database.EncryptionSecret = secret
	}

	cfg.AzureAD.ClientID = viper.GetString("azure_ad.client_id")
	cfg.AzureAD.ClientSecret = viper.GetString("azure_ad.client_secret")
	cfg.AzureAD.TenantID = viper.GetString("azure_ad.tenant_id")
	if id := viper.GetString("azure_client_id"); id != "" {
		cfg.AzureAD.ClientID = id
	}
	if secret := viper.GetString("azure_client_secret"); secret != "" {
		cfg.AzureAD.ClientSecret = secret
	}
	if tenant := viper.GetString("azure_tenant_id"); tenant != "" {
		cfg.AzureAD.TenantID = tenant
	}

	cfg.OpenAI.APIKey = viper.GetString("openai.api_key")
	cfg.OpenAI.BaseURL = viper.GetString("openai.base_url")
	cfg.OpenAI.Model = viper.GetString("openai.model")
	if key := viper.GetString("openai_api_key"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	cfg.SMTP.Host = viper.GetString("smtp.host")
	cfg.SMTP.Port = viper.GetInt("smtp.port")
	cfg.SMTP.Username = viper.GetString("smtp.username")
	cfg.SMTP.Password = viper.GetString("smtp.password")
	cfg.SMTP.From = viper.GetString("smtp.from")
	cfg.SMTP.FallbackEmail = viper.GetString("smtp.fallback_email")
	if email := viper.GetString("developer_email"); email != "" {
		cfg.SMTP.FallbackEmail = email
	}

	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.PublicURL = viper.GetString("webhook.public_url")
	if secret := viper.GetString("webhook_secret"); secret != "" {
		cfg.Webhook.Secret = secret
	}
	if u := viper.GetString("webhook_url"); u != "" {
		cfg.Webhook.PublicURL = u
	}

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("database.path", "rca.db")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("webhook.rate_limit_per_min", 60)
}
