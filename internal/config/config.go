package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

const (
	EnvPrefix = "SHUDDHNEER"

	EnvAppEnv            = "SHUDDHNEER_APP_ENV"
	EnvPort              = "SHUDDHNEER_APP_PORT"
	EnvLogLevel          = "SHUDDHNEER_LOG_LEVEL"
	EnvLogFormat         = "SHUDDHNEER_LOG_FORMAT"
	EnvCORSOrigins       = "SHUDDHNEER_CORS_ORIGINS"
	EnvStrictTransitions = "SHUDDHNEER_ORDERS_STRICT_TRANSITIONS"
	EnvSeedDemoData      = "SHUDDHNEER_ORDERS_SEED_DEMO_DATA"
	EnvGeminiAPIKey      = "SHUDDHNEER_GEMINI_API_KEY"
	EnvInsightModel      = "SHUDDHNEER_INSIGHT_MODEL"
	EnvInsightTimeout    = "SHUDDHNEER_INSIGHT_TIMEOUT"
	EnvInsightWindow     = "SHUDDHNEER_INSIGHT_SUMMARY_WINDOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Orders  OrdersConfig
	Insight InsightConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"SHUDDHNEER_APP_ENV" default:"dev"`
	Port            string        `envconfig:"SHUDDHNEER_APP_PORT" default:"9091"`
	LogLevel        string        `envconfig:"SHUDDHNEER_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"SHUDDHNEER_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUDDHNEER_SHUTDOWN_TIMEOUT" default:"5s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	CORSOrigins       []string      `envconfig:"SHUDDHNEER_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	ReadHeaderTimeout time.Duration `envconfig:"SHUDDHNEER_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
}

type OrdersConfig struct {
	// StrictTransitions enforces the lifecycle allow-list on status updates.
	StrictTransitions bool `envconfig:"SHUDDHNEER_ORDERS_STRICT_TRANSITIONS" default:"false"`
	SeedDemoData      bool `envconfig:"SHUDDHNEER_ORDERS_SEED_DEMO_DATA" default:"true"`
}

type InsightConfig struct {
	APIKey        string        `envconfig:"SHUDDHNEER_GEMINI_API_KEY"`
	Model         string        `envconfig:"SHUDDHNEER_INSIGHT_MODEL" default:"gemini-3-flash-preview"`
	Timeout       time.Duration `envconfig:"SHUDDHNEER_INSIGHT_TIMEOUT" default:"10s"`
	SummaryWindow int           `envconfig:"SHUDDHNEER_INSIGHT_SUMMARY_WINDOW" default:"20"`
}

// Enabled reports whether a text model can be constructed.
func (i InsightConfig) Enabled() bool {
	return strings.TrimSpace(i.APIKey) != ""
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.App.Port) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.App.ShutdownTimeout <= 0 {
		errs = multierr.Append(errs, errors.New("shutdown timeout must be positive"))
	}
	if f := strings.ToLower(c.App.LogFormat); f != "json" && f != "console" {
		errs = multierr.Append(errs, fmt.Errorf("%s must be json or console, got %q", EnvLogFormat, c.App.LogFormat))
	}
	if c.Insight.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvInsightTimeout))
	}
	if c.Insight.SummaryWindow <= 0 || c.Insight.SummaryWindow > 20 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be between 1 and 20", EnvInsightWindow))
	}
	if c.Insight.Enabled() && strings.TrimSpace(c.Insight.Model) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required when an API key is set", EnvInsightModel))
	}
	return errs
}
