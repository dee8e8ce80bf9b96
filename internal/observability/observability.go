package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

type ObservabilityConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	NewRelic    NewRelicConfig
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
}

// DefaultObservabilityConfig is used when nothing was configured.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "contactform",
		Environment: "production",
		LogLevel:    "info",
	}
}

// Validate checks the log level and the New Relic license format.
func (c *ObservabilityConfig) Validate() error {
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("log level %q: %w", c.LogLevel, err)
		}
	}
	// New Relic license keys are 40 characters.
	if key := c.NewRelic.LicenseKey; key != "" && len(key) != 40 {
		return fmt.Errorf("new relic license key must be 40 characters, got %d", len(key))
	}
	return nil
}

// NewRelicEnabled reports whether a license key was configured.
func (c *ObservabilityConfig) NewRelicEnabled() bool {
	return c != nil && c.NewRelic.LicenseKey != ""
}

// IsLocal reports whether logs should be human readable.
func (c *ObservabilityConfig) IsLocal() bool {
	return c != nil && (c.Environment == "local" || c.Environment == "development")
}

// NewLogger builds the service logger. Local environments get the console
// writer; everything else writes JSON lines, which CloudWatch Logs indexes.
func NewLogger(cfg *ObservabilityConfig) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultObservabilityConfig()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	if cfg.IsLocal() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", cfg.Environment).
		Logger()
}

// NewRelicApp starts the New Relic agent. It returns nil, nil when New Relic
// is not configured.
func NewRelicApp(cfg *ObservabilityConfig, logger zerolog.Logger) (*newrelic.Application, error) {
	if !cfg.NewRelicEnabled() {
		return nil, nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.NewRelic.AppName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"env": cfg.Environment}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new relic: %w", err)
	}
	logger.Info().Str("app", cfg.NewRelic.AppName).Msg("new relic agent started")
	return app, nil
}
