package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/observability"
)

const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverPostgres = "postgres"

	GetModeHealth = "health"
	GetModePage   = "page"

	DefaultMetricNamespace = "ContactForm"
	DefaultRegion          = "us-east-1"
	DefaultSource          = "contactus.html"
)

// Config is read from the process environment. Keys are the lowercased
// environment variable names (TABLE_NAME → table_name).
type Config struct {
	Env     string `koanf:"app_env"`
	Port    string `koanf:"port"`
	GetMode string `koanf:"get_mode" validate:"oneof=health page"`

	Downstream Downstream `koanf:",squash" validate:"-"`
	AWS        AWSConfig  `koanf:",squash"`

	StoreDriver       string `koanf:"store_driver" validate:"oneof=dynamodb postgres"`
	DatabaseURL       string `koanf:"database_url"`
	FormSource        string `koanf:"form_source"`
	ArchivePrefix     string `koanf:"archive_prefix"`
	RollbackOnFailure bool   `koanf:"rollback_on_failure"`

	Observability *observability.ObservabilityConfig `koanf:"-" validate:"-"`

	LogLevel        string `koanf:"log_level"`
	NewRelicLicense string `koanf:"new_relic_license_key"`
	NewRelicAppName string `koanf:"new_relic_app_name"`
}

// Downstream holds the names of the services a submission is written to.
// They are checked per request so a misconfigured deployment answers with a
// 500 naming what is missing instead of failing to start.
type Downstream struct {
	TableName       string `koanf:"table_name" validate:"required_if=Driver dynamodb"`
	Bucket          string `koanf:"s3_bucket" validate:"required"`
	TopicARN        string `koanf:"sns_topic_arn" validate:"required"`
	DatabaseURL     string `koanf:"-" validate:"required_if=Driver postgres"`
	Driver          string `koanf:"-" validate:"-"`
	MetricNamespace string `koanf:"metric_namespace"`
}

type AWSConfig struct {
	Region      string `koanf:"aws_region"`
	EndpointURL string `koanf:"aws_endpoint_url"`

	// Archive* point the archive at an S3-compatible store outside AWS
	// (MinIO, Akave O3) with static credentials.
	ArchiveEndpoint  string `koanf:"archive_endpoint"`
	ArchiveAccessKey string `koanf:"archive_access_key"`
	ArchiveSecretKey string `koanf:"archive_secret_key"`
}

var knownKeys = map[string]bool{
	"APP_ENV": true, "PORT": true, "GET_MODE": true,
	"TABLE_NAME": true, "S3_BUCKET": true, "SNS_TOPIC_ARN": true, "METRIC_NAMESPACE": true,
	"AWS_REGION": true, "AWS_ENDPOINT_URL": true,
	"ARCHIVE_ENDPOINT": true, "ARCHIVE_ACCESS_KEY": true, "ARCHIVE_SECRET_KEY": true,
	"STORE_DRIVER": true, "DATABASE_URL": true, "FORM_SOURCE": true,
	"ARCHIVE_PREFIX": true, "ROLLBACK_ON_FAILURE": true,
	"LOG_LEVEL": true, "NEW_RELIC_LICENSE_KEY": true, "NEW_RELIC_APP_NAME": true,
}

// LoadConfig loads the configuration from environment variables using koanf.
// A .env file in the working directory is applied first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		if !knownKeys[s] {
			return ""
		}
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("could not validate config: %w", err)
	}

	cfg.Observability = &observability.ObservabilityConfig{
		ServiceName: "contactform",
		Environment: cfg.Env,
		LogLevel:    cfg.LogLevel,
		NewRelic: observability.NewRelicConfig{
			LicenseKey: cfg.NewRelicLicense,
			AppName:    cfg.NewRelicAppName,
		},
	}
	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}
	return cfg, nil
}

// MustLoadConfig is LoadConfig for entrypoints; it exits on error.
func MustLoadConfig(logger zerolog.Logger) *Config {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "production"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.GetMode == "" {
		c.GetMode = GetModeHealth
	}
	c.StoreDriver = strings.ToLower(c.StoreDriver)
	if c.StoreDriver == "" {
		c.StoreDriver = StoreDriverDynamoDB
	}
	if c.Downstream.MetricNamespace == "" {
		c.Downstream.MetricNamespace = DefaultMetricNamespace
	}
	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	if c.FormSource == "" {
		c.FormSource = DefaultSource
	}
	if c.NewRelicAppName == "" {
		c.NewRelicAppName = "contactform"
	}
	c.Downstream.Driver = c.StoreDriver
	c.Downstream.DatabaseURL = c.DatabaseURL
}

var envNames = map[string]string{
	"TableName":   "TABLE_NAME",
	"Bucket":      "S3_BUCKET",
	"TopicARN":    "SNS_TOPIC_ARN",
	"DatabaseURL": "DATABASE_URL",
}

// MissingDownstream returns the environment variable names of every required
// downstream setting that is unset, in declaration order.
func (c *Config) MissingDownstream() []string {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, ok := envNames[f.Name]; ok {
			return name
		}
		return f.Name
	})
	err := v.Struct(c.Downstream)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}
