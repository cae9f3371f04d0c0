package cfg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	DefaultReportThreshold = 15 * time.Minute
	DefaultLogLevel        = "info"
)

// Config for storing all parameters
type Config struct {
	SecretID            string
	AccountID           string
	Region              string
	LogGroup            string
	PortalSubdomain     string
	ReportThreshold     time.Duration
	ForwardLogGroupTags bool
	LogLevel            zerolog.Level
}

// vars mirrors the environment contract of the function. LOG_* variables
// point at the account and region that own the subscribed log groups and
// take precedence over the function's own AWS_* identity.
type vars struct {
	SecretID               string `env:"ZOOM_SECRET_ID"`
	LogAccountID           string `env:"LOG_ACCOUNT_ID"`
	AWSAccountID           string `env:"AWS_ACCOUNT_ID"`
	LogRegion              string `env:"LOG_REGION"`
	AWSRegion              string `env:"AWS_REGION"`
	LogGroup               string `env:"LOG_GROUP"`
	PortalSubdomain        string `env:"AWS_ACCESS_PORTAL_SUBDOMAIN"`
	ReportThresholdSeconds int    `env:"REPORT_THRESHOLD" envDefault:"900"`
	ForwardLogGroupTags    bool   `env:"FORWARD_LOG_GROUP_TAGS"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
}

// GetConfig reads the configuration from the process environment. A .env
// file in the working directory is loaded first when present.
func GetConfig() (*Config, error) {
	_ = godotenv.Load()
	return FromEnvironment(environ())
}

// FromEnvironment builds and validates the configuration from the given
// variables. Empty values count as unset so that optional settings passed
// through as "" by the deployment fall back to their defaults.
func FromEnvironment(environment map[string]string) (*Config, error) {
	nonEmpty := make(map[string]string, len(environment))
	for k, v := range environment {
		if v != "" {
			nonEmpty[k] = v
		}
	}

	var v vars
	if err := env.ParseWithOptions(&v, env.Options{Environment: nonEmpty}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables, err: %w", err)
	}

	config := &Config{
		SecretID:            v.SecretID,
		AccountID:           firstNonEmpty(v.LogAccountID, v.AWSAccountID),
		Region:              firstNonEmpty(v.LogRegion, v.AWSRegion),
		LogGroup:            v.LogGroup,
		PortalSubdomain:     strings.TrimSpace(v.PortalSubdomain),
		ForwardLogGroupTags: v.ForwardLogGroupTags,
	}

	var errs []error
	if config.SecretID == "" {
		errs = append(errs, errors.New("ZOOM_SECRET_ID environment variable is required"))
	}
	if config.AccountID == "" {
		errs = append(errs, errors.New("LOG_ACCOUNT_ID or AWS_ACCOUNT_ID environment variable is required"))
	}
	if config.Region == "" {
		errs = append(errs, errors.New("LOG_REGION or AWS_REGION environment variable is required"))
	}

	if v.ReportThresholdSeconds < 0 {
		errs = append(errs, fmt.Errorf("REPORT_THRESHOLD must be greater than or equal to 0, got %d", v.ReportThresholdSeconds))
	} else {
		config.ReportThreshold = time.Duration(v.ReportThresholdSeconds) * time.Second
	}

	level, err := zerolog.ParseLevel(strings.ToLower(v.LogLevel))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q, err: %w", v.LogLevel, err))
	} else {
		config.LogLevel = level
	}

	return config, errors.Join(errs...)
}

func environ() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
