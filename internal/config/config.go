// Package config reads process-wide settings once at start-up. The resulting
// Config is a plain value: callers receive copies and nothing mutates it later.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	keyEnvironment        = "environment"
	keyRegion             = "region"
	keyTopicARN           = "topic_arn"
	keyServiceURLTemplate = "service_url_template"
	keyLogLevel           = "log_level"
	keyLogFormat          = "log_format"

	DefaultEnvironment        = "dev"
	DefaultRegion             = "us-east-1"
	DefaultServiceURLTemplate = "https://{service}.{environment}.ows.internal"
)

var envBindings = map[string]string{
	keyEnvironment:        "ENVIRONMENT",
	keyRegion:             "AWS_REGION_NAME",
	keyTopicARN:           "SNS_ARN",
	keyServiceURLTemplate: "HOLDS_SERVICE_URL_TEMPLATE",
	keyLogLevel:           "LOG_LEVEL",
	keyLogFormat:          "LOG_FORMAT",
}

var ErrTopicARNRequired = errors.New("SNS_ARN is required to publish notifications")

type Config struct {
	Environment        string
	Region             string
	TopicARN           string
	ServiceURLTemplate string
	LogLevel           string
	LogFormat          string
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnvFiles(files ...string) {
	for _, file := range files {
		_ = godotenv.Load(file)
	}
}

func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetDefault(keyEnvironment, DefaultEnvironment)
	v.SetDefault(keyRegion, DefaultRegion)
	v.SetDefault(keyServiceURLTemplate, DefaultServiceURLTemplate)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "auto")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := Config{
		Environment:        strings.TrimSpace(v.GetString(keyEnvironment)),
		Region:             strings.TrimSpace(v.GetString(keyRegion)),
		TopicARN:           strings.TrimSpace(v.GetString(keyTopicARN)),
		ServiceURLTemplate: strings.TrimSpace(v.GetString(keyServiceURLTemplate)),
		LogLevel:           v.GetString(keyLogLevel),
		LogFormat:          v.GetString(keyLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.ServiceURLTemplate == "" {
		return fmt.Errorf("service url template is required")
	}

	return nil
}

// RequireTopic is checked only when the SNS publisher is wired; local runs
// may print notifications instead.
func (c Config) RequireTopic() error {
	if c.TopicARN == "" {
		return ErrTopicARNRequired
	}
	return nil
}
