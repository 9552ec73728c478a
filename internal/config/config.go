// Package config loads the service configuration from an optional YAML file
// and REPOFORMS_* environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/goliatone/go-repoforms/pkg/validation"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the service configuration.
type Config struct {
	HTTPAddr     string `json:"httpAddr" yaml:"http_addr" env:"REPOFORMS_HTTP_ADDR" env-default:":8080" env-description:"HTTP listen address" validate:"required"`
	Storage      string `json:"storage" yaml:"storage" env:"REPOFORMS_STORAGE" env-default:"memory" env-description:"memory or postgres" validate:"oneof=memory postgres"`
	DatabaseURL  string `json:"databaseUrl" yaml:"database_url" env:"REPOFORMS_DATABASE_URL" env-description:"PostgreSQL connection URL"`
	Fixtures     string `json:"fixtures" yaml:"fixtures" env:"REPOFORMS_FIXTURES" env-description:"directory with content_types.yaml and locations.yaml; bundled fixtures when empty"`
	CSRFSecret   string `json:"csrfSecret" yaml:"csrf_secret" env:"REPOFORMS_CSRF_SECRET" env-description:"secret CSRF tokens are derived from; tokens are disabled when empty"`
	LogLevel     string `json:"logLevel" yaml:"log_level" env:"REPOFORMS_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	LogFormat    string `json:"logFormat" yaml:"log_format" env:"REPOFORMS_LOG_FORMAT" env-default:"json" validate:"oneof=json console"`
	LanguageCode string `json:"languageCode" yaml:"language_code" env:"REPOFORMS_LANGUAGE" env-default:"eng-GB" validate:"langcode"`
}

// Load reads path when it is not empty, applies the environment and
// validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. A postgres backend needs a database URL.
func (c Config) Validate() error {
	v, err := validation.New()
	if err != nil {
		return err
	}
	errs := validation.FieldErrors{}
	if err := v.Struct(c); err != nil {
		var fieldErrs validation.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config: %w", err)
		}
		errs = fieldErrs
	}
	if c.Storage == StoragePostgres && c.DatabaseURL == "" {
		errs["databaseUrl"] = append(errs["databaseUrl"], "A database URL is required for the postgres storage.")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Usage describes the environment variables.
func Usage() string {
	header := "Environment variables:"
	text, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return header
	}
	return text
}
