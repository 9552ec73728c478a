package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/internal/config"
	"github.com/goliatone/go-repoforms/pkg/validation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := config.Config{
		HTTPAddr:     ":8080",
		Storage:      config.StorageMemory,
		LogLevel:     "info",
		LogFormat:    "json",
		LanguageCode: "eng-GB",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repoforms.yaml")
	if err := os.WriteFile(path, []byte("http_addr: \":9000\"\nlog_level: debug\nfixtures: ./site\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REPOFORMS_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.LogLevel != "warn" || cfg.Fixtures != "./site" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:     ":8080",
		Storage:      config.StoragePostgres,
		LogLevel:     "chatty",
		LogFormat:    "json",
		LanguageCode: "english",
	}
	err := cfg.Validate()
	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	want := validation.FieldErrors{
		"logLevel":     {"The value you selected is not a valid choice."},
		"languageCode": {"english is not a valid language code."},
		"databaseUrl":  {"A database URL is required for the postgres storage."},
	}
	if diff := cmp.Diff(want, fieldErrs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
