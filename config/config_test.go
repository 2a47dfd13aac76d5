package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_Valid(t *testing.T) {
	t.Parallel()

	content := `
redmine:
  url: "https://redmine.example.com"
  api_key: "secret"
sync:
  project_id: 7
  user_id: 42
  input: "./export.csv"
`
	cfg, err := ValidateYAMLContent([]byte(content))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Redmine.URL != "https://redmine.example.com" || cfg.Redmine.APIKey != "secret" {
		t.Fatalf("unexpected redmine config: %+v", cfg.Redmine)
	}
	if cfg.Sync.ProjectID != 7 || cfg.Sync.UserID != 42 {
		t.Fatalf("unexpected sync config: %+v", cfg.Sync)
	}
	if cfg.Journal.Path != "./redsync.db" || !cfg.Journal.Enabled {
		t.Fatalf("expected journal defaults, got %+v", cfg.Journal)
	}
}

func TestValidateYAMLContent_InvalidURL(t *testing.T) {
	t.Parallel()

	content := `
redmine:
  url: "not a url"
`
	_, err := ValidateYAMLContent([]byte(content))
	if err == nil {
		t.Fatalf("expected validation error for invalid URL")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExampleYAML_Validates(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte(ExampleYAML())); err != nil {
		t.Fatalf("example template must validate: %v", err)
	}
}
