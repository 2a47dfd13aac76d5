package config

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyRedmineURL     = "redmine.url"
	KeyRedmineAPIKey  = "redmine.api_key"
	KeySyncProjectID  = "sync.project_id"
	KeySyncUserID     = "sync.user_id"
	KeySyncInput      = "sync.input"
	KeyJournalPath    = "journal.path"
	KeyJournalEnabled = "journal.enabled"
)

type Config struct {
	Redmine RedmineConfig `mapstructure:"redmine"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Journal JournalConfig `mapstructure:"journal"`
}

type RedmineConfig struct {
	URL    string `mapstructure:"url" validate:"omitempty,url"`
	APIKey string `mapstructure:"api_key"`
}

type SyncConfig struct {
	ProjectID int64  `mapstructure:"project_id" validate:"gte=0"`
	UserID    int64  `mapstructure:"user_id" validate:"gte=0"`
	Input     string `mapstructure:"input"`
}

type JournalConfig struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# redsync configuration
redmine:
  url: "https://redmine.example.com"
  api_key: ""

sync:
  project_id: 0
  user_id: 0
  input: ""

journal:
  path: "./redsync.db"
  enabled: true
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRedmineURL, "")
	v.SetDefault(KeyRedmineAPIKey, "")
	v.SetDefault(KeySyncProjectID, 0)
	v.SetDefault(KeySyncUserID, 0)
	v.SetDefault(KeySyncInput, "")
	v.SetDefault(KeyJournalPath, "./redsync.db")
	v.SetDefault(KeyJournalEnabled, true)
}
