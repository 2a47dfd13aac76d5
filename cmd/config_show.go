package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"redsync/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The API key
is masked.`,
	Example: `
  # Show active configuration
  redsync config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("redmine.url: %s\n", cfg.Redmine.URL)
		fmt.Printf("redmine.api_key: %s\n", maskSecret(cfg.Redmine.APIKey))
		fmt.Printf("sync.project_id: %d\n", cfg.Sync.ProjectID)
		fmt.Printf("sync.user_id: %d\n", cfg.Sync.UserID)
		fmt.Printf("sync.input: %s\n", cfg.Sync.Input)
		fmt.Printf("journal.path: %s\n", cfg.Journal.Path)
		fmt.Printf("journal.enabled: %t\n", cfg.Journal.Enabled)
	},
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
