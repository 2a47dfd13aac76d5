package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage redsync configuration file values.",
	Long: `Create and display the redsync configuration file.

The configuration stores connection and sync values:
- redmine.url / redmine.api_key
- sync.project_id / sync.user_id / sync.input
- journal.path / journal.enabled`,
	Example: `
  # Create default config in $HOME/.redsync.yaml
  redsync config create

  # Show active config and source file
  redsync config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
