package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"redsync/config"
	"redsync/internal/exitcode"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redsync",
	Short: "Reconcile spreadsheet time-tracking exports against Redmine time entries.",
	Long: `
**********************************************
*               RED SYNC                     *
**********************************************

This CLI loads a time-tracking export (CSV or Excel, local file or URL),
compares it per date against the Redmine time entries of one project and user,
and synchronizes the server to match the sheet: no-op when totals and counts
already agree, clean-and-rebuild when they diverge, append-only when entries
are merely missing.

Every run is journaled to a local SQLite database for later inspection.
`,
	Example: `
  # Create configuration file
  redsync config create

  # Preview what a sync would do (no writes)
  redsync sync --input ./export.csv --project 7 --user 42 --dry-run

  # Reconcile the export against the server
  redsync sync --input ./export.csv --project 7 --user 42

  # Sync directly from a published export URL
  redsync sync --input https://sheets.example.com/export.csv --project 7 --user 42

  # Per-date comparison report without touching the server
  redsync report --input ./export.csv --project 7 --user 42 --output ./report.xlsx

  # Inspect past runs
  redsync history
  redsync serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.From(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.redsync.yaml, then ./.redsync.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".redsync" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".redsync")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// A config file is optional; every value can come from flags.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one with: redsync config create")
	}
}
