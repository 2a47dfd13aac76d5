package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"redsync/config"
	"redsync/importer"
	"redsync/internal/exitcode"
	"redsync/reconcile"
	"redsync/redmine"
	"redsync/storage"
)

var (
	syncURL     string
	syncAPIKey  string
	syncInput   string
	syncFormat  string
	syncProject int64
	syncUser    int64
	syncDryRun  bool
	syncTimeout time.Duration
	syncDBPath  string
	syncNoLog   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the export against remote time entries",
	Long: `Load the export, compare it per date against the remote time entries of the
configured project and user, and synchronize the server to match the sheet.

Decision:
- totals and entry counts match: nothing is changed
- remote has extra entries or diverging hours: all entries on the sheet's dates
  are deleted and re-created from the sheet
- remote is only missing entries: the missing rows are appended

Rows with a missing date, issue id, hours, or activity are skipped with a
warning, as are rows whose activity name the project does not know.`,
	Example: `
  # Reconcile a local export
  redsync sync --input ./export.csv --project 7 --user 42

  # Preview without writing
  redsync sync --input ./export.csv --project 7 --user 42 --dry-run

  # Sync a published export URL with explicit credentials
  redsync sync --url https://redmine.example.com --api-key $KEY \
    --input https://sheets.example.com/export.csv --project 7 --user 42
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		params, err := resolveRemoteParams(cfg, syncURL, syncAPIKey, syncInput, syncProject, syncUser)
		if err != nil {
			return err
		}

		started := time.Now()

		loader := &importer.Loader{}
		loaded, err := loader.Load(params.Input, syncFormat)
		if err != nil {
			return exitcode.Wrap(exitcode.SourceLoad, err)
		}
		fmt.Printf("Loaded %d rows from %s (%d skipped)\n", len(loaded.Records), params.Input, loaded.RowsSkipped)

		client, err := redmine.NewClient(redmine.ClientConfig{
			BaseURL:   params.URL,
			APIKey:    params.APIKey,
			UserAgent: "redsync/1.0",
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		engine := &reconcile.Engine{
			Client:    client,
			ProjectID: params.ProjectID,
			UserID:    params.UserID,
			DryRun:    syncDryRun,
		}
		result, err := engine.Run(ctx, loaded.Records)
		if err != nil {
			return err
		}

		if !syncNoLog && cfg.Journal.Enabled {
			journalRun(journalPath(cfg), params, loaded, result, started, syncDryRun)
		}

		fmt.Printf(
			"Sync completed. Action: %s, Dates: %d, Rows: %d, Deleted: %d, Created: %d, Unmapped activities: %d\n",
			result.Action,
			result.DatesProcessed,
			result.LocalRows,
			result.EntriesDeleted,
			result.EntriesCreated,
			result.RowsNoActivity,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncURL, "url", "", "Redmine base URL (overrides config redmine.url)")
	syncCmd.Flags().StringVar(&syncAPIKey, "api-key", "", "Redmine API key (overrides config redmine.api_key)")
	syncCmd.Flags().StringVarP(&syncInput, "input", "i", "", "Export source: local path or HTTP(S) URL")
	syncCmd.Flags().StringVar(&syncFormat, "format", "", "Input format: csv|excel (inferred from extension when empty)")
	syncCmd.Flags().Int64Var(&syncProject, "project", 0, "Remote project id")
	syncCmd.Flags().Int64Var(&syncUser, "user", 0, "Remote user id whose entries are reconciled")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Decide and report without changing remote entries")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 10*time.Minute, "Timeout for the whole reconcile run")
	syncCmd.Flags().StringVar(&syncDBPath, "db", "", "Path to the sync journal database (overrides config journal.path)")
	syncCmd.Flags().BoolVar(&syncNoLog, "no-journal", false, "Skip journaling this run")
}

func journalPath(cfg *config.Config) string {
	return firstNonEmpty(syncDBPath, cfg.Journal.Path, "./redsync.db")
}

// journalRun records the run in the local journal. Journal problems only warn;
// the reconciliation itself already succeeded.
func journalRun(path string, params *remoteParams, loaded *importer.Result, result *reconcile.Result, started time.Time, dryRun bool) {
	store, err := storage.OpenSQLite(path)
	if err != nil {
		fmt.Printf("Warning: could not open sync journal %s: %v\n", path, err)
		return
	}
	defer store.Close()

	_, err = store.InsertRun(storage.RunRecord{
		StartedAt:      started,
		FinishedAt:     time.Now(),
		Source:         params.Input,
		ProjectID:      params.ProjectID,
		UserID:         params.UserID,
		Action:         string(result.Action),
		DryRun:         dryRun,
		RowsLoaded:     loaded.RowsRead,
		RowsSkipped:    loaded.RowsSkipped,
		EntriesDeleted: result.EntriesDeleted,
		EntriesCreated: result.EntriesCreated,
		LocalHours:     result.LocalHours.String(),
		RemoteHours:    result.RemoteHours.String(),
	})
	if err != nil {
		fmt.Printf("Warning: could not journal sync run: %v\n", err)
	}
}
