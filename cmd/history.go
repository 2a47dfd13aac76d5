package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"redsync/config"
	"redsync/storage"
)

var (
	historyDBPath string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled sync runs",
	Long: `List past sync runs from the local journal database, newest first.

Each row shows when the run started, what it loaded, which action the engine
decided on, and how many entries it deleted and created.`,
	Example: `
  # Last 20 runs
  redsync history

  # Everything from a specific journal
  redsync history --db ./redsync.db --limit 0
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		path := firstNonEmpty(historyDBPath, cfg.Journal.Path, "./redsync.db")
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No sync runs journaled yet.")
			return nil
		}

		fmt.Printf("%-5s %-20s %-14s %-8s %-8s %-8s %-8s %-10s %-10s %s\n",
			"ID", "Started", "Action", "Rows", "Skipped", "Deleted", "Created", "Local h", "Remote h", "Source")
		for _, run := range runs {
			action := run.Action
			if run.DryRun {
				action += "*"
			}
			fmt.Printf("%-5d %-20s %-14s %-8d %-8d %-8d %-8d %-10s %-10s %s\n",
				run.ID,
				run.StartedAt.Format("2006-01-02 15:04:05"),
				action,
				run.RowsLoaded,
				run.RowsSkipped,
				run.EntriesDeleted,
				run.EntriesCreated,
				run.LocalHours,
				run.RemoteHours,
				run.Source,
			)
		}
		fmt.Println("(* = dry-run)")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "Path to the sync journal database (overrides config journal.path)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 = all)")
}
