package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"redsync/config"
	"redsync/storage"
	"redsync/web"
)

var (
	serveDBPath string
	serveListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local web view of the sync-run journal",
	Long: `Serve a read-only HTML view of journaled sync runs on localhost.

The page lists past runs with their decided action and mutation counters. No
remote calls are made and nothing can be changed through this view.`,
	Example: `
  # Default address
  redsync serve

  # Custom journal and port
  redsync serve --db ./redsync.db --listen 127.0.0.1:9000
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		path := firstNonEmpty(serveDBPath, cfg.Journal.Path, "./redsync.db")
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer store.Close()

		server, err := web.NewServer(store)
		if err != nil {
			return err
		}

		httpServer := &http.Server{
			Addr:              serveListen,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		fmt.Printf("Serving sync history from %s on http://%s\n", path, serveListen)
		return httpServer.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to the sync journal database (overrides config journal.path)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "127.0.0.1:8484", "Listen address")
}
