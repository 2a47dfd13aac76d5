package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"redsync/config"
	"redsync/importer"
	"redsync/internal/exitcode"
	"redsync/output"
	"redsync/redmine"
	"redsync/timesheet"
)

var (
	reportURL       string
	reportAPIKey    string
	reportInput     string
	reportInFormat  string
	reportOutput    string
	reportOutFormat string
	reportProject   int64
	reportUser      int64
	reportTimeout   time.Duration
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a per-date comparison of sheet vs remote hours",
	Long: `Load the export and the remote time entries for its dates, and write a
per-date comparison (local hours, remote hours, delta, row counts) to CSV or
Excel. The server is never modified.

Output format can be selected explicitly via --format or inferred from the
--output extension.`,
	Example: `
  # CSV report
  redsync report --input ./export.csv --project 7 --user 42 --output ./report.csv

  # Excel report
  redsync report --input ./export.csv --project 7 --user 42 --output ./report.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		params, err := resolveRemoteParams(cfg, reportURL, reportAPIKey, reportInput, reportProject, reportUser)
		if err != nil {
			return err
		}

		loader := &importer.Loader{}
		loaded, err := loader.Load(params.Input, reportInFormat)
		if err != nil {
			return exitcode.Wrap(exitcode.SourceLoad, err)
		}

		client, err := redmine.NewClient(redmine.ClientConfig{
			BaseURL:   params.URL,
			APIKey:    params.APIKey,
			UserAgent: "redsync/1.0",
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		remoteByDate := make(map[string][]redmine.TimeEntry)
		for _, date := range timesheet.DistinctDates(loaded.Records) {
			entries, _, err := client.ListTimeEntries(ctx, params.ProjectID, params.UserID, date)
			if err != nil {
				return exitcode.Wrap(exitcode.RemoteFetch, fmt.Errorf("list remote entries for %s: %w", date, err))
			}
			remoteByDate[date] = entries
		}

		report := output.BuildReport(loaded.Records, remoteByDate)

		format := reportOutFormat
		if strings.TrimSpace(format) == "" {
			format = detectReportFormat(reportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		if err := writer.Write(reportOutput, report); err != nil {
			return err
		}

		fmt.Printf(
			"Report written. Dates: %d, Local hours: %s, Remote hours: %s, Delta: %s, Format: %s, File: %s\n",
			len(report.Rows),
			report.TotalLocal,
			report.TotalRemote,
			report.TotalDelta,
			format,
			reportOutput,
		)
		return nil
	},
}

func detectReportFormat(path string) string {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportURL, "url", "", "Redmine base URL (overrides config redmine.url)")
	reportCmd.Flags().StringVar(&reportAPIKey, "api-key", "", "Redmine API key (overrides config redmine.api_key)")
	reportCmd.Flags().StringVarP(&reportInput, "input", "i", "", "Export source: local path or HTTP(S) URL")
	reportCmd.Flags().StringVar(&reportInFormat, "input-format", "", "Input format: csv|excel (inferred from extension when empty)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path")
	reportCmd.Flags().StringVarP(&reportOutFormat, "format", "f", "", "Output format: csv|excel (inferred from output extension when empty)")
	reportCmd.Flags().Int64Var(&reportProject, "project", 0, "Remote project id")
	reportCmd.Flags().Int64Var(&reportUser, "user", 0, "Remote user id")
	reportCmd.Flags().DurationVar(&reportTimeout, "timeout", 5*time.Minute, "Timeout for remote lookups")

	_ = reportCmd.MarkFlagRequired("output")
}
