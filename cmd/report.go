package cmd

import (
	"encoding/json"
	"fmt"

	"url-monitor/internal/logfile"
	"url-monitor/internal/models"
	"url-monitor/internal/net"

	"github.com/spf13/cobra"
)

var (
	domainURL   string
	reportLimit int
	baseOnly    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate monitoring report",
	Long: `Generate a JSON report from the CSV log.

Without a URL flag, it reports every record of the log.
Rotated files next to the log are included unless --base-only is set.
With a URL flag, it only counts records of that URL. The last --limit records
are included as histories.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := reader.GetString("monitor.log_file")

		files := []string{path}
		if !baseOnly {
			all, err := logfile.Files(path)
			if err != nil {
				return err
			}
			files = all
		}

		var records []models.LogRecord
		for _, file := range files {
			rs, err := logfile.ReadRecords(file, nil)
			if err != nil {
				models.Response{
					Message: fmt.Sprintf("failed to read %s", file),
				}.Print()
				return err
			}
			records = append(records, rs...)
		}

		filter := domainURL
		if filter != "" {
			normalized, err := net.Normalize(filter)
			if err != nil {
				return err
			}
			filter = normalized
		}

		report := logfile.Summarize(path, records, filter, reportLimit)
		if filter != "" && report.Records == 0 {
			models.Response{
				Message: "Record not found",
			}.Print()
			return nil
		}

		output, err := json.Marshal(report)
		if err != nil {
			models.Response{
				Message: "Error while encoding result",
			}.Print()
			return err
		}

		fmt.Print(string(output))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&domainURL, "url", "u", "", "URL")
	reportCmd.Flags().StringP("log-file", "o", logfile.DefaultPath, "CSV log file")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 100, "Number of records to include")
	reportCmd.Flags().BoolVar(&baseOnly, "base-only", false, "Skip rotated log files")
}
