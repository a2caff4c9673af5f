package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"url-monitor/internal/logfile"
	"url-monitor/internal/models"
	"url-monitor/internal/monitor"
	"url-monitor/internal/net"
	"url-monitor/internal/telemetry"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var noProgress bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Starts monitoring a URL or API",
	Long: `The 'run' command starts the monitoring loop.
It asks for the URL, the timeout and the interval unless they are configured,
then requests the URL until interrupted. When a request fails it asks for a
new URL and keeps the response time history.

Example:
  url-monitor run --url example.com --timeout 5 --interval 10s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := reader.ParseConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdown, err := telemetry.Init(ctx, VERSION)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to flush telemetry")
			}
		}()

		meters, err := telemetry.NewMeters()
		if err != nil {
			return err
		}

		writer, err := logfile.NewWriter(settings.LogFile, settings.MaxLogSize)
		if err != nil {
			return err
		}

		wait := monitor.Countdown(os.Stdout)
		if noProgress {
			wait = monitor.Sleep
		}

		uptimeMonitor, err := monitor.NewUptimeMonitor(monitor.Config{
			Resolver: net.NewResolver(),
			Prober:   net.NewProber(meters),
			Writer:   writer,
			Prompter: monitor.NewConsolePrompter(os.Stdin, os.Stdout),
			Out:      os.Stdout,
			Wait:     wait,
			Meters:   meters,
		}, monitor.Options{
			URL:           settings.URL,
			Timeout:       settings.Timeout,
			Interval:      settings.Interval,
			HistoryWindow: settings.History,
		})
		if err != nil {
			return err
		}

		log.Info().Str("log_file", writer.Path()).Msg("starting url monitoring")
		fmt.Println("Press Ctrl+C to stop")

		return uptimeMonitor.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("url", "u", "", "URL or host to monitor")
	runCmd.Flags().String("timeout", "", "Request timeout (seconds or duration, e.g. 5 or 1500ms)")
	runCmd.Flags().String("interval", "", "Time between requests (seconds or duration)")
	runCmd.Flags().StringP("log-file", "o", logfile.DefaultPath, "CSV log file")
	runCmd.Flags().String("max-log-size", "10MB", "Rotate the CSV log once it grows past this size")
	runCmd.Flags().Int("history", models.DefaultHistoryWindow, "Readings kept for the chart (0 keeps all)")
	runCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not draw a countdown between requests")
}
