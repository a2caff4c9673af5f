package cmd

import (
	"fmt"
	"os"

	"url-monitor/internal/configuration"
	"url-monitor/internal/failure"
	applog "url-monitor/pkg/log"

	"github.com/spf13/cobra"
)

// Constants for exit codes
const (
	ExitSuccess          = 0
	ExitErrorInvalidArgs = 1
	ExitErrorConnection  = 2
	ExitErrorConfig      = 3
	ExitErrorLogIO       = 4
)

// VERSION is set at build time with -ldflags.
var VERSION = "dev"

var reader *configuration.ConfigReader

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   configuration.APP_NAME,
	Short: "An application to monitor the availability of a URL or API",
	Long: `A command-line tool to monitor a URL or API.
It resolves the host, requests the URL periodically, draws a chart of the
response times and appends every result to a rotating CSV log.

Usage: url-monitor [--config=path/to/url-monitor.yml] run`,
	Version:       VERSION,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		reader = configuration.NewConfigReader()

		// An explicit --config must exist; the default one is optional
		required := cmd.Flags().Changed("config")
		if err := reader.ReadConfig(configuration.Config.ConfigFile, required); err != nil {
			return err
		}

		if err := reader.BindFlags(cmd.Flags()); err != nil {
			return err
		}

		configuration.Config.LogLevel = reader.GetString("log_level")
		configuration.Config.AppLog = reader.GetString("app_log")

		applog.InitLogger(applog.Options{
			File:   configuration.Config.AppLog,
			NoTime: configuration.Config.NoTime,
		})
		applog.SetLogLevel(configuration.Config.LogLevel)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch failure.KindOf(err) {
	case failure.Configuration:
		return ExitErrorConfig
	case failure.LogIO:
		return ExitErrorLogIO
	case failure.Resolution, failure.Transport:
		return ExitErrorConnection
	default:
		return ExitErrorInvalidArgs
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configuration.Config.ConfigFile, "config", "c", configuration.CONFIG_PATH, "Path to configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("app-log", "", "Also write diagnostics to this file")
	rootCmd.PersistentFlags().BoolVar(&configuration.Config.NoTime, "no-time", false, "hide time in log")
}
