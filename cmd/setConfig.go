package cmd

import (
	"fmt"

	"url-monitor/internal/configuration"
	"url-monitor/internal/models"

	"github.com/spf13/cobra"
)

// setConfigCmd represents the set-config command
var setConfigCmd = &cobra.Command{
	Use:   "set-config",
	Short: "Reads a JSON string, converts it to YAML, and saves it to configuration file",
	Long: `This command takes a JSON string as an argument, validates the monitor settings,
and writes them to the configuration file in YAML format.

Example:
  url-monitor set-config '{"monitor": {"url": "example.com", "timeout": "5s"}}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configuration.Config.ConfigFile

		if err := configuration.UpdateConfig(path, []byte(args[0])); err != nil {
			models.Response{
				Message: err.Error(),
			}.Print()
			return err
		}

		models.Response{
			Message: fmt.Sprintf("Configuration saved to %s", path),
		}.Print()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setConfigCmd)
}
