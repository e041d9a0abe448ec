package commands

import (
	"github.com/spf13/cobra"

	"github.com/mbrennan-au/ccsteer/cmd/ccsteer/handlers"
)

// Config returns the parent command for configuration operations.
func Config() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate environment configuration",
	}
	cmd.AddCommand(configValidate())
	return cmd
}

func configValidate() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a ccsteer configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := handlers.NewLogger(verbose)
			return handlers.ConfigValidate(cmd.OutOrStdout(), configPath, log)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "ccsteer.yaml", "Path to configuration file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
