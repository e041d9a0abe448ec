// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the ccsteer CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccsteer",
		Short: "Converge CloudControl infrastructure to declared state",
	}

	cmd.AddCommand(Plan())
	cmd.AddCommand(Config())
	cmd.AddCommand(Version())

	return cmd
}
