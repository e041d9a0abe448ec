package commands

import (
	"github.com/spf13/cobra"

	"github.com/mbrennan-au/ccsteer/cmd/ccsteer/handlers"
)

// Plan returns the parent command for offline plan previews.
func Plan() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview convergence plans without touching the API",
	}
	cmd.AddCommand(planResize())
	return cmd
}

func planResize() *cobra.Command {
	var opts handlers.ResizePlanOptions
	var verbose bool

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Show the stepped plan for a disk capacity change",
		Long: `Compute the ordered sequence of capacity calls needed to move a disk
from its current (size, IOPS) configuration to a target one.

Provisioned-IOPS disks cannot always be resized in one call: every call
must keep the IOPS within the band the current size supports, so large
moves alternate IOPS and size steps. This command previews that plan
without issuing any API call.
`,
		Example: `  ccsteer plan resize --current-size 10 --current-iops 30 --size 100 --iops 1000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Log = handlers.NewLogger(verbose)
			return handlers.PlanResize(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.CurrentSizeGB, "current-size", 0, "Current disk size in GB")
	cmd.Flags().IntVar(&opts.CurrentIOPS, "current-iops", 0, "Current provisioned IOPS (PROVISIONEDIOPS only)")
	cmd.Flags().StringVar(&opts.CurrentSpeed, "current-speed", "PROVISIONEDIOPS", "Current disk speed tier")
	cmd.Flags().IntVar(&opts.TargetSizeGB, "size", 0, "Target disk size in GB")
	cmd.Flags().IntVar(&opts.TargetIOPS, "iops", 0, "Target provisioned IOPS (default: size minimum)")
	cmd.Flags().StringVar(&opts.TargetSpeed, "speed", "PROVISIONEDIOPS", "Target disk speed tier")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("current-size")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}
