package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	"github.com/mbrennan-au/ccsteer/internal/resize"
)

// ResizePlanOptions holds the parsed flags of `plan resize`.
type ResizePlanOptions struct {
	CurrentSizeGB int
	CurrentIOPS   int
	CurrentSpeed  string
	TargetSizeGB  int
	TargetIOPS    int
	TargetSpeed   string
	Log           logr.Logger
}

// PlanResize computes the stepped capacity plan and writes it to w. No
// API call is issued; the plan is the same one the resize planner would
// execute lazily against a live disk.
func PlanResize(w io.Writer, opts ResizePlanOptions) error {
	currentSpeed, err := parseSpeed(opts.CurrentSpeed)
	if err != nil {
		return err
	}
	targetSpeed, err := parseSpeed(opts.TargetSpeed)
	if err != nil {
		return err
	}

	current := resize.Spec{SizeGB: opts.CurrentSizeGB, IOPS: opts.CurrentIOPS, Speed: currentSpeed}
	target := resize.Spec{SizeGB: opts.TargetSizeGB, IOPS: opts.TargetIOPS, Speed: targetSpeed}

	lim := resize.DefaultLimits()
	steps, err := resize.Steps(current, target, lim)
	if err != nil {
		return fmt.Errorf("planning resize: %w", err)
	}
	opts.Log.V(1).Info("computed resize plan",
		"steps", len(steps), "currentSize", current.SizeGB, "targetSize", target.SizeGB)

	fmt.Fprint(w, renderResizePlan(current, target, steps, lim, styledOutput()))
	return nil
}

var diskSpeeds = map[string]cloudcontrol.DiskSpeed{
	string(cloudcontrol.SpeedStandard):        cloudcontrol.SpeedStandard,
	string(cloudcontrol.SpeedHighPerformance): cloudcontrol.SpeedHighPerformance,
	string(cloudcontrol.SpeedEconomy):         cloudcontrol.SpeedEconomy,
	string(cloudcontrol.SpeedProvisionedIOPS): cloudcontrol.SpeedProvisionedIOPS,
}

func parseSpeed(s string) (cloudcontrol.DiskSpeed, error) {
	speed, ok := diskSpeeds[s]
	if !ok {
		return "", fmt.Errorf("unknown disk speed %q (STANDARD, HIGHPERFORMANCE, ECONOMY, PROVISIONEDIOPS)", s)
	}
	return speed, nil
}

// styledOutput reports whether stdout is a terminal worth styling.
func styledOutput() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
