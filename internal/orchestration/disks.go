package orchestration

import (
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/config"
	"github.com/mbrennan-au/ccsteer/internal/converge"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	"github.com/mbrennan-au/ccsteer/internal/resize"
)

// AddDisk attaches a new disk to the named server and waits for the
// attach to converge. The returned disk is the one the remote system
// reports after the server settles, never the requested shape echoed
// back.
func AddDisk(rc *Context, serverName string, opts cloudcontrol.DiskAddOpts) (cloudcontrol.Disk, error) {
	server, err := findServer(rc, serverName)
	if err != nil {
		return cloudcontrol.Disk{}, err
	}
	if opts.Speed == cloudcontrol.SpeedProvisionedIOPS && opts.IOPS == 0 {
		opts.IOPS = opts.SizeGB * config.MinIOPSPerGB
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would add disk",
			"server", serverName, "sizeGB", opts.SizeGB, "speed", opts.Speed, "iops", opts.IOPS)
		return cloudcontrol.Disk{SizeGB: opts.SizeGB, IOPS: opts.IOPS, Speed: opts.Speed}, nil
	}

	ref, err := rc.Client.AddDisk(rc, server.ID, opts)
	if err != nil {
		return cloudcontrol.Disk{}, fmt.Errorf("adding disk to server %q: %w", serverName, err)
	}
	rc.Log.Info("added disk", "server", serverName, "disk", ref.ID)

	settled, err := converge.Await(rc, rc.Poller, converge.Wait[cloudcontrol.Server]{
		Resource: "disk " + ref.ID,
		Fetch:    converge.FetchServer(rc.Client, server.ID),
		Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), converge.HasDisk(ref.ID)),
		Interval: rc.Timeouts.DiskPoll,
		Timeout:  rc.Timeouts.DiskWait,
	})
	if err != nil {
		return cloudcontrol.Disk{}, fmt.Errorf("disk %s did not attach: %w", ref.ID, err)
	}
	for _, d := range settled.Disks {
		if d.ID == ref.ID {
			return d, nil
		}
	}
	return cloudcontrol.Disk{}, &cloudcontrol.NotFoundError{Kind: cloudcontrol.KindDisk, Key: ref.ID}
}

// ResizeDisk moves the identified disk on the named server to the
// target capacity, stepping through intermediate configurations when
// the provisioned-IOPS band forces it. The current configuration is
// read from the remote system, never supplied by the caller.
func ResizeDisk(rc *Context, serverName, diskID string, target resize.Spec) error {
	server, err := findServer(rc, serverName)
	if err != nil {
		return err
	}
	var current resize.Spec
	found := false
	for _, d := range server.Disks {
		if d.ID == diskID {
			current = resize.Spec{SizeGB: d.SizeGB, IOPS: d.IOPS, Speed: d.Speed}
			found = true
		}
	}
	if !found {
		return &cloudcontrol.NotFoundError{Kind: cloudcontrol.KindDisk, Key: diskID}
	}

	if rc.DryRun {
		steps, err := resize.Steps(current, target, resize.DefaultLimits())
		if err != nil {
			return err
		}
		rc.Log.Info("dry run: would resize disk",
			"server", serverName, "disk", diskID, "steps", len(steps))
		return nil
	}
	return rc.Planner.Resize(rc, server.ID, diskID, current, target)
}
