package orchestration

import (
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/converge"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// SnapshotResult reports a snapshot service operation. Service is the
// configuration observed once the service settled, nil after a
// disable.
type SnapshotResult struct {
	Service *cloudcontrol.SnapshotState
	Changed bool
}

// EnableSnapshotService turns the snapshot service on for the named
// server with the given plan and waits for it to settle NORMAL. A
// service already running the same plan is left alone; a different
// plan is an error rather than a silent replacement.
func EnableSnapshotService(rc *Context, serverName, plan string) (SnapshotResult, error) {
	server, err := findServer(rc, serverName)
	if err != nil {
		return SnapshotResult{}, err
	}
	if svc := server.SnapshotService; svc != nil {
		if svc.Plan != plan {
			return SnapshotResult{}, fmt.Errorf(
				"server %q already has snapshot plan %q; disable it before switching to %q",
				serverName, svc.Plan, plan)
		}
		return SnapshotResult{Service: svc}, nil
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would enable snapshot service", "server", serverName, "plan", plan)
		return SnapshotResult{Changed: true}, nil
	}

	if err := rc.Client.EnableSnapshotService(rc, server.ID, plan); err != nil {
		return SnapshotResult{}, fmt.Errorf("enabling snapshot service on %q: %w", serverName, err)
	}
	settled, err := awaitSnapshotService(rc, server.ID, converge.SnapshotServiceReached(cloudcontrol.StateNormal))
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("snapshot service on %q did not converge: %w", serverName, err)
	}
	return SnapshotResult{Service: settled.SnapshotService, Changed: true}, nil
}

// DisableSnapshotService turns the snapshot service off for the named
// server and waits until the server stops reporting it. An absent
// service is a successful disable.
func DisableSnapshotService(rc *Context, serverName string) (SnapshotResult, error) {
	server, err := findServer(rc, serverName)
	if err != nil {
		return SnapshotResult{}, err
	}
	if server.SnapshotService == nil {
		return SnapshotResult{}, nil
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would disable snapshot service", "server", serverName)
		return SnapshotResult{Service: server.SnapshotService, Changed: true}, nil
	}

	if err := rc.Client.DisableSnapshotService(rc, server.ID); err != nil {
		return SnapshotResult{}, fmt.Errorf("disabling snapshot service on %q: %w", serverName, err)
	}
	if _, err := awaitSnapshotService(rc, server.ID, converge.SnapshotServiceAbsent()); err != nil {
		return SnapshotResult{}, fmt.Errorf("snapshot service on %q did not disable: %w", serverName, err)
	}
	return SnapshotResult{Changed: true}, nil
}

// DisableSnapshotReplication turns replication off for the named
// server's snapshot service and waits for the service to settle back
// to NORMAL with replication off. Replication already off is left
// alone; a missing service is an error, since there is nothing whose
// replication could be disabled.
func DisableSnapshotReplication(rc *Context, serverName string) (SnapshotResult, error) {
	server, err := findServer(rc, serverName)
	if err != nil {
		return SnapshotResult{}, err
	}
	svc := server.SnapshotService
	if svc == nil {
		return SnapshotResult{}, &cloudcontrol.NotFoundError{Kind: cloudcontrol.KindSnapshotConfig, Key: serverName}
	}
	if !svc.ReplicationEnabled {
		return SnapshotResult{Service: svc}, nil
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would disable snapshot replication", "server", serverName)
		return SnapshotResult{Service: svc, Changed: true}, nil
	}

	if err := rc.Client.DisableSnapshotReplication(rc, server.ID); err != nil {
		return SnapshotResult{}, fmt.Errorf("disabling snapshot replication on %q: %w", serverName, err)
	}
	settled, err := awaitSnapshotService(rc, server.ID, converge.And(
		converge.SnapshotServiceReached(cloudcontrol.StateNormal),
		replicationOff(),
	))
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("snapshot replication on %q did not disable: %w", serverName, err)
	}
	return SnapshotResult{Service: settled.SnapshotService, Changed: true}, nil
}

func replicationOff() converge.Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return s.SnapshotService != nil && !s.SnapshotService.ReplicationEnabled
	}
}

// awaitSnapshotService polls the owning server at the snapshot cadence,
// which is much tighter than the server-lifecycle one.
func awaitSnapshotService(rc *Context, serverID string, cond converge.Condition[cloudcontrol.Server]) (cloudcontrol.Server, error) {
	return converge.Await(rc, rc.Poller, converge.Wait[cloudcontrol.Server]{
		Resource: "snapshot service on server " + serverID,
		Fetch:    converge.FetchServer(rc.Client, serverID),
		Until:    cond,
		Interval: rc.Timeouts.SnapshotPoll,
		Timeout:  rc.Timeouts.SnapshotWait,
	})
}
