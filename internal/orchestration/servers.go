package orchestration

import (
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/converge"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// ServerOpResult reports a server lifecycle operation. Server is the
// snapshot observed once the operation converged, or the pre-operation
// snapshot when nothing had to change.
type ServerOpResult struct {
	Server  cloudcontrol.Server
	Changed bool
}

// StartServer powers the named server on and waits for it to settle
// NORMAL and started, then for the guest agent when waitForTools is
// set. An already-started server is left alone.
func StartServer(rc *Context, name string, waitForTools bool) (ServerOpResult, error) {
	server, err := findServer(rc, name)
	if err != nil {
		return ServerOpResult{}, err
	}
	if server.Started && (!waitForTools || server.VMToolsStatus == cloudcontrol.VMToolsRunning) {
		return ServerOpResult{Server: server}, nil
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would start server", "server", name)
		return ServerOpResult{Server: server, Changed: true}, nil
	}

	if !server.Started {
		if err := rc.Client.StartServer(rc, server.ID); err != nil {
			return ServerOpResult{}, fmt.Errorf("starting server %q: %w", name, err)
		}
	}
	w := converge.Wait[cloudcontrol.Server]{
		Resource: "server " + name,
		Fetch:    converge.FetchServer(rc.Client, server.ID),
		Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), converge.ServerStarted()),
	}
	if waitForTools {
		w.AndThen = converge.GuestToolsRunning()
	}
	settled, err := converge.Await(rc, rc.Poller, w)
	if err != nil {
		return ServerOpResult{}, fmt.Errorf("server %q did not start: %w", name, err)
	}
	return ServerOpResult{Server: settled, Changed: true}, nil
}

// StopServer shuts the named server down and waits for it to settle
// NORMAL and stopped. An already-stopped server is left alone.
func StopServer(rc *Context, name string) (ServerOpResult, error) {
	server, err := findServer(rc, name)
	if err != nil {
		return ServerOpResult{}, err
	}
	if !server.Started {
		return ServerOpResult{Server: server}, nil
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would shut down server", "server", name)
		return ServerOpResult{Server: server, Changed: true}, nil
	}

	if err := rc.Client.ShutdownServer(rc, server.ID); err != nil {
		return ServerOpResult{}, fmt.Errorf("shutting down server %q: %w", name, err)
	}
	settled, err := converge.Await(rc, rc.Poller, converge.Wait[cloudcontrol.Server]{
		Resource: "server " + name,
		Fetch:    converge.FetchServer(rc.Client, server.ID),
		Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), converge.ServerStopped()),
	})
	if err != nil {
		return ServerOpResult{}, fmt.Errorf("server %q did not stop: %w", name, err)
	}
	return ServerOpResult{Server: settled, Changed: true}, nil
}

// RebootServer restarts the named server and waits for it to come back
// started, then for the guest agent when waitForTools is set. The
// guest-agent phase matters here: the server reports started well
// before the guest is reachable again.
func RebootServer(rc *Context, name string, waitForTools bool) (ServerOpResult, error) {
	server, err := findServer(rc, name)
	if err != nil {
		return ServerOpResult{}, err
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would reboot server", "server", name)
		return ServerOpResult{Server: server, Changed: true}, nil
	}

	if err := rc.Client.RebootServer(rc, server.ID); err != nil {
		return ServerOpResult{}, fmt.Errorf("rebooting server %q: %w", name, err)
	}
	w := converge.Wait[cloudcontrol.Server]{
		Resource: "server " + name,
		Fetch:    converge.FetchServer(rc.Client, server.ID),
		Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), converge.ServerStarted()),
	}
	if waitForTools {
		w.AndThen = converge.GuestToolsRunning()
	}
	settled, err := converge.Await(rc, rc.Poller, w)
	if err != nil {
		return ServerOpResult{}, fmt.Errorf("server %q did not come back from reboot: %w", name, err)
	}
	return ServerOpResult{Server: settled, Changed: true}, nil
}

// DeleteServer deletes the named server and waits until the remote
// system no longer lists it. A started server is shut down first. An
// absent server is a successful delete.
func DeleteServer(rc *Context, name string) (changed bool, err error) {
	server, found, err := rc.Client.GetServerByName(rc, name)
	if err != nil {
		return false, fmt.Errorf("looking up server %q: %w", name, err)
	}
	if !found {
		return false, nil
	}
	if rc.DryRun {
		rc.Log.Info("dry run: would delete server", "server", name)
		return true, nil
	}
	if err := deleteServerAndWait(rc, server); err != nil {
		return false, fmt.Errorf("deleting server %q: %w", name, err)
	}
	return true, nil
}

// deleteServerAndWait stops the server when needed, issues the delete,
// and waits for the remote system to stop reporting it. Absence is the
// terminal success state of the wait.
func deleteServerAndWait(rc *Context, server cloudcontrol.Server) error {
	if server.Started {
		if err := rc.Client.ShutdownServer(rc, server.ID); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		if _, err := converge.Await(rc, rc.Poller, converge.Wait[cloudcontrol.Server]{
			Resource: "server " + server.Name,
			Fetch:    converge.FetchServer(rc.Client, server.ID),
			Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), converge.ServerStopped()),
		}); err != nil {
			return fmt.Errorf("waiting for shutdown: %w", err)
		}
	}
	if err := rc.Client.DeleteServer(rc, server.ID); err != nil {
		return err
	}
	if _, err := converge.Await(rc, rc.Poller, converge.Wait[cloudcontrol.Server]{
		Resource:  "server " + server.Name,
		Fetch:     converge.FetchServer(rc.Client, server.ID),
		UntilGone: true,
		Interval:  rc.Timeouts.DeletePoll,
		Timeout:   rc.Timeouts.DeleteWait,
	}); err != nil {
		return fmt.Errorf("waiting for deletion: %w", err)
	}
	return nil
}

// findServer resolves a server by name, mapping absence to a typed
// NotFound so callers and tests never string-match.
func findServer(rc *Context, name string) (cloudcontrol.Server, error) {
	server, found, err := rc.Client.GetServerByName(rc, name)
	if err != nil {
		return cloudcontrol.Server{}, fmt.Errorf("looking up server %q: %w", name, err)
	}
	if !found {
		return cloudcontrol.Server{}, &cloudcontrol.NotFoundError{Kind: cloudcontrol.KindServer, Key: name}
	}
	return server, nil
}
