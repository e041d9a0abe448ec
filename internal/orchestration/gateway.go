package orchestration

import (
	"errors"
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/converge"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	"github.com/mbrennan-au/ccsteer/internal/reconcile"
)

// GatewayResult reports the converged gateway host. AdminPassword is
// set only when this call deployed the server; the remote system never
// reports passwords back, so this is the caller's one chance to record
// it.
type GatewayResult struct {
	ServerID      string
	InternalIPv4  string
	IPv6          string
	PublicIPv4    string
	AdminPassword string
	Changed       bool
}

// gatewayRuleName is the fixed binding key of a gateway's SSH firewall
// rule.
func gatewayRuleName(serverName string) string {
	return serverName + ".ssh"
}

// EnsureGateway converges the gateway host: the server exists and is
// started, its internal address NATs to a public one, and a firewall
// rule admits SSH to that public address. Each stage re-reads remote
// state, so a partially built gateway is completed rather than
// duplicated.
func EnsureGateway(rc *Context) (GatewayResult, error) {
	gw := rc.Config.Gateway
	log := rc.Log.WithValues("gateway", gw.Name)

	var result GatewayResult

	server, found, err := rc.Client.GetServerByName(rc, gw.Name)
	if err != nil {
		return result, fmt.Errorf("looking up gateway server %q: %w", gw.Name, err)
	}

	switch {
	case !found && rc.DryRun:
		log.Info("dry run: would deploy gateway server", "image", gw.Image)
		result.Changed = true
		return result, nil

	case !found:
		password := gw.Password
		if password == "" {
			if password, err = generatePassword(); err != nil {
				return result, err
			}
		}
		result.AdminPassword = password

		ref, err := rc.Client.DeployServer(rc, cloudcontrol.ServerDeployOpts{
			Name:          gw.Name,
			Image:         gw.Image,
			VLANID:        rc.Config.VLAN,
			PrivateIPv4:   gw.IPv4,
			AdminPassword: password,
			Start:         true,
		})
		if err != nil {
			return result, fmt.Errorf("deploying gateway server %q: %w", gw.Name, err)
		}
		result.Changed = true
		log.Info("deployed gateway server", "id", ref.ID)

		server, err = awaitGatewayRunning(rc, ref.ID)
		if err != nil {
			// The password would otherwise be lost with the failed wait.
			return result, fmt.Errorf(
				"gateway server %q deployed (admin password %q) but did not converge: %w",
				gw.Name, password, err)
		}

	case !server.Started:
		if rc.DryRun {
			log.Info("dry run: would start gateway server", "id", server.ID)
		} else {
			if err := rc.Client.StartServer(rc, server.ID); err != nil {
				return result, fmt.Errorf("starting gateway server %q: %w", gw.Name, err)
			}
			if server, err = awaitGatewayRunning(rc, server.ID); err != nil {
				return result, fmt.Errorf("gateway server %q did not start: %w", gw.Name, err)
			}
		}
		result.Changed = true
	}

	result.ServerID = server.ID
	result.InternalIPv4 = server.NetworkInfo.PrivateIPv4
	result.IPv6 = server.NetworkInfo.IPv6

	nat, err := rc.Reconciler.EnsureNat(rc, reconcile.NatBinding{InternalIP: result.InternalIPv4}, rc.DryRun)
	if err != nil {
		return result, fmt.Errorf("ensuring gateway NAT: %w", err)
	}
	result.PublicIPv4 = nat.Rule.ExternalIP
	result.Changed = result.Changed || nat.Changed

	if result.PublicIPv4 == "" {
		// Only reachable in a dry run that would provision a block: the
		// rule's destination is unknown until the remote system picks
		// the base address.
		log.Info("dry run: would admit SSH to the allocated public address")
		return result, nil
	}

	rule, err := rc.Reconciler.EnsureFirewallRule(rc, gatewaySSHRule(rc, result.PublicIPv4), rc.DryRun)
	if err != nil {
		return result, fmt.Errorf("ensuring gateway firewall rule: %w", err)
	}
	result.Changed = result.Changed || rule.Changed

	return result, nil
}

// RemoveGateway tears the gateway down in reverse order: stop and
// delete the server, release the firewall rule, release the NAT
// binding, and finally release the public block the translation held,
// unless another consumer still references it.
func RemoveGateway(rc *Context) error {
	gw := rc.Config.Gateway
	log := rc.Log.WithValues("gateway", gw.Name)

	var internalIP string

	server, found, err := rc.Client.GetServerByName(rc, gw.Name)
	if err != nil {
		return fmt.Errorf("looking up gateway server %q: %w", gw.Name, err)
	}
	if found {
		internalIP = server.NetworkInfo.PrivateIPv4
		if rc.DryRun {
			log.Info("dry run: would delete gateway server", "id", server.ID)
		} else {
			if err := deleteServerAndWait(rc, server); err != nil {
				return fmt.Errorf("removing gateway server %q: %w", gw.Name, err)
			}
			log.Info("deleted gateway server", "id", server.ID)
		}
	}

	rule, _, err := rc.Reconciler.ReleaseFirewallRule(rc, gatewayRuleName(gw.Name), rc.DryRun)
	if err != nil {
		return fmt.Errorf("releasing gateway firewall rule: %w", err)
	}

	// The server is the preferred NAT key; once it is gone the rule's
	// old destination still identifies the translation.
	binding := reconcile.NatBinding{InternalIP: internalIP}
	if internalIP == "" {
		binding = reconcile.NatBinding{ExternalIP: rule.DestinationIP}
	}
	if binding == (reconcile.NatBinding{}) {
		log.V(1).Info("no key left to locate the gateway NAT binding")
		return nil
	}

	released, err := rc.Reconciler.ReleaseNat(rc, binding, rc.DryRun)
	if err != nil {
		return fmt.Errorf("releasing gateway NAT: %w", err)
	}

	for _, nat := range released {
		block, ok, err := rc.Reconciler.FindPublicIPBlock(rc, nat.ExternalIP)
		if err != nil {
			return fmt.Errorf("locating block for %s: %w", nat.ExternalIP, err)
		}
		if !ok {
			continue
		}
		err = rc.Reconciler.ReleasePublicIPBlock(rc, block.ID, rc.DryRun)
		var inUse *reconcile.InUseError
		if errors.As(err, &inUse) {
			log.Info("public IP block stays: still referenced", "block", block.ID, "holders", inUse.Holders)
			continue
		}
		if err != nil {
			return fmt.Errorf("releasing public IP block %s: %w", block.ID, err)
		}
	}
	return nil
}

// gatewaySSHRule is the desired shape of the gateway's SSH admission
// rule.
func gatewaySSHRule(rc *Context, publicIPv4 string) cloudcontrol.FirewallRuleSpec {
	gw := rc.Config.Gateway
	source := gw.SourceIP
	if source == "" {
		source = "ANY"
	}
	return cloudcontrol.FirewallRuleSpec{
		Name:            gatewayRuleName(gw.Name),
		Action:          "ACCEPT_DECISIVELY",
		Protocol:        "TCP",
		SourceIP:        source,
		SourcePrefix:    gw.SourcePrefix,
		DestinationIP:   publicIPv4,
		DestinationPort: 22,
		Enabled:         true,
		Placement:       "LAST",
	}
}

// awaitGatewayRunning waits for the gateway server to settle NORMAL and
// started, then for the guest agent when configured. Both phases share
// the gateway deadline.
func awaitGatewayRunning(rc *Context, serverID string) (cloudcontrol.Server, error) {
	w := converge.Wait[cloudcontrol.Server]{
		Resource: "gateway server " + serverID,
		Fetch:    converge.FetchServer(rc.Client, serverID),
		Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), converge.ServerStarted()),
		Interval: rc.Timeouts.GatewayPoll,
		Timeout:  rc.Timeouts.GatewayWait,
	}
	if rc.Config.Gateway.WaitForTools {
		w.AndThen = converge.GuestToolsRunning()
	}
	return converge.Await(rc, rc.Poller, w)
}
