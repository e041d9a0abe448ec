package testing

import (
	"github.com/mbrennan-au/ccsteer/internal/config"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// EnvConfig returns a valid environment configuration for tests.
func EnvConfig() *config.Config {
	return &config.Config{
		Region:        "au",
		Datacenter:    "AU9",
		NetworkDomain: "nd-test",
		VLAN:          "vlan-test",
		Gateway: config.GatewayConfig{
			Name:     "test-gw",
			Image:    "CentOS 7 64-bit",
			SourceIP: "ANY",
		},
	}
}

// ProvisionedIOPSDisk returns a provisioned-IOPS disk snapshot with
// the given capacity.
func ProvisionedIOPSDisk(id string, sizeGB, iops int) cloudcontrol.Disk {
	return cloudcontrol.Disk{
		ID:     id,
		SizeGB: sizeGB,
		IOPS:   iops,
		Speed:  cloudcontrol.SpeedProvisionedIOPS,
	}
}

// SeedGateway populates a fake with a converged gateway: a running
// server, its NAT translation out of an owned public block, and the
// SSH admission rule. It returns the server ID and the external
// address.
func SeedGateway(f *cloudcontrol.FakeClient, name string) (serverID, externalIP string) {
	serverID = NewServerBuilder("server-"+name, name).SeedInto(f)

	f.Blocks["block-"+name] = &cloudcontrol.PublicIPBlock{
		ID:     "block-" + name,
		BaseIP: "198.51.100.0",
		Size:   2,
	}
	f.NatRules["nat-"+name] = &cloudcontrol.NatRule{
		ID:         "nat-" + name,
		InternalIP: "10.0.0.10",
		ExternalIP: "198.51.100.0",
	}
	f.FirewallRules["fw-"+name] = &cloudcontrol.FirewallRule{
		ID: "fw-" + name,
		FirewallRuleSpec: cloudcontrol.FirewallRuleSpec{
			Name:            name + ".ssh",
			Action:          "ACCEPT_DECISIVELY",
			Protocol:        "TCP",
			SourceIP:        "ANY",
			DestinationIP:   "198.51.100.0",
			DestinationPort: 22,
			Enabled:         true,
			Placement:       "LAST",
		},
	}
	return serverID, "198.51.100.0"
}
