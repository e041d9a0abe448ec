package testing

import (
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// ServerBuilder provides a fluent interface for constructing server
// snapshots. Each method returns a new builder (immutable) for
// chaining. The default server is NORMAL, started, guest agent
// running, with one standard 10GB disk.
type ServerBuilder struct {
	server cloudcontrol.Server
}

// NewServerBuilder creates a builder for a server with the given ID
// and name.
func NewServerBuilder(id, name string) *ServerBuilder {
	return &ServerBuilder{
		server: cloudcontrol.Server{
			ID:            id,
			Name:          name,
			State:         cloudcontrol.StateNormal,
			Started:       true,
			VMToolsStatus: cloudcontrol.VMToolsRunning,
			NetworkInfo: cloudcontrol.NetworkInfo{
				PrivateIPv4: "10.0.0.10",
				IPv6:        "2001:db8::10",
			},
			Disks: []cloudcontrol.Disk{
				{ID: id + "-disk-0", SizeGB: 10, Speed: cloudcontrol.SpeedStandard},
			},
		},
	}
}

// Stopped marks the server powered off with the guest agent down.
func (b *ServerBuilder) Stopped() *ServerBuilder {
	s := b.server
	s.Started = false
	s.VMToolsStatus = cloudcontrol.VMToolsNotRunning
	return &ServerBuilder{server: s}
}

// InState sets the operational state.
func (b *ServerBuilder) InState(state cloudcontrol.State) *ServerBuilder {
	s := b.server
	s.State = state
	return &ServerBuilder{server: s}
}

// WithPrivateIPv4 sets the primary NIC address.
func (b *ServerBuilder) WithPrivateIPv4(ip string) *ServerBuilder {
	s := b.server
	s.NetworkInfo.PrivateIPv4 = ip
	return &ServerBuilder{server: s}
}

// WithDisk replaces the disk list with the given disks.
func (b *ServerBuilder) WithDisk(disks ...cloudcontrol.Disk) *ServerBuilder {
	s := b.server
	s.Disks = disks
	return &ServerBuilder{server: s}
}

// WithSnapshotService configures a NORMAL snapshot service.
func (b *ServerBuilder) WithSnapshotService(plan string, replication bool) *ServerBuilder {
	s := b.server
	s.SnapshotService = &cloudcontrol.SnapshotState{
		State:              cloudcontrol.StateNormal,
		Plan:               plan,
		ReplicationEnabled: replication,
	}
	return &ServerBuilder{server: s}
}

// Build returns the constructed server.
func (b *ServerBuilder) Build() cloudcontrol.Server {
	return b.server
}

// SeedInto adds the server to a fake client and returns its ID.
func (b *ServerBuilder) SeedInto(f *cloudcontrol.FakeClient) string {
	s := b.server
	f.Servers[s.ID] = &s
	return s.ID
}
