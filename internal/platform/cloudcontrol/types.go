package cloudcontrol

import (
	"fmt"
	"net/netip"
)

// Kind tags the resource type a ResourceRef or error refers to.
type Kind string

// Resource kinds issued by the CloudControl API.
const (
	KindServer         Kind = "server"
	KindDisk           Kind = "disk"
	KindNatRule        Kind = "natRule"
	KindFirewallRule   Kind = "firewallRule"
	KindPublicIPBlock  Kind = "publicIpBlock"
	KindVIPListener    Kind = "vipListener"
	KindStaticRoute    Kind = "staticRoute"
	KindSnapshotConfig Kind = "snapshotConfig"
)

// ResourceRef identifies a remote resource. Immutable once issued by the
// remote system.
type ResourceRef struct {
	Kind Kind
	ID   string
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// State is the operational state the API reports for a resource. The
// same vocabulary applies to servers, disks, and the snapshot service.
type State string

// Resource states reported by the CloudControl API.
const (
	StateNormal          State = "NORMAL"
	StatePendingAdd      State = "PENDING_ADD"
	StatePendingChange   State = "PENDING_CHANGE"
	StatePendingDelete   State = "PENDING_DELETE"
	StateFailedAdd       State = "FAILED_ADD"
	StateFailedChange    State = "FAILED_CHANGE"
	StateFailedDelete    State = "FAILED_DELETE"
	StateRequiresSupport State = "REQUIRES_SUPPORT"
)

// DiskSpeed is the performance tier of a disk.
type DiskSpeed string

// Disk speeds supported by the CloudControl API. Only
// SpeedProvisionedIOPS tracks a per-disk IOPS value.
const (
	SpeedStandard        DiskSpeed = "STANDARD"
	SpeedHighPerformance DiskSpeed = "HIGHPERFORMANCE"
	SpeedEconomy         DiskSpeed = "ECONOMY"
	SpeedProvisionedIOPS DiskSpeed = "PROVISIONEDIOPS"
)

// Guest tools running states reported under a server's VMToolsStatus.
const (
	VMToolsRunning    = "RUNNING"
	VMToolsNotRunning = "NOT_RUNNING"
)

// Server is a point-in-time snapshot of a server. Read-only to callers;
// a fresh snapshot must be re-fetched, never patched in place.
type Server struct {
	ID            string
	Name          string
	State         State
	Started       bool
	VMToolsStatus string
	NetworkInfo   NetworkInfo
	Disks         []Disk
	// SnapshotService is nil when the snapshot service is not enabled
	// for this server.
	SnapshotService *SnapshotState
}

// NetworkInfo is the primary NIC placement of a server.
type NetworkInfo struct {
	PrivateIPv4     string
	IPv6            string
	NetworkDomainID string
	VLANID          string
}

// Disk is a point-in-time snapshot of a server disk. IOPS is meaningful
// only when Speed is SpeedProvisionedIOPS.
type Disk struct {
	ID               string
	SizeGB           int
	IOPS             int
	Speed            DiskSpeed
	SCSIControllerID string
}

// SnapshotState is the snapshot service configuration of a server.
type SnapshotState struct {
	State              State
	Plan               string
	ReplicationEnabled bool
}

// NatRule is a point-in-time snapshot of a NAT rule binding an internal
// IPv4 address to an external one.
type NatRule struct {
	ID         string
	InternalIP string
	ExternalIP string
}

// FirewallRuleSpec is the desired shape of a firewall rule.
type FirewallRuleSpec struct {
	Name            string
	Action          string
	Protocol        string
	SourceIP        string // "ANY" or an IPv4 address
	SourcePrefix    int    // 0 for a single address
	DestinationIP   string
	DestinationPort int
	Enabled         bool
	Placement       string
}

// FirewallRule is a point-in-time snapshot of a firewall rule.
type FirewallRule struct {
	ID string
	FirewallRuleSpec
}

// PublicIPBlock is a point-in-time snapshot of a public IPv4 block. The
// API hands out blocks of consecutive addresses starting at BaseIP.
type PublicIPBlock struct {
	ID     string
	BaseIP string
	Size   int
}

// Addresses returns every address of the block in order, starting at
// BaseIP.
func (b PublicIPBlock) Addresses() ([]string, error) {
	addr, err := netip.ParseAddr(b.BaseIP)
	if err != nil {
		return nil, fmt.Errorf("invalid block base address %q: %w", b.BaseIP, err)
	}

	addrs := make([]string, 0, b.Size)
	for i := 0; i < b.Size; i++ {
		addrs = append(addrs, addr.String())
		addr = addr.Next()
	}
	return addrs, nil
}

// VIPListener is a point-in-time snapshot of a virtual listener. Its
// ListenerIP consumes a public address, which makes listeners part of
// the in-use check before a public block is released.
type VIPListener struct {
	ID         string
	Name       string
	ListenerIP string
}

// StaticRouteSpec is the desired shape of a static route.
type StaticRouteSpec struct {
	Name       string
	Network    string // destination network address
	PrefixSize int
	NextHop    string
}

// StaticRoute is a point-in-time snapshot of a static route. Routes
// cannot be updated through the API; a divergent route is replaced by
// delete and recreate.
type StaticRoute struct {
	ID string
	StaticRouteSpec
}

// ServerDeployOpts holds all parameters for deploying a server into the
// client's network domain.
type ServerDeployOpts struct {
	Name          string
	Image         string
	VLANID        string
	PrivateIPv4   string // optional; auto-assigned when empty
	AdminPassword string
	Start         bool
}

// DiskAddOpts holds all parameters for adding a disk to a server.
type DiskAddOpts struct {
	SizeGB           int
	Speed            DiskSpeed
	IOPS             int    // required when Speed is SpeedProvisionedIOPS
	SCSIControllerID string // optional; primary controller when empty
}
