package cloudcontrol

import (
	"context"
)

// ServerAPI defines the interface for server lifecycle operations.
type ServerAPI interface {
	ListServers(ctx context.Context) ([]Server, error)
	// GetServer returns the server with the given ID, or a
	// *NotFoundError when no such server exists.
	GetServer(ctx context.Context, id string) (Server, error)
	// GetServerByName returns the server with the given name. The API
	// has no get-by-name call; implementations list and filter
	// client-side. found is false when no server matches.
	GetServerByName(ctx context.Context, name string) (server Server, found bool, err error)
	DeployServer(ctx context.Context, opts ServerDeployOpts) (ResourceRef, error)
	DeleteServer(ctx context.Context, id string) error
	StartServer(ctx context.Context, id string) error
	ShutdownServer(ctx context.Context, id string) error
	RebootServer(ctx context.Context, id string) error
}

// DiskAPI defines the interface for disk capacity operations. Size and
// IOPS are changed by separate calls; the remote system rejects a value
// outside the band the disk's current configuration supports.
type DiskAPI interface {
	ChangeDiskIOPS(ctx context.Context, diskID string, iops int) error
	ChangeDiskSize(ctx context.Context, serverID, diskID string, sizeGB int) error
	ChangeDiskSpeed(ctx context.Context, diskID string, speed DiskSpeed) error
	AddDisk(ctx context.Context, serverID string, opts DiskAddOpts) (ResourceRef, error)
}

// NatAPI defines the interface for NAT rule operations.
type NatAPI interface {
	ListNatRules(ctx context.Context) ([]NatRule, error)
	CreateNatRule(ctx context.Context, internalIP, externalIP string) (ResourceRef, error)
	DeleteNatRule(ctx context.Context, id string) error
}

// FirewallAPI defines the interface for firewall rule operations.
type FirewallAPI interface {
	ListFirewallRules(ctx context.Context) ([]FirewallRule, error)
	CreateFirewallRule(ctx context.Context, spec FirewallRuleSpec) (ResourceRef, error)
	UpdateFirewallRule(ctx context.Context, id string, spec FirewallRuleSpec) error
	DeleteFirewallRule(ctx context.Context, id string) error
}

// IPBlockAPI defines the interface for public IPv4 block operations.
type IPBlockAPI interface {
	ListPublicIPBlocks(ctx context.Context) ([]PublicIPBlock, error)
	// AddPublicIPBlock provisions a new block of consecutive public
	// addresses; the remote system picks the base address and size.
	AddPublicIPBlock(ctx context.Context) (ResourceRef, error)
	// GetPublicIPBlock returns the block with the given ID, or a
	// *NotFoundError when no such block exists.
	GetPublicIPBlock(ctx context.Context, id string) (PublicIPBlock, error)
	DeletePublicIPBlock(ctx context.Context, id string) error
}

// VIPAPI defines the interface for virtual listener reads. Listeners
// consume public addresses, so the release path re-queries them.
type VIPAPI interface {
	ListVIPListeners(ctx context.Context) ([]VIPListener, error)
}

// RouteAPI defines the interface for static route operations. There is
// no update call; replacing a route is delete then create.
type RouteAPI interface {
	ListStaticRoutes(ctx context.Context) ([]StaticRoute, error)
	CreateStaticRoute(ctx context.Context, spec StaticRouteSpec) (ResourceRef, error)
	DeleteStaticRoute(ctx context.Context, id string) error
}

// SnapshotAPI defines the interface for snapshot service operations.
type SnapshotAPI interface {
	EnableSnapshotService(ctx context.Context, serverID, plan string) error
	DisableSnapshotService(ctx context.Context, serverID string) error
	DisableSnapshotReplication(ctx context.Context, serverID string) error
}

// Client combines all CloudControl API concerns. A Client is scoped to
// one network domain: every list returns that domain's resources only.
type Client interface {
	ServerAPI
	DiskAPI
	NatAPI
	FirewallAPI
	IPBlockAPI
	VIPAPI
	RouteAPI
	SnapshotAPI
}
