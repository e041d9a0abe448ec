package cloudcontrol

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"github.com/mbrennan-au/ccsteer/internal/config"
)

// FakeClient is an in-memory Client for tests. Resource maps are
// exported so tests can seed and inspect state directly.
//
// Mutations settle asynchronously when SettleAfterReads is positive:
// the affected resource reports a pending state until it has been read
// that many times, then the mutation's effect becomes visible. A second
// mutation against a resource that is still pending fails with a
// transient error, the way the real API reports a locked resource.
//
// Capacity rules (size and IOPS ceilings, the provisioned-IOPS band)
// are enforced on every disk call so an illegal intermediate step
// surfaces as a permanent error instead of passing silently.
type FakeClient struct {
	mu sync.Mutex

	Servers       map[string]*Server
	NatRules      map[string]*NatRule
	FirewallRules map[string]*FirewallRule
	Blocks        map[string]*PublicIPBlock
	Listeners     map[string]*VIPListener
	Routes        map[string]*StaticRoute

	// Errs fails the named operation (e.g. "createNatRule") with the
	// given error instead of touching state.
	Errs map[string]error

	// SettleAfterReads delays the effect of subsequent mutations by
	// that many reads of the affected resource. Zero settles
	// immediately.
	SettleAfterReads int

	// BlockSize is the size of newly provisioned public IP blocks.
	BlockSize int

	nextID        int
	nextBlockAddr netip.Addr
	pending       map[string]*pendingOp
	calls         []string
}

type pendingOp struct {
	reads int
	apply func()
}

// NewFakeClient returns an empty FakeClient with mutations settling
// immediately.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Servers:       make(map[string]*Server),
		NatRules:      make(map[string]*NatRule),
		FirewallRules: make(map[string]*FirewallRule),
		Blocks:        make(map[string]*PublicIPBlock),
		Listeners:     make(map[string]*VIPListener),
		Routes:        make(map[string]*StaticRoute),
		Errs:          make(map[string]error),
		BlockSize:     2,
		nextBlockAddr: netip.MustParseAddr("203.0.113.0"),
		pending:       make(map[string]*pendingOp),
	}
}

// Calls returns every recorded API call in order, formatted as
// "operation key".
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// MutationCalls returns the recorded mutating API calls in order.
func (f *FakeClient) MutationCalls() []string {
	var out []string
	for _, c := range f.Calls() {
		op, _, _ := strings.Cut(c, " ")
		if mutatingOps[op] {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the recorded call log, keeping all state.
func (f *FakeClient) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

var mutatingOps = map[string]bool{
	"deployServer":               true,
	"deleteServer":               true,
	"startServer":                true,
	"shutdownServer":             true,
	"rebootServer":               true,
	"changeDiskIops":             true,
	"changeDiskSize":             true,
	"changeDiskSpeed":            true,
	"addDisk":                    true,
	"createNatRule":              true,
	"deleteNatRule":              true,
	"createFirewallRule":         true,
	"updateFirewallRule":         true,
	"deleteFirewallRule":         true,
	"addPublicIpBlock":           true,
	"deletePublicIpBlock":        true,
	"createStaticRoute":          true,
	"deleteStaticRoute":          true,
	"enableSnapshotService":      true,
	"disableSnapshotService":     true,
	"disableSnapshotReplication": true,
}

// begin records the call and returns any injected error. Callers must
// hold f.mu.
func (f *FakeClient) begin(op, key string) error {
	if key == "" {
		f.calls = append(f.calls, op)
	} else {
		f.calls = append(f.calls, op+" "+key)
	}
	return f.Errs[op]
}

func (f *FakeClient) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// stage queues apply behind SettleAfterReads reads of the keyed
// resource, or runs it immediately when settling is disabled. Callers
// must hold f.mu and must have rejected a still-pending key first.
func (f *FakeClient) stage(key string, apply func()) {
	if f.SettleAfterReads <= 0 {
		apply()
		return
	}
	f.pending[key] = &pendingOp{reads: f.SettleAfterReads, apply: apply}
}

// settleOnRead counts one read against the keyed resource's pending
// mutation, applying it when the countdown reaches zero. Callers must
// hold f.mu.
func (f *FakeClient) settleOnRead(key string) {
	p, ok := f.pending[key]
	if !ok {
		return
	}
	p.reads--
	if p.reads <= 0 {
		p.apply()
		delete(f.pending, key)
	}
}

func (f *FakeClient) busy(op string, kind Kind, key string) error {
	if _, ok := f.pending[key]; ok {
		return NewTransient(op, kind, fmt.Errorf("resource %q has an operation in progress", key))
	}
	return nil
}

func cloneServer(s *Server) Server {
	out := *s
	out.Disks = make([]Disk, len(s.Disks))
	copy(out.Disks, s.Disks)
	if s.SnapshotService != nil {
		snap := *s.SnapshotService
		out.SnapshotService = &snap
	}
	return out
}

// --- ServerAPI ---

func (f *FakeClient) ListServers(ctx context.Context) ([]Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("listServers", ""); err != nil {
		return nil, err
	}
	out := make([]Server, 0, len(f.Servers))
	for id := range f.Servers {
		f.settleOnRead(id)
	}
	for _, s := range f.Servers {
		out = append(out, cloneServer(s))
	}
	return out, nil
}

func (f *FakeClient) GetServer(ctx context.Context, id string) (Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("getServer", id); err != nil {
		return Server{}, err
	}
	f.settleOnRead(id)
	s, ok := f.Servers[id]
	if !ok {
		return Server{}, &NotFoundError{Kind: KindServer, Key: id}
	}
	return cloneServer(s), nil
}

func (f *FakeClient) GetServerByName(ctx context.Context, name string) (Server, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("getServerByName", name); err != nil {
		return Server{}, false, err
	}
	for id, s := range f.Servers {
		if s.Name == name {
			f.settleOnRead(id)
			if cur, ok := f.Servers[id]; ok {
				return cloneServer(cur), true, nil
			}
			return Server{}, false, nil
		}
	}
	return Server{}, false, nil
}

func (f *FakeClient) DeployServer(ctx context.Context, opts ServerDeployOpts) (ResourceRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("deployServer", opts.Name); err != nil {
		return ResourceRef{}, err
	}
	if opts.Name == "" {
		return ResourceRef{}, NewPermanent("deployServer", KindServer, fmt.Errorf("server name is required"))
	}
	if opts.Image == "" {
		return ResourceRef{}, NewPermanent("deployServer", KindServer, fmt.Errorf("image is required"))
	}

	id := f.newID("server")
	privateIPv4 := opts.PrivateIPv4
	if privateIPv4 == "" {
		privateIPv4 = fmt.Sprintf("10.0.0.%d", 10+f.nextID)
	}
	s := &Server{
		ID:            id,
		Name:          opts.Name,
		State:         StatePendingAdd,
		Started:       false,
		VMToolsStatus: VMToolsNotRunning,
		NetworkInfo: NetworkInfo{
			PrivateIPv4: privateIPv4,
			IPv6:        fmt.Sprintf("2001:db8::%d", f.nextID),
			VLANID:      opts.VLANID,
		},
		Disks: []Disk{{ID: f.newID("disk"), SizeGB: 10, Speed: SpeedStandard}},
	}
	f.Servers[id] = s
	f.stage(id, func() {
		s.State = StateNormal
		s.Started = opts.Start
		if opts.Start {
			s.VMToolsStatus = VMToolsRunning
		}
	})
	return ResourceRef{Kind: KindServer, ID: id}, nil
}

func (f *FakeClient) DeleteServer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("deleteServer", id); err != nil {
		return err
	}
	s, ok := f.Servers[id]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: id}
	}
	if err := f.busy("deleteServer", KindServer, id); err != nil {
		return err
	}
	s.State = StatePendingDelete
	f.stage(id, func() {
		delete(f.Servers, id)
	})
	return nil
}

func (f *FakeClient) StartServer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("startServer", id); err != nil {
		return err
	}
	s, ok := f.Servers[id]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: id}
	}
	if err := f.busy("startServer", KindServer, id); err != nil {
		return err
	}
	if s.Started {
		return NewPermanent("startServer", KindServer, fmt.Errorf("server %q is already started", id))
	}
	f.stage(id, func() {
		s.Started = true
		s.VMToolsStatus = VMToolsRunning
	})
	return nil
}

func (f *FakeClient) ShutdownServer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("shutdownServer", id); err != nil {
		return err
	}
	s, ok := f.Servers[id]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: id}
	}
	if err := f.busy("shutdownServer", KindServer, id); err != nil {
		return err
	}
	if !s.Started {
		return NewPermanent("shutdownServer", KindServer, fmt.Errorf("server %q is not started", id))
	}
	f.stage(id, func() {
		s.Started = false
		s.VMToolsStatus = VMToolsNotRunning
	})
	return nil
}

func (f *FakeClient) RebootServer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("rebootServer", id); err != nil {
		return err
	}
	s, ok := f.Servers[id]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: id}
	}
	if err := f.busy("rebootServer", KindServer, id); err != nil {
		return err
	}
	if !s.Started {
		return NewPermanent("rebootServer", KindServer, fmt.Errorf("server %q is not started", id))
	}
	// Guest tools drop during the reboot and come back once it is done.
	s.VMToolsStatus = VMToolsNotRunning
	f.stage(id, func() {
		s.Started = true
		s.VMToolsStatus = VMToolsRunning
	})
	return nil
}

// --- DiskAPI ---

// findDisk locates a disk and its owning server. Callers must hold f.mu.
func (f *FakeClient) findDisk(diskID string) (*Server, *Disk, bool) {
	for _, s := range f.Servers {
		for i := range s.Disks {
			if s.Disks[i].ID == diskID {
				return s, &s.Disks[i], true
			}
		}
	}
	return nil, nil, false
}

func validCapacity(op string, sizeGB, iops int, speed DiskSpeed) error {
	if sizeGB < 1 || sizeGB > config.MaxDiskSizeGB {
		return NewPermanent(op, KindDisk, fmt.Errorf("disk size %dGB outside [1, %d]", sizeGB, config.MaxDiskSizeGB))
	}
	if speed != SpeedProvisionedIOPS {
		return nil
	}
	if iops > config.MaxDiskIOPS {
		return NewPermanent(op, KindDisk, fmt.Errorf("disk iops %d exceeds maximum %d", iops, config.MaxDiskIOPS))
	}
	if iops < sizeGB*config.MinIOPSPerGB || iops > sizeGB*config.MaxIOPSPerGB {
		return NewPermanent(op, KindDisk, fmt.Errorf(
			"disk iops %d outside [%d, %d] for size %dGB",
			iops, sizeGB*config.MinIOPSPerGB, sizeGB*config.MaxIOPSPerGB, sizeGB))
	}
	return nil
}

func (f *FakeClient) ChangeDiskIOPS(ctx context.Context, diskID string, iops int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("changeDiskIops", diskID); err != nil {
		return err
	}
	s, d, ok := f.findDisk(diskID)
	if !ok {
		return &NotFoundError{Kind: KindDisk, Key: diskID}
	}
	if err := f.busy("changeDiskIops", KindDisk, s.ID); err != nil {
		return err
	}
	if d.Speed != SpeedProvisionedIOPS {
		return NewPermanent("changeDiskIops", KindDisk, fmt.Errorf("disk %q speed %s does not support IOPS changes", diskID, d.Speed))
	}
	if err := validCapacity("changeDiskIops", d.SizeGB, iops, d.Speed); err != nil {
		return err
	}
	s.State = StatePendingChange
	f.stage(s.ID, func() {
		d.IOPS = iops
		s.State = StateNormal
	})
	return nil
}

func (f *FakeClient) ChangeDiskSize(ctx context.Context, serverID, diskID string, sizeGB int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("changeDiskSize", diskID); err != nil {
		return err
	}
	s, ok := f.Servers[serverID]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: serverID}
	}
	var d *Disk
	for i := range s.Disks {
		if s.Disks[i].ID == diskID {
			d = &s.Disks[i]
		}
	}
	if d == nil {
		return &NotFoundError{Kind: KindDisk, Key: diskID}
	}
	if err := f.busy("changeDiskSize", KindDisk, s.ID); err != nil {
		return err
	}
	iops := d.IOPS
	if d.Speed != SpeedProvisionedIOPS {
		iops = 0
	}
	if err := validCapacity("changeDiskSize", sizeGB, iops, d.Speed); err != nil {
		return err
	}
	s.State = StatePendingChange
	f.stage(s.ID, func() {
		d.SizeGB = sizeGB
		s.State = StateNormal
	})
	return nil
}

func (f *FakeClient) ChangeDiskSpeed(ctx context.Context, diskID string, speed DiskSpeed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("changeDiskSpeed", diskID); err != nil {
		return err
	}
	s, d, ok := f.findDisk(diskID)
	if !ok {
		return &NotFoundError{Kind: KindDisk, Key: diskID}
	}
	if err := f.busy("changeDiskSpeed", KindDisk, s.ID); err != nil {
		return err
	}
	s.State = StatePendingChange
	f.stage(s.ID, func() {
		d.Speed = speed
		if speed == SpeedProvisionedIOPS {
			d.IOPS = d.SizeGB * config.MinIOPSPerGB
		} else {
			d.IOPS = 0
		}
		s.State = StateNormal
	})
	return nil
}

func (f *FakeClient) AddDisk(ctx context.Context, serverID string, opts DiskAddOpts) (ResourceRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("addDisk", serverID); err != nil {
		return ResourceRef{}, err
	}
	s, ok := f.Servers[serverID]
	if !ok {
		return ResourceRef{}, &NotFoundError{Kind: KindServer, Key: serverID}
	}
	if err := f.busy("addDisk", KindDisk, serverID); err != nil {
		return ResourceRef{}, err
	}
	iops := opts.IOPS
	if opts.Speed != SpeedProvisionedIOPS {
		iops = 0
	}
	if err := validCapacity("addDisk", opts.SizeGB, iops, opts.Speed); err != nil {
		return ResourceRef{}, err
	}
	id := f.newID("disk")
	s.State = StatePendingChange
	f.stage(serverID, func() {
		s.Disks = append(s.Disks, Disk{
			ID:               id,
			SizeGB:           opts.SizeGB,
			IOPS:             iops,
			Speed:            opts.Speed,
			SCSIControllerID: opts.SCSIControllerID,
		})
		s.State = StateNormal
	})
	return ResourceRef{Kind: KindDisk, ID: id}, nil
}

// --- NatAPI ---

func (f *FakeClient) ListNatRules(ctx context.Context) ([]NatRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("listNatRules", ""); err != nil {
		return nil, err
	}
	out := make([]NatRule, 0, len(f.NatRules))
	for _, r := range f.NatRules {
		out = append(out, *r)
	}
	return out, nil
}

func (f *FakeClient) CreateNatRule(ctx context.Context, internalIP, externalIP string) (ResourceRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("createNatRule", internalIP); err != nil {
		return ResourceRef{}, err
	}
	for _, r := range f.NatRules {
		if r.InternalIP == internalIP {
			return ResourceRef{}, NewPermanent("createNatRule", KindNatRule, fmt.Errorf("internal IP %q already has a NAT rule", internalIP))
		}
		if r.ExternalIP == externalIP {
			return ResourceRef{}, NewPermanent("createNatRule", KindNatRule, fmt.Errorf("external IP %q is already claimed", externalIP))
		}
	}
	id := f.newID("nat")
	f.NatRules[id] = &NatRule{ID: id, InternalIP: internalIP, ExternalIP: externalIP}
	return ResourceRef{Kind: KindNatRule, ID: id}, nil
}

func (f *FakeClient) DeleteNatRule(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("deleteNatRule", id); err != nil {
		return err
	}
	if _, ok := f.NatRules[id]; !ok {
		return &NotFoundError{Kind: KindNatRule, Key: id}
	}
	delete(f.NatRules, id)
	return nil
}

// --- FirewallAPI ---

func (f *FakeClient) ListFirewallRules(ctx context.Context) ([]FirewallRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("listFirewallRules", ""); err != nil {
		return nil, err
	}
	out := make([]FirewallRule, 0, len(f.FirewallRules))
	for _, r := range f.FirewallRules {
		out = append(out, *r)
	}
	return out, nil
}

func (f *FakeClient) CreateFirewallRule(ctx context.Context, spec FirewallRuleSpec) (ResourceRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("createFirewallRule", spec.Name); err != nil {
		return ResourceRef{}, err
	}
	if spec.Name == "" {
		return ResourceRef{}, NewPermanent("createFirewallRule", KindFirewallRule, fmt.Errorf("rule name is required"))
	}
	id := f.newID("fw")
	f.FirewallRules[id] = &FirewallRule{ID: id, FirewallRuleSpec: spec}
	return ResourceRef{Kind: KindFirewallRule, ID: id}, nil
}

func (f *FakeClient) UpdateFirewallRule(ctx context.Context, id string, spec FirewallRuleSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("updateFirewallRule", id); err != nil {
		return err
	}
	r, ok := f.FirewallRules[id]
	if !ok {
		return &NotFoundError{Kind: KindFirewallRule, Key: id}
	}
	r.FirewallRuleSpec = spec
	return nil
}

func (f *FakeClient) DeleteFirewallRule(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("deleteFirewallRule", id); err != nil {
		return err
	}
	if _, ok := f.FirewallRules[id]; !ok {
		return &NotFoundError{Kind: KindFirewallRule, Key: id}
	}
	delete(f.FirewallRules, id)
	return nil
}

// --- IPBlockAPI ---

func (f *FakeClient) ListPublicIPBlocks(ctx context.Context) ([]PublicIPBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("listPublicIpBlocks", ""); err != nil {
		return nil, err
	}
	out := make([]PublicIPBlock, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		out = append(out, *b)
	}
	return out, nil
}

func (f *FakeClient) AddPublicIPBlock(ctx context.Context) (ResourceRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("addPublicIpBlock", ""); err != nil {
		return ResourceRef{}, err
	}
	id := f.newID("block")
	f.Blocks[id] = &PublicIPBlock{ID: id, BaseIP: f.nextBlockAddr.String(), Size: f.BlockSize}
	for i := 0; i < f.BlockSize; i++ {
		f.nextBlockAddr = f.nextBlockAddr.Next()
	}
	return ResourceRef{Kind: KindPublicIPBlock, ID: id}, nil
}

func (f *FakeClient) GetPublicIPBlock(ctx context.Context, id string) (PublicIPBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("getPublicIpBlock", id); err != nil {
		return PublicIPBlock{}, err
	}
	b, ok := f.Blocks[id]
	if !ok {
		return PublicIPBlock{}, &NotFoundError{Kind: KindPublicIPBlock, Key: id}
	}
	return *b, nil
}

func (f *FakeClient) DeletePublicIPBlock(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("deletePublicIpBlock", id); err != nil {
		return err
	}
	b, ok := f.Blocks[id]
	if !ok {
		return &NotFoundError{Kind: KindPublicIPBlock, Key: id}
	}
	addrs, err := b.Addresses()
	if err != nil {
		return NewPermanent("deletePublicIpBlock", KindPublicIPBlock, err)
	}
	for _, addr := range addrs {
		for _, r := range f.NatRules {
			if r.ExternalIP == addr {
				return NewPermanent("deletePublicIpBlock", KindPublicIPBlock, fmt.Errorf("address %s is referenced by NAT rule %s", addr, r.ID))
			}
		}
		for _, l := range f.Listeners {
			if l.ListenerIP == addr {
				return NewPermanent("deletePublicIpBlock", KindPublicIPBlock, fmt.Errorf("address %s is referenced by listener %s", addr, l.ID))
			}
		}
	}
	delete(f.Blocks, id)
	return nil
}

// --- VIPAPI ---

func (f *FakeClient) ListVIPListeners(ctx context.Context) ([]VIPListener, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("listVipListeners", ""); err != nil {
		return nil, err
	}
	out := make([]VIPListener, 0, len(f.Listeners))
	for _, l := range f.Listeners {
		out = append(out, *l)
	}
	return out, nil
}

// --- RouteAPI ---

func (f *FakeClient) ListStaticRoutes(ctx context.Context) ([]StaticRoute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("listStaticRoutes", ""); err != nil {
		return nil, err
	}
	out := make([]StaticRoute, 0, len(f.Routes))
	for _, r := range f.Routes {
		out = append(out, *r)
	}
	return out, nil
}

func (f *FakeClient) CreateStaticRoute(ctx context.Context, spec StaticRouteSpec) (ResourceRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("createStaticRoute", spec.Name); err != nil {
		return ResourceRef{}, err
	}
	if spec.Name == "" {
		return ResourceRef{}, NewPermanent("createStaticRoute", KindStaticRoute, fmt.Errorf("route name is required"))
	}
	for _, r := range f.Routes {
		if r.Name == spec.Name {
			return ResourceRef{}, NewPermanent("createStaticRoute", KindStaticRoute, fmt.Errorf("route name %q already exists", spec.Name))
		}
	}
	id := f.newID("route")
	f.Routes[id] = &StaticRoute{ID: id, StaticRouteSpec: spec}
	return ResourceRef{Kind: KindStaticRoute, ID: id}, nil
}

func (f *FakeClient) DeleteStaticRoute(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("deleteStaticRoute", id); err != nil {
		return err
	}
	if _, ok := f.Routes[id]; !ok {
		return &NotFoundError{Kind: KindStaticRoute, Key: id}
	}
	delete(f.Routes, id)
	return nil
}

// --- SnapshotAPI ---

func (f *FakeClient) EnableSnapshotService(ctx context.Context, serverID, plan string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("enableSnapshotService", serverID); err != nil {
		return err
	}
	s, ok := f.Servers[serverID]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: serverID}
	}
	if err := f.busy("enableSnapshotService", KindSnapshotConfig, serverID); err != nil {
		return err
	}
	if s.SnapshotService != nil {
		return NewPermanent("enableSnapshotService", KindSnapshotConfig, fmt.Errorf("snapshot service already enabled for server %q", serverID))
	}
	s.SnapshotService = &SnapshotState{State: StatePendingAdd, Plan: plan}
	f.stage(serverID, func() {
		s.SnapshotService.State = StateNormal
	})
	return nil
}

func (f *FakeClient) DisableSnapshotService(ctx context.Context, serverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("disableSnapshotService", serverID); err != nil {
		return err
	}
	s, ok := f.Servers[serverID]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: serverID}
	}
	if err := f.busy("disableSnapshotService", KindSnapshotConfig, serverID); err != nil {
		return err
	}
	if s.SnapshotService == nil {
		return NewPermanent("disableSnapshotService", KindSnapshotConfig, fmt.Errorf("snapshot service not enabled for server %q", serverID))
	}
	s.SnapshotService.State = StatePendingDelete
	f.stage(serverID, func() {
		s.SnapshotService = nil
	})
	return nil
}

func (f *FakeClient) DisableSnapshotReplication(ctx context.Context, serverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("disableSnapshotReplication", serverID); err != nil {
		return err
	}
	s, ok := f.Servers[serverID]
	if !ok {
		return &NotFoundError{Kind: KindServer, Key: serverID}
	}
	if err := f.busy("disableSnapshotReplication", KindSnapshotConfig, serverID); err != nil {
		return err
	}
	if s.SnapshotService == nil {
		return NewPermanent("disableSnapshotReplication", KindSnapshotConfig, fmt.Errorf("snapshot service not enabled for server %q", serverID))
	}
	if !s.SnapshotService.ReplicationEnabled {
		return NewPermanent("disableSnapshotReplication", KindSnapshotConfig, fmt.Errorf("replication not enabled for server %q", serverID))
	}
	s.SnapshotService.State = StatePendingChange
	f.stage(serverID, func() {
		s.SnapshotService.ReplicationEnabled = false
		s.SnapshotService.State = StateNormal
	})
	return nil
}
