package reconcile

import (
	"context"
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// NatBinding is the desired association between an internal address and
// a public one. ExternalIP may be left empty, meaning any public
// address will do: an existing translation for the internal IP is
// reused as is, and a fresh address is allocated only when none exists.
type NatBinding struct {
	InternalIP string
	ExternalIP string
}

// NatResult reports how a NAT binding was satisfied. Displaced lists
// the conflicting rules that were removed to make room, or would be in
// a dry run. AllocatedBlock is set when satisfying the binding
// provisioned a new public address block. In a dry run that would
// provision a block, Rule.ExternalIP is empty because the remote
// system picks the address.
type NatResult struct {
	Rule           cloudcontrol.NatRule
	Changed        bool
	Displaced      []cloudcontrol.NatRule
	AllocatedBlock *cloudcontrol.PublicIPBlock
}

// EnsureNat converges the NAT table to the given binding. An existing
// rule matching the binding exactly is returned unchanged with no
// remote mutation. Rules that conflict on either key, the internal IP
// translated elsewhere or the external IP claimed by another internal
// IP, are removed before the new rule is created; last writer wins. A
// key matching several rules at once is a *ConflictError.
func (r *Reconciler) EnsureNat(ctx context.Context, binding NatBinding, dryRun bool) (NatResult, error) {
	if binding.InternalIP == "" {
		return NatResult{}, fmt.Errorf("ensure nat: internal IP is required")
	}
	rules, err := r.client.ListNatRules(ctx)
	if err != nil {
		return NatResult{}, fmt.Errorf("listing NAT rules: %w", err)
	}

	var byInternal []cloudcontrol.NatRule
	for _, rule := range rules {
		if rule.InternalIP == binding.InternalIP {
			byInternal = append(byInternal, rule)
		}
	}
	if len(byInternal) > 1 {
		return NatResult{}, &ConflictError{
			Kind:    cloudcontrol.KindNatRule,
			Key:     binding.InternalIP,
			Matches: natIDs(byInternal),
		}
	}

	external := binding.ExternalIP
	var byExternal []cloudcontrol.NatRule
	if external == "" {
		// Any translation satisfies the binding.
		if len(byInternal) == 1 {
			recordEnsure(cloudcontrol.KindNatRule, outcomeUnchanged)
			return NatResult{Rule: byInternal[0]}, nil
		}
	} else {
		for _, rule := range rules {
			if rule.ExternalIP == external {
				byExternal = append(byExternal, rule)
			}
		}
		if len(byExternal) > 1 {
			return NatResult{}, &ConflictError{
				Kind:    cloudcontrol.KindNatRule,
				Key:     external,
				Matches: natIDs(byExternal),
			}
		}
		if len(byInternal) == 1 && byInternal[0].ExternalIP == external {
			recordEnsure(cloudcontrol.KindNatRule, outcomeUnchanged)
			return NatResult{Rule: byInternal[0]}, nil
		}
	}

	displaced := append([]cloudcontrol.NatRule(nil), byInternal...)
	for _, rule := range byExternal {
		if len(byInternal) == 0 || rule.ID != byInternal[0].ID {
			displaced = append(displaced, rule)
		}
	}
	result := NatResult{Changed: true, Displaced: displaced}

	if external == "" {
		addr, block, err := r.AllocatePublicIPv4(ctx, dryRun)
		if err != nil {
			return NatResult{}, err
		}
		external = addr
		result.AllocatedBlock = block
	}
	result.Rule = cloudcontrol.NatRule{InternalIP: binding.InternalIP, ExternalIP: external}

	if dryRun {
		r.log.Info("dry run: would bind NAT translation",
			"internalIP", binding.InternalIP, "externalIP", external, "displaced", len(displaced))
		return result, nil
	}

	for _, rule := range displaced {
		r.log.Info("removing conflicting NAT rule",
			"id", rule.ID, "internalIP", rule.InternalIP, "externalIP", rule.ExternalIP)
		if err := r.client.DeleteNatRule(ctx, rule.ID); err != nil {
			return NatResult{}, fmt.Errorf("removing conflicting NAT rule %s: %w", rule.ID, err)
		}
	}

	ref, err := r.client.CreateNatRule(ctx, binding.InternalIP, external)
	if err != nil {
		return NatResult{}, fmt.Errorf("creating NAT rule: %w", err)
	}
	result.Rule.ID = ref.ID
	if created, found, err := r.natByID(ctx, ref.ID); err != nil {
		return NatResult{}, err
	} else if found {
		result.Rule = created
	}
	recordEnsure(cloudcontrol.KindNatRule, outcomeCreated)
	r.log.Info("created NAT rule",
		"id", result.Rule.ID, "internalIP", result.Rule.InternalIP, "externalIP", result.Rule.ExternalIP)
	return result, nil
}

// AllocatePublicIPv4 returns a public address referenced by no NAT rule
// and no VIP listener. Allocation has two tiers: a free address in an
// already-owned block is reused first; only when every owned address is
// taken is a new block provisioned, returned alongside its base
// address. A dry run that would provision returns an empty address and
// nil block.
func (r *Reconciler) AllocatePublicIPv4(ctx context.Context, dryRun bool) (string, *cloudcontrol.PublicIPBlock, error) {
	blocks, err := r.client.ListPublicIPBlocks(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("listing public IP blocks: %w", err)
	}
	used, err := r.usedPublicAddresses(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, b := range blocks {
		addrs, err := b.Addresses()
		if err != nil {
			return "", nil, fmt.Errorf("expanding block %s: %w", b.ID, err)
		}
		for _, addr := range addrs {
			if !used[addr] {
				r.log.V(1).Info("reusing free public address", "address", addr, "block", b.ID)
				return addr, nil, nil
			}
		}
	}

	if dryRun {
		return "", nil, nil
	}
	ref, err := r.client.AddPublicIPBlock(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("provisioning public IP block: %w", err)
	}
	block, err := r.client.GetPublicIPBlock(ctx, ref.ID)
	if err != nil {
		return "", nil, fmt.Errorf("reading provisioned block %s: %w", ref.ID, err)
	}
	addrs, err := block.Addresses()
	if err != nil {
		return "", nil, fmt.Errorf("expanding provisioned block %s: %w", block.ID, err)
	}
	if len(addrs) == 0 {
		return "", nil, fmt.Errorf("provisioned block %s has no addresses", block.ID)
	}
	recordBlockProvisioned()
	r.log.Info("provisioned public IP block", "block", block.ID, "baseIP", block.BaseIP, "size", block.Size)
	return addrs[0], &block, nil
}

// usedPublicAddresses re-queries every consumer kind that can hold a
// public address.
func (r *Reconciler) usedPublicAddresses(ctx context.Context) (map[string]bool, error) {
	rules, err := r.client.ListNatRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing NAT rules: %w", err)
	}
	listeners, err := r.client.ListVIPListeners(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing VIP listeners: %w", err)
	}
	used := make(map[string]bool, len(rules)+len(listeners))
	for _, rule := range rules {
		used[rule.ExternalIP] = true
	}
	for _, l := range listeners {
		used[l.ListenerIP] = true
	}
	return used, nil
}

// ReleaseNat deletes the NAT rules matching the binding. A binding
// with both keys set matches exactly; with one key set it matches that
// key alone, so teardown can locate a translation by internal IP while
// the server still exists or by external IP after it is gone. The
// deleted rules are returned so callers can release the addresses they
// held. No matching rule is a successful release.
func (r *Reconciler) ReleaseNat(ctx context.Context, binding NatBinding, dryRun bool) ([]cloudcontrol.NatRule, error) {
	if binding.InternalIP == "" && binding.ExternalIP == "" {
		return nil, fmt.Errorf("release nat: at least one key is required")
	}
	rules, err := r.client.ListNatRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing NAT rules: %w", err)
	}

	var matched []cloudcontrol.NatRule
	for _, rule := range rules {
		if binding.InternalIP != "" && rule.InternalIP != binding.InternalIP {
			continue
		}
		if binding.ExternalIP != "" && rule.ExternalIP != binding.ExternalIP {
			continue
		}
		matched = append(matched, rule)
	}
	if len(matched) == 0 {
		recordRelease(outcomeAbsent)
		return nil, nil
	}

	if dryRun {
		r.log.Info("dry run: would release NAT rules", "count", len(matched))
		return matched, nil
	}
	for _, rule := range matched {
		if err := r.client.DeleteNatRule(ctx, rule.ID); err != nil {
			if cloudcontrol.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("deleting NAT rule %s: %w", rule.ID, err)
		}
		r.log.Info("released NAT rule",
			"id", rule.ID, "internalIP", rule.InternalIP, "externalIP", rule.ExternalIP)
	}
	recordRelease(outcomeReleased)
	return matched, nil
}

// natByID re-reads a rule after creation. The API lists NAT rules but
// has no get-by-id call.
func (r *Reconciler) natByID(ctx context.Context, id string) (cloudcontrol.NatRule, bool, error) {
	rules, err := r.client.ListNatRules(ctx)
	if err != nil {
		return cloudcontrol.NatRule{}, false, fmt.Errorf("listing NAT rules: %w", err)
	}
	for _, rule := range rules {
		if rule.ID == id {
			return rule, true, nil
		}
	}
	return cloudcontrol.NatRule{}, false, nil
}

func natIDs(rules []cloudcontrol.NatRule) []string {
	ids := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID
	}
	return ids
}
