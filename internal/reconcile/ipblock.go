package reconcile

import (
	"context"
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// FindPublicIPBlock returns the owned block containing addr, listing
// and filtering client-side.
func (r *Reconciler) FindPublicIPBlock(ctx context.Context, addr string) (cloudcontrol.PublicIPBlock, bool, error) {
	blocks, err := r.client.ListPublicIPBlocks(ctx)
	if err != nil {
		return cloudcontrol.PublicIPBlock{}, false, fmt.Errorf("listing public IP blocks: %w", err)
	}
	for _, b := range blocks {
		addrs, err := b.Addresses()
		if err != nil {
			return cloudcontrol.PublicIPBlock{}, false, fmt.Errorf("expanding block %s: %w", b.ID, err)
		}
		for _, a := range addrs {
			if a == addr {
				return b, true, nil
			}
		}
	}
	return cloudcontrol.PublicIPBlock{}, false, nil
}

// ReleasePublicIPBlock deletes the identified block unless any of its
// addresses is still referenced. NAT rules and VIP listeners are
// re-queried at call time, never trusted from an earlier ensure, so a
// reference created in between still blocks the release. A block that
// no longer exists is a successful release.
func (r *Reconciler) ReleasePublicIPBlock(ctx context.Context, blockID string, dryRun bool) error {
	block, err := r.client.GetPublicIPBlock(ctx, blockID)
	if err != nil {
		if cloudcontrol.IsNotFound(err) {
			recordRelease(outcomeAbsent)
			return nil
		}
		return fmt.Errorf("reading public IP block %s: %w", blockID, err)
	}
	addrs, err := block.Addresses()
	if err != nil {
		return fmt.Errorf("expanding block %s: %w", blockID, err)
	}
	inBlock := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		inBlock[a] = true
	}

	rules, err := r.client.ListNatRules(ctx)
	if err != nil {
		return fmt.Errorf("listing NAT rules: %w", err)
	}
	listeners, err := r.client.ListVIPListeners(ctx)
	if err != nil {
		return fmt.Errorf("listing VIP listeners: %w", err)
	}

	var holders []string
	for _, rule := range rules {
		if inBlock[rule.ExternalIP] {
			holders = append(holders, cloudcontrol.ResourceRef{Kind: cloudcontrol.KindNatRule, ID: rule.ID}.String())
		}
	}
	for _, l := range listeners {
		if inBlock[l.ListenerIP] {
			holders = append(holders, cloudcontrol.ResourceRef{Kind: cloudcontrol.KindVIPListener, ID: l.ID}.String())
		}
	}
	if len(holders) > 0 {
		recordRelease(outcomeInUse)
		return &InUseError{Kind: cloudcontrol.KindPublicIPBlock, Key: blockID, Holders: holders}
	}

	if dryRun {
		r.log.Info("dry run: would release public IP block", "block", blockID, "baseIP", block.BaseIP)
		return nil
	}
	if err := r.client.DeletePublicIPBlock(ctx, blockID); err != nil {
		return fmt.Errorf("deleting public IP block %s: %w", blockID, err)
	}
	recordRelease(outcomeReleased)
	r.log.Info("released public IP block", "block", blockID, "baseIP", block.BaseIP)
	return nil
}
