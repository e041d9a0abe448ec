package reconcile

import (
	"context"
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// RuleResult reports how a firewall rule ensure was satisfied.
type RuleResult struct {
	Rule    cloudcontrol.FirewallRule
	Changed bool
}

// EnsureFirewallRule converges the rule with spec's name to spec's
// shape. An exact match is returned unchanged with no remote mutation;
// a divergent rule is updated in place; a missing rule is created. The
// name is the binding key, so several existing rules sharing it is a
// *ConflictError.
func (r *Reconciler) EnsureFirewallRule(ctx context.Context, spec cloudcontrol.FirewallRuleSpec, dryRun bool) (RuleResult, error) {
	if spec.Name == "" {
		return RuleResult{}, fmt.Errorf("ensure firewall rule: name is required")
	}
	rules, err := r.client.ListFirewallRules(ctx)
	if err != nil {
		return RuleResult{}, fmt.Errorf("listing firewall rules: %w", err)
	}
	var matches []cloudcontrol.FirewallRule
	for _, rule := range rules {
		if rule.Name == spec.Name {
			matches = append(matches, rule)
		}
	}
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, rule := range matches {
			ids[i] = rule.ID
		}
		return RuleResult{}, &ConflictError{Kind: cloudcontrol.KindFirewallRule, Key: spec.Name, Matches: ids}
	}

	if len(matches) == 1 {
		existing := matches[0]
		if existing.FirewallRuleSpec == spec {
			recordEnsure(cloudcontrol.KindFirewallRule, outcomeUnchanged)
			return RuleResult{Rule: existing}, nil
		}
		result := RuleResult{
			Rule:    cloudcontrol.FirewallRule{ID: existing.ID, FirewallRuleSpec: spec},
			Changed: true,
		}
		if dryRun {
			r.log.Info("dry run: would update firewall rule", "name", spec.Name, "id", existing.ID)
			return result, nil
		}
		if err := r.client.UpdateFirewallRule(ctx, existing.ID, spec); err != nil {
			return RuleResult{}, fmt.Errorf("updating firewall rule %s: %w", existing.ID, err)
		}
		recordEnsure(cloudcontrol.KindFirewallRule, outcomeUpdated)
		r.log.Info("updated firewall rule", "name", spec.Name, "id", existing.ID)
		return result, nil
	}

	result := RuleResult{Rule: cloudcontrol.FirewallRule{FirewallRuleSpec: spec}, Changed: true}
	if dryRun {
		r.log.Info("dry run: would create firewall rule", "name", spec.Name)
		return result, nil
	}
	ref, err := r.client.CreateFirewallRule(ctx, spec)
	if err != nil {
		return RuleResult{}, fmt.Errorf("creating firewall rule: %w", err)
	}
	result.Rule.ID = ref.ID
	recordEnsure(cloudcontrol.KindFirewallRule, outcomeCreated)
	r.log.Info("created firewall rule", "name", spec.Name, "id", ref.ID)
	return result, nil
}

// ReleaseFirewallRule deletes the rule with the given name. The
// deleted rule is returned so callers can learn the destination it
// protected. No matching rule is a successful release; several rules
// sharing the name is a *ConflictError, the same ambiguity ensure
// refuses to guess through.
func (r *Reconciler) ReleaseFirewallRule(ctx context.Context, name string, dryRun bool) (cloudcontrol.FirewallRule, bool, error) {
	if name == "" {
		return cloudcontrol.FirewallRule{}, false, fmt.Errorf("release firewall rule: name is required")
	}
	rules, err := r.client.ListFirewallRules(ctx)
	if err != nil {
		return cloudcontrol.FirewallRule{}, false, fmt.Errorf("listing firewall rules: %w", err)
	}
	var matches []cloudcontrol.FirewallRule
	for _, rule := range rules {
		if rule.Name == name {
			matches = append(matches, rule)
		}
	}
	if len(matches) == 0 {
		recordRelease(outcomeAbsent)
		return cloudcontrol.FirewallRule{}, false, nil
	}
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, rule := range matches {
			ids[i] = rule.ID
		}
		return cloudcontrol.FirewallRule{}, false, &ConflictError{Kind: cloudcontrol.KindFirewallRule, Key: name, Matches: ids}
	}

	rule := matches[0]
	if dryRun {
		r.log.Info("dry run: would release firewall rule", "name", name, "id", rule.ID)
		return rule, true, nil
	}
	if err := r.client.DeleteFirewallRule(ctx, rule.ID); err != nil && !cloudcontrol.IsNotFound(err) {
		return cloudcontrol.FirewallRule{}, false, fmt.Errorf("deleting firewall rule %s: %w", rule.ID, err)
	}
	recordRelease(outcomeReleased)
	r.log.Info("released firewall rule", "name", name, "id", rule.ID)
	return rule, true, nil
}
