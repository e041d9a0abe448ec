package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

func sshRule() cloudcontrol.FirewallRuleSpec {
	return cloudcontrol.FirewallRuleSpec{
		Name:            "Ipv4.Internet.to.Gateway.SSH",
		Action:          "ACCEPT_DECISIVELY",
		Protocol:        "TCP",
		SourceIP:        "ANY",
		DestinationIP:   "198.51.100.7",
		DestinationPort: 22,
		Enabled:         true,
		Placement:       "FIRST",
	}
}

func TestEnsureFirewallRule_CreatesWhenMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	r := NewReconciler(fake)

	got, err := r.EnsureFirewallRule(ctx, sshRule(), false)
	require.NoError(t, err)
	assert.True(t, got.Changed)
	assert.NotEmpty(t, got.Rule.ID)
	assert.Equal(t, []string{"createFirewallRule Ipv4.Internet.to.Gateway.SSH"}, fake.MutationCalls())
}

func TestEnsureFirewallRule_ExactMatchIsReadOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.CreateFirewallRule(ctx, sshRule())
	require.NoError(t, err)
	fake.ResetCalls()

	r := NewReconciler(fake)
	got, err := r.EnsureFirewallRule(ctx, sshRule(), false)
	require.NoError(t, err)
	assert.False(t, got.Changed)
	assert.Equal(t, ref.ID, got.Rule.ID)
	assert.Empty(t, fake.MutationCalls())
}

func TestEnsureFirewallRule_UpdatesDivergentInPlace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.CreateFirewallRule(ctx, sshRule())
	require.NoError(t, err)
	fake.ResetCalls()

	// The gateway's public address moved.
	desired := sshRule()
	desired.DestinationIP = "198.51.100.9"

	r := NewReconciler(fake)
	got, err := r.EnsureFirewallRule(ctx, desired, false)
	require.NoError(t, err)
	assert.True(t, got.Changed)
	assert.Equal(t, ref.ID, got.Rule.ID, "the rule keeps its identity across an update")
	assert.Equal(t, []string{"updateFirewallRule " + ref.ID}, fake.MutationCalls())
	assert.Equal(t, desired, fake.FirewallRules[ref.ID].FirewallRuleSpec)
}

func TestEnsureFirewallRule_DryRunMutatesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.CreateFirewallRule(ctx, sshRule())
	require.NoError(t, err)
	fake.ResetCalls()

	desired := sshRule()
	desired.DestinationPort = 2222

	r := NewReconciler(fake)
	got, err := r.EnsureFirewallRule(ctx, desired, true)
	require.NoError(t, err)
	assert.True(t, got.Changed)
	assert.Equal(t, desired, got.Rule.FirewallRuleSpec, "the result describes the would-be shape")
	assert.Empty(t, fake.MutationCalls())
	assert.Equal(t, 22, fake.FirewallRules[ref.ID].DestinationPort)
}

func TestEnsureFirewallRule_DuplicateNamesConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	spec := sshRule()
	fake.FirewallRules["fw-a"] = &cloudcontrol.FirewallRule{ID: "fw-a", FirewallRuleSpec: spec}
	fake.FirewallRules["fw-b"] = &cloudcontrol.FirewallRule{ID: "fw-b", FirewallRuleSpec: spec}

	r := NewReconciler(fake)
	_, err := r.EnsureFirewallRule(ctx, spec, false)
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, cloudcontrol.KindFirewallRule, conflict.Kind)
	assert.ElementsMatch(t, []string{"fw-a", "fw-b"}, conflict.Matches)
	assert.Empty(t, fake.MutationCalls())
}

func TestEnsureFirewallRule_RequiresName(t *testing.T) {
	t.Parallel()

	r := NewReconciler(cloudcontrol.NewFakeClient())
	_, err := r.EnsureFirewallRule(context.Background(), cloudcontrol.FirewallRuleSpec{}, false)
	assert.ErrorContains(t, err, "name is required")
}

func TestReleaseFirewallRule_DeletesByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.CreateFirewallRule(ctx, sshRule())
	require.NoError(t, err)
	fake.ResetCalls()

	r := NewReconciler(fake)
	rule, released, err := r.ReleaseFirewallRule(ctx, sshRule().Name, false)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, ref.ID, rule.ID)
	assert.Empty(t, fake.FirewallRules)
}

func TestReleaseFirewallRule_AbsentIsSuccess(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	r := NewReconciler(fake)

	_, released, err := r.ReleaseFirewallRule(context.Background(), "no-such-rule", false)
	require.NoError(t, err)
	assert.False(t, released)
	assert.Empty(t, fake.MutationCalls())
}

func TestReleaseFirewallRule_DryRunDeletesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.CreateFirewallRule(ctx, sshRule())
	require.NoError(t, err)
	fake.ResetCalls()

	r := NewReconciler(fake)
	rule, released, err := r.ReleaseFirewallRule(ctx, sshRule().Name, true)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, ref.ID, rule.ID)
	assert.Empty(t, fake.MutationCalls())
	assert.Len(t, fake.FirewallRules, 1)
}

func TestReleaseFirewallRule_DuplicateNamesConflict(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	spec := sshRule()
	fake.FirewallRules["fw-a"] = &cloudcontrol.FirewallRule{ID: "fw-a", FirewallRuleSpec: spec}
	fake.FirewallRules["fw-b"] = &cloudcontrol.FirewallRule{ID: "fw-b", FirewallRuleSpec: spec}

	r := NewReconciler(fake)
	_, _, err := r.ReleaseFirewallRule(context.Background(), spec.Name, false)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, fake.MutationCalls())
}
