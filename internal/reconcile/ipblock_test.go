package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

func TestReleasePublicIPBlock_InUseGuard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.AddPublicIPBlock(ctx)
	require.NoError(t, err)
	natRef, err := fake.CreateNatRule(ctx, "10.0.0.5", "203.0.113.0")
	require.NoError(t, err)
	fake.ResetCalls()

	r := NewReconciler(fake)
	err = r.ReleasePublicIPBlock(ctx, ref.ID, false)
	require.Error(t, err)

	var inUse *InUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, cloudcontrol.KindPublicIPBlock, inUse.Kind)
	assert.Equal(t, []string{"natRule/" + natRef.ID}, inUse.Holders)

	assert.Empty(t, fake.MutationCalls(), "a blocked release must not issue a delete")
	assert.Contains(t, fake.Blocks, ref.ID)
}

func TestReleasePublicIPBlock_ListenerHolds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.AddPublicIPBlock(ctx)
	require.NoError(t, err)
	fake.Listeners["vip-1"] = &cloudcontrol.VIPListener{ID: "vip-1", Name: "web", ListenerIP: "203.0.113.1"}

	r := NewReconciler(fake)
	err = r.ReleasePublicIPBlock(ctx, ref.ID, false)

	var inUse *InUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, []string{"vipListener/vip-1"}, inUse.Holders)
}

func TestReleasePublicIPBlock_FreeBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.AddPublicIPBlock(ctx)
	require.NoError(t, err)
	fake.ResetCalls()

	r := NewReconciler(fake)
	require.NoError(t, r.ReleasePublicIPBlock(ctx, ref.ID, false))
	assert.Equal(t, []string{"deletePublicIpBlock " + ref.ID}, fake.MutationCalls())
	assert.Empty(t, fake.Blocks)
}

func TestReleasePublicIPBlock_AbsentIsSuccess(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	r := NewReconciler(fake)
	assert.NoError(t, r.ReleasePublicIPBlock(context.Background(), "block-404", false))
	assert.Empty(t, fake.MutationCalls())
}

func TestReleasePublicIPBlock_DryRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.AddPublicIPBlock(ctx)
	require.NoError(t, err)
	fake.ResetCalls()

	r := NewReconciler(fake)
	require.NoError(t, r.ReleasePublicIPBlock(ctx, ref.ID, true))
	assert.Empty(t, fake.MutationCalls())
	assert.Contains(t, fake.Blocks, ref.ID)
}

// TestReleasePublicIPBlock_RechecksAtDeleteTime walks the full shared
// life of a block: provisioned for a NAT binding, blocked from release
// while the binding lives, gone once it does not.
func TestReleasePublicIPBlock_RechecksAtDeleteTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	r := NewReconciler(fake)

	got, err := r.EnsureNat(ctx, NatBinding{InternalIP: "10.0.0.5"}, false)
	require.NoError(t, err)
	require.NotNil(t, got.AllocatedBlock)
	blockID := got.AllocatedBlock.ID

	var inUse *InUseError
	err = r.ReleasePublicIPBlock(ctx, blockID, false)
	require.ErrorAs(t, err, &inUse, "the binding created moments ago still holds the block")

	require.NoError(t, fake.DeleteNatRule(ctx, got.Rule.ID))
	require.NoError(t, r.ReleasePublicIPBlock(ctx, blockID, false))
	assert.Empty(t, fake.Blocks)
}

func TestFindPublicIPBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := cloudcontrol.NewFakeClient()
	ref, err := fake.AddPublicIPBlock(ctx)
	require.NoError(t, err)

	r := NewReconciler(fake)

	// Any address of the block resolves to it, not just the base.
	block, found, err := r.FindPublicIPBlock(ctx, "203.0.113.1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ref.ID, block.ID)

	_, found, err = r.FindPublicIPBlock(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, found)
}
