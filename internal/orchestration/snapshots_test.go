package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	ccsteertesting "github.com/mbrennan-au/ccsteer/internal/testing"
)

func TestEnableSnapshotService_WaitsForNormal(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	fake.SettleAfterReads = 2
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	got, err := EnableSnapshotService(rc, "app", "ONE_MONTH")
	require.NoError(t, err)

	assert.True(t, got.Changed)
	require.NotNil(t, got.Service)
	assert.Equal(t, cloudcontrol.StateNormal, got.Service.State)
	assert.Equal(t, "ONE_MONTH", got.Service.Plan)
}

func TestEnableSnapshotService_SamePlanIsReadOnly(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithSnapshotService("ONE_MONTH", false).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	got, err := EnableSnapshotService(rc, "app", "ONE_MONTH")
	require.NoError(t, err)

	assert.False(t, got.Changed)
	assert.Empty(t, fake.MutationCalls())
}

func TestEnableSnapshotService_DifferentPlanIsAnError(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithSnapshotService("ONE_MONTH", false).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	_, err := EnableSnapshotService(rc, "app", "ONE_WEEK")
	assert.ErrorContains(t, err, "already has snapshot plan")
	assert.Empty(t, fake.MutationCalls())
}

func TestDisableSnapshotService_WaitsForAbsence(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	fake.SettleAfterReads = 2
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithSnapshotService("ONE_MONTH", false).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	got, err := DisableSnapshotService(rc, "app")
	require.NoError(t, err)

	assert.True(t, got.Changed)
	assert.Nil(t, fake.Servers["server-1"].SnapshotService)
}

func TestDisableSnapshotService_AbsentIsReadOnly(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	got, err := DisableSnapshotService(rc, "app")
	require.NoError(t, err)

	assert.False(t, got.Changed)
	assert.Empty(t, fake.MutationCalls())
}

func TestDisableSnapshotReplication_WaitsForNormal(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	fake.SettleAfterReads = 2
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithSnapshotService("ONE_MONTH", true).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	got, err := DisableSnapshotReplication(rc, "app")
	require.NoError(t, err)

	assert.True(t, got.Changed)
	require.NotNil(t, got.Service)
	assert.False(t, got.Service.ReplicationEnabled)
	assert.Equal(t, cloudcontrol.StateNormal, got.Service.State)
}

func TestDisableSnapshotReplication_AlreadyOffIsReadOnly(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithSnapshotService("ONE_MONTH", false).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	got, err := DisableSnapshotReplication(rc, "app")
	require.NoError(t, err)

	assert.False(t, got.Changed)
	assert.Empty(t, fake.MutationCalls())
}

func TestDisableSnapshotReplication_NoServiceIsTypedNotFound(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	_, err := DisableSnapshotReplication(rc, "app")
	assert.True(t, cloudcontrol.IsNotFound(err), "want typed NotFound, got %v", err)
}
