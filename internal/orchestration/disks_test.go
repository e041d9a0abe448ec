package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	"github.com/mbrennan-au/ccsteer/internal/resize"
	ccsteertesting "github.com/mbrennan-au/ccsteer/internal/testing"
)

func TestAddDisk_WaitsForAttach(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	fake.SettleAfterReads = 2
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	disk, err := AddDisk(rc, "app", cloudcontrol.DiskAddOpts{
		SizeGB: 50,
		Speed:  cloudcontrol.SpeedHighPerformance,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, disk.ID, "the returned disk is the observed one")
	assert.Equal(t, 50, disk.SizeGB)
	assert.Len(t, fake.Servers["server-1"].Disks, 2)
	assert.Equal(t, cloudcontrol.StateNormal, fake.Servers["server-1"].State)
}

func TestAddDisk_DefaultsProvisionedIOPSToSizeMinimum(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	disk, err := AddDisk(rc, "app", cloudcontrol.DiskAddOpts{
		SizeGB: 20,
		Speed:  cloudcontrol.SpeedProvisionedIOPS,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, disk.IOPS, "unset IOPS defaults to size times the band minimum")
}

func TestAddDisk_DryRunMutatesNothing(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake, WithDryRun(true))
	disk, err := AddDisk(rc, "app", cloudcontrol.DiskAddOpts{SizeGB: 50, Speed: cloudcontrol.SpeedStandard})
	require.NoError(t, err)

	assert.Empty(t, disk.ID, "no disk was created, only described")
	assert.Empty(t, fake.MutationCalls())
	assert.Len(t, fake.Servers["server-1"].Disks, 1)
}

func TestResizeDisk_ReadsCurrentFromRemote(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithDisk(ccsteertesting.ProvisionedIOPSDisk("disk-1", 10, 30)).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	err := ResizeDisk(rc, "app", "disk-1", resize.Spec{
		SizeGB: 100,
		IOPS:   1000,
		Speed:  cloudcontrol.SpeedProvisionedIOPS,
	})
	require.NoError(t, err)

	d := fake.Servers["server-1"].Disks[0]
	assert.Equal(t, 100, d.SizeGB)
	assert.Equal(t, 1000, d.IOPS)
}

func TestResizeDisk_UnknownDiskIsTypedNotFound(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake)
	err := ResizeDisk(rc, "app", "no-such-disk", resize.Spec{SizeGB: 20, Speed: cloudcontrol.SpeedStandard})
	assert.True(t, cloudcontrol.IsNotFound(err), "want typed NotFound, got %v", err)
	assert.Empty(t, fake.MutationCalls())
}

func TestResizeDisk_DryRunPlansWithoutMutating(t *testing.T) {
	t.Parallel()

	fake := cloudcontrol.NewFakeClient()
	ccsteertesting.NewServerBuilder("server-1", "app").
		WithDisk(ccsteertesting.ProvisionedIOPSDisk("disk-1", 10, 30)).
		SeedInto(fake)

	rc := newTestContext(ccsteertesting.EnvConfig(), fake, WithDryRun(true))
	err := ResizeDisk(rc, "app", "disk-1", resize.Spec{
		SizeGB: 100,
		IOPS:   1000,
		Speed:  cloudcontrol.SpeedProvisionedIOPS,
	})
	require.NoError(t, err)

	assert.Empty(t, fake.MutationCalls())
	assert.Equal(t, 10, fake.Servers["server-1"].Disks[0].SizeGB)
}
