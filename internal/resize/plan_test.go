package resize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// exampleLimits keeps the hand-checkable ratios used throughout the
// step-sequence tests: 3 IOPS per GB minimum, 10 maximum.
func exampleLimits() Limits {
	return Limits{MinIOPSPerGB: 3, MaxIOPSPerGB: 10, MaxSizeGB: 1000, MaxIOPS: 10000}
}

func piops(sizeGB, iops int) Spec {
	return Spec{SizeGB: sizeGB, IOPS: iops, Speed: cloudcontrol.SpeedProvisionedIOPS}
}

func TestSteps_Grow(t *testing.T) {
	t.Parallel()

	got, err := Steps(piops(10, 30), piops(100, 1000), exampleLimits())
	require.NoError(t, err)

	want := []Step{
		{Kind: StepIOPS, Value: 100}, // ceiling for 10GB
		{Kind: StepSize, Value: 33},  // largest size 100 IOPS sustains
		{Kind: StepIOPS, Value: 330},
		{Kind: StepSize, Value: 100},
		{Kind: StepIOPS, Value: 1000},
	}
	assert.Equal(t, want, got)
}

func TestSteps_Shrink(t *testing.T) {
	t.Parallel()

	got, err := Steps(piops(100, 1000), piops(10, 30), exampleLimits())
	require.NoError(t, err)

	want := []Step{
		{Kind: StepIOPS, Value: 300}, // floor for 100GB
		{Kind: StepSize, Value: 30},
		{Kind: StepIOPS, Value: 90},
		{Kind: StepSize, Value: 10},
		{Kind: StepIOPS, Value: 30},
	}
	assert.Equal(t, want, got)
}

func TestSteps_MixedDirections(t *testing.T) {
	t.Parallel()

	// Grow the size while shrinking the IOPS.
	got, err := Steps(piops(10, 100), piops(20, 60), exampleLimits())
	require.NoError(t, err)
	want := []Step{
		{Kind: StepIOPS, Value: 60},
		{Kind: StepSize, Value: 20},
	}
	assert.Equal(t, want, got)
}

func TestSteps_NoChange(t *testing.T) {
	t.Parallel()

	got, err := Steps(piops(50, 300), piops(50, 300), exampleLimits())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSteps_NonProvisionedTier(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()
	std := func(sizeGB int) Spec {
		return Spec{SizeGB: sizeGB, Speed: cloudcontrol.SpeedStandard}
	}

	got, err := Steps(std(10), std(25), lim)
	require.NoError(t, err)
	assert.Equal(t, []Step{{Kind: StepSize, Value: 25}}, got)

	// A stray IOPS value on a non-provisioned spec is ignored.
	stray := std(10)
	stray.IOPS = 999
	got, err = Steps(stray, std(25), lim)
	require.NoError(t, err)
	assert.Equal(t, []Step{{Kind: StepSize, Value: 25}}, got)

	got, err = Steps(std(25), std(25), lim)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSteps_SpeedConversion(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()
	std := Spec{SizeGB: 10, Speed: cloudcontrol.SpeedStandard}

	// Entering the provisioned tier resets IOPS to the size minimum
	// before stepping begins.
	got, err := Steps(std, piops(50, 750), lim)
	require.NoError(t, err)
	want := []Step{
		{Kind: StepIOPS, Value: 150},
		{Kind: StepSize, Value: 50},
		{Kind: StepIOPS, Value: 750},
	}
	assert.Equal(t, want, got)

	// Leaving it drops IOPS tracking entirely.
	got, err = Steps(piops(50, 750), Spec{SizeGB: 80, Speed: cloudcontrol.SpeedHighPerformance}, lim)
	require.NoError(t, err)
	assert.Equal(t, []Step{{Kind: StepSize, Value: 80}}, got)
}

func TestSteps_DefaultTargetIOPS(t *testing.T) {
	t.Parallel()

	// An unset target IOPS defaults to the size minimum.
	got, err := Steps(piops(10, 30), Spec{SizeGB: 100, Speed: cloudcontrol.SpeedProvisionedIOPS}, DefaultLimits())
	require.NoError(t, err)

	final := piops(10, 30)
	for _, step := range got {
		final = Apply(final, step)
	}
	assert.Equal(t, piops(100, 300), final)
}

func TestSteps_TargetValidation(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()
	tests := []struct {
		name      string
		target    Spec
		wantLimit bool
	}{
		{"size over ceiling", piops(2000, 6000), true},
		{"iops over ceiling", piops(1000, 20000), true},
		{"oversized standard disk", Spec{SizeGB: 2000, Speed: cloudcontrol.SpeedStandard}, true},
		{"iops below band", piops(100, 100), false},
		{"iops above band", piops(10, 200), false},
		{"zero size", piops(0, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Steps(piops(10, 30), tt.target, lim)
			require.Error(t, err)
			if tt.wantLimit {
				var limitErr *LimitError
				assert.ErrorAs(t, err, &limitErr)
			} else {
				var specErr *InvalidSpecError
				assert.ErrorAs(t, err, &specErr)
			}
		})
	}
}

func TestLimits_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultLimits().Validate())

	narrow := Limits{MinIOPSPerGB: 3, MaxIOPSPerGB: 5, MaxSizeGB: 1000, MaxIOPS: 10000}
	assert.ErrorContains(t, narrow.Validate(), "at least twice")

	var zero Limits
	assert.ErrorContains(t, zero.Validate(), "must be positive")
}

func TestNextStep_YieldsToSizeAtBandEdge(t *testing.T) {
	t.Parallel()

	// IOPS already sits at the ceiling for the current size, so the
	// size move goes first.
	step, ok := NextStep(piops(10, 100), piops(100, 1000), exampleLimits())
	require.True(t, ok)
	assert.Equal(t, Step{Kind: StepSize, Value: 33}, step)

	_, ok = NextStep(piops(100, 1000), piops(100, 1000), exampleLimits())
	assert.False(t, ok, "no step at the target")
}

func TestApply(t *testing.T) {
	t.Parallel()

	s := piops(10, 30)
	assert.Equal(t, piops(10, 90), Apply(s, Step{Kind: StepIOPS, Value: 90}))
	assert.Equal(t, piops(25, 30), Apply(s, Step{Kind: StepSize, Value: 25}))
}

// TestSteps_Properties sweeps pairs of legal provisioned-IOPS
// configurations and checks the guarantees every plan must hold: the
// final configuration is exactly the target, every intermediate
// configuration stays inside the band and under the ceilings, and each
// step makes strict progress.
func TestSteps_Properties(t *testing.T) {
	t.Parallel()

	lim := DefaultLimits()
	sizes := []int{1, 5, 10, 25, 50, 100, 250, 500, 1000}

	var specs []Spec
	for _, size := range sizes {
		lo, hi := lim.iopsBand(size)
		for _, iops := range []int{lo, (lo + hi) / 2, hi} {
			specs = append(specs, piops(size, iops))
		}
	}

	inBand := func(s Spec) bool {
		lo, hi := lim.iopsBand(s.SizeGB)
		return s.SizeGB >= 1 && s.SizeGB <= lim.MaxSizeGB && s.IOPS >= lo && s.IOPS <= hi
	}
	distance := func(a, b Spec) int {
		return abs(a.SizeGB-b.SizeGB) + abs(a.IOPS-b.IOPS)
	}

	for _, current := range specs {
		for _, target := range specs {
			name := fmt.Sprintf("%dGB_%diops_to_%dGB_%diops", current.SizeGB, current.IOPS, target.SizeGB, target.IOPS)
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				plan, err := Steps(current, target, lim)
				require.NoError(t, err)

				at := current
				for i, step := range plan {
					next := Apply(at, step)
					require.True(t, inBand(next), "step %d leaves an illegal configuration %+v", i, next)
					require.Less(t, distance(next, target), distance(at, target),
						"step %d does not make progress", i)
					at = next
				}
				require.Equal(t, target, at)
			})
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
