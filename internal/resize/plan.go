package resize

import (
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/config"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// Spec is a disk capacity configuration. IOPS is meaningful only when
// Speed is SpeedProvisionedIOPS; for other tiers it is zero.
type Spec struct {
	SizeGB int
	IOPS   int
	Speed  cloudcontrol.DiskSpeed
}

// Limits are the capacity rules the remote system enforces. A
// provisioned-IOPS disk must keep its IOPS within
// [SizeGB*MinIOPSPerGB, SizeGB*MaxIOPSPerGB] at every point in time,
// which is what forces large moves into multiple steps.
type Limits struct {
	MinIOPSPerGB int
	MaxIOPSPerGB int
	MaxSizeGB    int
	MaxIOPS      int
}

// DefaultLimits returns the CloudControl capacity rules.
func DefaultLimits() Limits {
	return Limits{
		MinIOPSPerGB: config.MinIOPSPerGB,
		MaxIOPSPerGB: config.MaxIOPSPerGB,
		MaxSizeGB:    config.MaxDiskSizeGB,
		MaxIOPS:      config.MaxDiskIOPS,
	}
}

// Validate rejects limits under which a legal target may be
// unreachable. MaxIOPSPerGB of at least twice MinIOPSPerGB keeps every
// adjacent size inside one step's band, so the alternation always has a
// legal move left.
func (l Limits) Validate() error {
	if l.MinIOPSPerGB <= 0 || l.MaxIOPSPerGB <= 0 || l.MaxSizeGB <= 0 || l.MaxIOPS <= 0 {
		return &InvalidSpecError{Reason: "capacity limits must be positive"}
	}
	if l.MaxIOPSPerGB < 2*l.MinIOPSPerGB {
		return &InvalidSpecError{Reason: fmt.Sprintf(
			"MaxIOPSPerGB %d must be at least twice MinIOPSPerGB %d", l.MaxIOPSPerGB, l.MinIOPSPerGB)}
	}
	return nil
}

// iopsBand returns the IOPS range a disk of the given size supports.
func (l Limits) iopsBand(sizeGB int) (lo, hi int) {
	return sizeGB * l.MinIOPSPerGB, min(sizeGB*l.MaxIOPSPerGB, l.MaxIOPS)
}

// sizeBand returns the size range that keeps the given IOPS in band.
func (l Limits) sizeBand(iops int) (lo, hi int) {
	return ceilDiv(iops, l.MaxIOPSPerGB), min(iops/l.MinIOPSPerGB, l.MaxSizeGB)
}

// StepKind names the field a resize step changes.
type StepKind string

const (
	StepIOPS StepKind = "iops"
	StepSize StepKind = "size"
)

// Step is one remote capacity call: set the named field to Value.
type Step struct {
	Kind  StepKind
	Value int
}

// Apply returns the configuration after a step.
func Apply(s Spec, step Step) Spec {
	switch step.Kind {
	case StepIOPS:
		s.IOPS = step.Value
	case StepSize:
		s.SizeGB = step.Value
	}
	return s
}

// NextStep returns the next legal move from current toward target, or
// false when no field can move. IOPS moves first: it is clamped into
// the band current's size supports, then size is clamped into the range
// current's IOPS keeps legal. A clamped move that lands back on the
// current value yields to the other field.
func NextStep(current, target Spec, lim Limits) (Step, bool) {
	if current.IOPS != target.IOPS {
		lo, hi := lim.iopsBand(current.SizeGB)
		if next := clamp(target.IOPS, lo, hi); next != current.IOPS {
			return Step{Kind: StepIOPS, Value: next}, true
		}
	}
	if current.SizeGB != target.SizeGB {
		lo, hi := lim.sizeBand(current.IOPS)
		if next := clamp(target.SizeGB, lo, hi); next != current.SizeGB {
			return Step{Kind: StepSize, Value: next}, true
		}
	}
	return Step{}, false
}

// maxPlanSteps bounds the alternation; each iteration grows or shrinks
// the reachable band geometrically, so legal plans stay far below it.
const maxPlanSteps = 64

// Steps returns the full ordered plan from current to target. A speed
// conversion is not a capacity step; when the tiers differ, the plan is
// computed from the configuration the conversion leaves behind (IOPS at
// the size minimum on entering the provisioned tier, zero on leaving).
func Steps(current, target Spec, lim Limits) ([]Step, error) {
	if err := lim.Validate(); err != nil {
		return nil, err
	}
	target = normalize(target, lim)
	if err := validateTarget(target, lim); err != nil {
		return nil, err
	}
	current = PlanStart(current, target, lim)

	if target.Speed != cloudcontrol.SpeedProvisionedIOPS {
		if current.SizeGB == target.SizeGB {
			return nil, nil
		}
		return []Step{{Kind: StepSize, Value: target.SizeGB}}, nil
	}

	var plan []Step
	for current != target {
		if len(plan) >= maxPlanSteps {
			return nil, stalled(current, target)
		}
		step, ok := NextStep(current, target, lim)
		if !ok {
			return nil, stalled(current, target)
		}
		plan = append(plan, step)
		current = Apply(current, step)
	}
	return plan, nil
}

// PlanStart returns the configuration the plan from Steps is applied
// to: the normalized current spec, after the speed conversion toward
// the target tier when the tiers differ.
func PlanStart(current, target Spec, lim Limits) Spec {
	current = normalize(current, lim)
	if current.Speed != target.Speed {
		current = afterConversion(current, target.Speed, lim)
	}
	return current
}

// normalize fills in the derivable IOPS value: the size minimum when a
// provisioned-IOPS spec leaves it unset, zero for every other tier.
func normalize(s Spec, lim Limits) Spec {
	if s.Speed != cloudcontrol.SpeedProvisionedIOPS {
		s.IOPS = 0
		return s
	}
	if s.IOPS == 0 {
		s.IOPS = s.SizeGB * lim.MinIOPSPerGB
	}
	return s
}

// afterConversion is the configuration a speed change leaves behind.
// Entering the provisioned tier sets IOPS to the size minimum; leaving
// it drops IOPS tracking.
func afterConversion(s Spec, speed cloudcontrol.DiskSpeed, lim Limits) Spec {
	s.Speed = speed
	if speed == cloudcontrol.SpeedProvisionedIOPS {
		s.IOPS = s.SizeGB * lim.MinIOPSPerGB
	} else {
		s.IOPS = 0
	}
	return s
}

// validateTarget rejects targets no step sequence could reach. Ceiling
// violations report LimitError, band violations InvalidSpecError.
func validateTarget(target Spec, lim Limits) error {
	if target.SizeGB <= 0 {
		return &InvalidSpecError{Reason: fmt.Sprintf("size %dGB must be positive", target.SizeGB)}
	}
	if target.SizeGB > lim.MaxSizeGB {
		return &LimitError{Field: "disk size", Value: target.SizeGB, Limit: lim.MaxSizeGB}
	}
	if target.Speed != cloudcontrol.SpeedProvisionedIOPS {
		return nil
	}
	if target.IOPS > lim.MaxIOPS {
		return &LimitError{Field: "disk IOPS", Value: target.IOPS, Limit: lim.MaxIOPS}
	}
	if lo, hi := lim.iopsBand(target.SizeGB); target.IOPS < lo || target.IOPS > hi {
		return &InvalidSpecError{Reason: fmt.Sprintf(
			"%d IOPS is outside the range %d to %d supported by %dGB", target.IOPS, lo, hi, target.SizeGB)}
	}
	return nil
}

func stalled(current, target Spec) error {
	return &InvalidSpecError{Reason: fmt.Sprintf(
		"no legal step from size=%d iops=%d toward size=%d iops=%d",
		current.SizeGB, current.IOPS, target.SizeGB, target.IOPS)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
