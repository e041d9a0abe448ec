package resize

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/mbrennan-au/ccsteer/internal/converge"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// Client is the subset of the CloudControl API the planner drives.
type Client interface {
	GetServer(ctx context.Context, id string) (cloudcontrol.Server, error)
	ChangeDiskIOPS(ctx context.Context, diskID string, iops int) error
	ChangeDiskSize(ctx context.Context, serverID, diskID string, sizeGB int) error
	ChangeDiskSpeed(ctx context.Context, diskID string, speed cloudcontrol.DiskSpeed) error
}

// Planner executes resize plans one capacity call at a time, waiting
// for the remote system to converge between calls.
type Planner struct {
	client Client
	poller *converge.Poller
	log    logr.Logger
	limits Limits
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithLogger sets the planner's logger. The default discards all logs.
func WithLogger(log logr.Logger) PlannerOption {
	return func(p *Planner) { p.log = log }
}

// WithLimits overrides the capacity rules. The default is
// [DefaultLimits].
func WithLimits(lim Limits) PlannerOption {
	return func(p *Planner) { p.limits = lim }
}

// NewPlanner returns a Planner that issues calls through client and
// waits on poller's cadence between steps.
func NewPlanner(client Client, poller *converge.Poller, opts ...PlannerOption) *Planner {
	p := &Planner{
		client: client,
		poller: poller,
		log:    logr.Discard(),
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resize moves the identified disk from current to target. The target
// is validated against the capacity ceilings before any call is
// issued; a change of performance tier happens first, then size and
// IOPS alternate per [NextStep]. Each confirmed configuration is
// re-read from the remote system, never assumed. A failed step returns
// an *AbortedError carrying the last confirmed configuration; the disk
// is left there.
func (p *Planner) Resize(ctx context.Context, serverID, diskID string, current, target Spec) error {
	if err := p.limits.Validate(); err != nil {
		recordResize(resultRejected)
		return err
	}
	current = normalize(current, p.limits)
	target = normalize(target, p.limits)
	if err := validateTarget(target, p.limits); err != nil {
		recordResize(resultRejected)
		return err
	}

	log := p.log.WithValues("server", serverID, "disk", diskID)
	if current == target {
		log.V(1).Info("disk already at target capacity")
		return nil
	}

	applied := current
	abort := func(err error) error {
		recordResize(resultAborted)
		return &AbortedError{Applied: applied, Err: err}
	}

	if applied.Speed != target.Speed {
		log.Info("changing disk speed", "from", applied.Speed, "to", target.Speed)
		if err := p.client.ChangeDiskSpeed(ctx, diskID, target.Speed); err != nil {
			return abort(err)
		}
		recordStep("speed")
		snap, err := p.awaitDisk(ctx, serverID, diskID, converge.DiskSpeed(diskID, target.Speed))
		if err != nil {
			return abort(err)
		}
		applied = snap
	}

	if target.Speed != cloudcontrol.SpeedProvisionedIOPS {
		if applied.SizeGB != target.SizeGB {
			log.Info("changing disk size", "sizeGB", target.SizeGB)
			if err := p.client.ChangeDiskSize(ctx, serverID, diskID, target.SizeGB); err != nil {
				return abort(err)
			}
			recordStep(string(StepSize))
			if _, err := p.awaitDisk(ctx, serverID, diskID, converge.DiskSize(diskID, target.SizeGB)); err != nil {
				return abort(err)
			}
		}
		recordResize(resultCompleted)
		return nil
	}

	for steps := 0; applied != target; steps++ {
		if steps >= maxPlanSteps {
			return abort(stalled(applied, target))
		}
		step, ok := NextStep(applied, target, p.limits)
		if !ok {
			return abort(stalled(applied, target))
		}

		var callErr error
		var cond converge.Condition[cloudcontrol.Server]
		switch step.Kind {
		case StepIOPS:
			log.Info("changing disk IOPS", "iops", step.Value)
			callErr = p.client.ChangeDiskIOPS(ctx, diskID, step.Value)
			cond = converge.DiskIOPS(diskID, step.Value)
		case StepSize:
			log.Info("changing disk size", "sizeGB", step.Value)
			callErr = p.client.ChangeDiskSize(ctx, serverID, diskID, step.Value)
			cond = converge.DiskSize(diskID, step.Value)
		}
		if callErr != nil {
			return abort(callErr)
		}
		recordStep(string(step.Kind))

		snap, err := p.awaitDisk(ctx, serverID, diskID, cond)
		if err != nil {
			return abort(err)
		}
		applied = snap
	}

	recordResize(resultCompleted)
	return nil
}

// awaitDisk waits for the owning server to settle with the disk
// matching cond, then returns the disk's observed configuration.
func (p *Planner) awaitDisk(ctx context.Context, serverID, diskID string, cond converge.Condition[cloudcontrol.Server]) (Spec, error) {
	snap, err := converge.Await(ctx, p.poller, converge.Wait[cloudcontrol.Server]{
		Resource: "disk " + diskID,
		Fetch:    converge.FetchServer(p.client, serverID),
		Until:    converge.And(converge.ServerReached(cloudcontrol.StateNormal), cond),
	})
	if err != nil {
		return Spec{}, err
	}
	for _, d := range snap.Disks {
		if d.ID == diskID {
			return Spec{SizeGB: d.SizeGB, IOPS: d.IOPS, Speed: d.Speed}, nil
		}
	}
	return Spec{}, &cloudcontrol.NotFoundError{Kind: cloudcontrol.KindDisk, Key: diskID}
}
