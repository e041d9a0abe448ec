package orchestration

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/mbrennan-au/ccsteer/internal/config"
	"github.com/mbrennan-au/ccsteer/internal/converge"
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
	"github.com/mbrennan-au/ccsteer/internal/reconcile"
	"github.com/mbrennan-au/ccsteer/internal/resize"
)

// Context wraps every dependency an orchestration call needs. It is
// created per invocation and passed by parameter through every call.
type Context struct {
	context.Context
	Config     *config.Config
	Client     cloudcontrol.Client
	Poller     *converge.Poller
	Reconciler *reconcile.Reconciler
	Planner    *resize.Planner
	Timeouts   *config.Timeouts
	Log        logr.Logger

	// DryRun makes every reconciler mutation a described no-op. State
	// changes that cannot be simulated without mutating, like a server
	// deploy, are skipped entirely.
	DryRun bool
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the context's logger. The default discards all logs.
func WithLogger(log logr.Logger) ContextOption {
	return func(c *Context) { c.Log = log }
}

// WithTimeouts overrides the environment-derived wait deadlines.
func WithTimeouts(t *config.Timeouts) ContextOption {
	return func(c *Context) { c.Timeouts = t }
}

// WithDryRun enables dry-run mode for every operation run under the
// context.
func WithDryRun(dryRun bool) ContextOption {
	return func(c *Context) { c.DryRun = dryRun }
}

// NewContext builds a request-scoped context around client and cfg,
// wiring the poller, reconciler, and planner with a shared logger and
// cadence.
func NewContext(ctx context.Context, cfg *config.Config, client cloudcontrol.Client, opts ...ContextOption) *Context {
	c := &Context{
		Context:  ctx,
		Config:   cfg,
		Client:   client,
		Timeouts: config.LoadTimeouts(),
		Log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Poller = converge.NewPoller(c.Timeouts.ServerPoll, c.Timeouts.ServerWait, converge.WithLogger(c.Log))
	c.Reconciler = reconcile.NewReconciler(client, reconcile.WithLogger(c.Log))
	c.Planner = resize.NewPlanner(client, c.Poller, resize.WithLogger(c.Log))
	return c
}
