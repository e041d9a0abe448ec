package reconcile

import (
	"github.com/go-logr/logr"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// Client is the subset of the CloudControl API the reconciler drives.
type Client interface {
	cloudcontrol.NatAPI
	cloudcontrol.FirewallAPI
	cloudcontrol.IPBlockAPI
	cloudcontrol.VIPAPI
	cloudcontrol.RouteAPI
}

// Reconciler converges shared resources toward desired bindings.
type Reconciler struct {
	client Client
	log    logr.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithLogger sets the reconciler's logger. The default discards all
// logs.
func WithLogger(log logr.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.log = log }
}

// NewReconciler returns a Reconciler backed by client.
func NewReconciler(client Client, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{client: client, log: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
