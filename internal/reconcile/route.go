package reconcile

import (
	"context"
	"fmt"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// RouteResult reports how a static route ensure was satisfied.
type RouteResult struct {
	Route   cloudcontrol.StaticRoute
	Changed bool
}

// EnsureStaticRoute converges the route with spec's name to spec's
// shape. The API cannot update a route, so a divergent route is deleted
// and recreated. Several existing routes sharing the name is a
// *ConflictError.
func (r *Reconciler) EnsureStaticRoute(ctx context.Context, spec cloudcontrol.StaticRouteSpec, dryRun bool) (RouteResult, error) {
	if spec.Name == "" {
		return RouteResult{}, fmt.Errorf("ensure static route: name is required")
	}
	routes, err := r.client.ListStaticRoutes(ctx)
	if err != nil {
		return RouteResult{}, fmt.Errorf("listing static routes: %w", err)
	}
	var matches []cloudcontrol.StaticRoute
	for _, route := range routes {
		if route.Name == spec.Name {
			matches = append(matches, route)
		}
	}
	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, route := range matches {
			ids[i] = route.ID
		}
		return RouteResult{}, &ConflictError{Kind: cloudcontrol.KindStaticRoute, Key: spec.Name, Matches: ids}
	}

	if len(matches) == 1 && matches[0].StaticRouteSpec == spec {
		recordEnsure(cloudcontrol.KindStaticRoute, outcomeUnchanged)
		return RouteResult{Route: matches[0]}, nil
	}

	result := RouteResult{Route: cloudcontrol.StaticRoute{StaticRouteSpec: spec}, Changed: true}
	if dryRun {
		if len(matches) == 1 {
			r.log.Info("dry run: would recreate static route", "name", spec.Name, "id", matches[0].ID)
		} else {
			r.log.Info("dry run: would create static route", "name", spec.Name)
		}
		return result, nil
	}

	outcome := outcomeCreated
	if len(matches) == 1 {
		if err := r.client.DeleteStaticRoute(ctx, matches[0].ID); err != nil {
			return RouteResult{}, fmt.Errorf("deleting divergent static route %s: %w", matches[0].ID, err)
		}
		outcome = outcomeRecreated
	}
	ref, err := r.client.CreateStaticRoute(ctx, spec)
	if err != nil {
		return RouteResult{}, fmt.Errorf("creating static route: %w", err)
	}
	result.Route.ID = ref.ID
	recordEnsure(cloudcontrol.KindStaticRoute, outcome)
	r.log.Info("created static route", "name", spec.Name, "id", ref.ID)
	return result, nil
}
