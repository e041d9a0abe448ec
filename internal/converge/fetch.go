package converge

import (
	"context"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// ServerGetter fetches a server snapshot by ID.
type ServerGetter interface {
	GetServer(ctx context.Context, id string) (cloudcontrol.Server, error)
}

// ServerFinder fetches a server snapshot by name, listing and filtering
// client-side.
type ServerFinder interface {
	GetServerByName(ctx context.Context, name string) (cloudcontrol.Server, bool, error)
}

// FetchServer returns a fetch for the server with the given ID. A
// NotFound result maps to absence rather than an error, so delete-waits
// observe disappearance and presence-waits keep polling.
func FetchServer(c ServerGetter, id string) func(context.Context) (cloudcontrol.Server, bool, error) {
	return func(ctx context.Context) (cloudcontrol.Server, bool, error) {
		s, err := c.GetServer(ctx, id)
		if err != nil {
			if cloudcontrol.IsNotFound(err) {
				return cloudcontrol.Server{}, false, nil
			}
			return cloudcontrol.Server{}, false, err
		}
		return s, true, nil
	}
}

// FetchServerByName returns a fetch for the server with the given name.
func FetchServerByName(c ServerFinder, name string) func(context.Context) (cloudcontrol.Server, bool, error) {
	return func(ctx context.Context) (cloudcontrol.Server, bool, error) {
		return c.GetServerByName(ctx, name)
	}
}
