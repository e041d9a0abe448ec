package reconcile

import (
	"fmt"
	"strings"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// ConflictError reports a binding key that matches more than one
// existing resource. Picking one silently could orphan or misroute the
// others, so the caller has to resolve the ambiguity.
type ConflictError struct {
	Kind    cloudcontrol.Kind
	Key     string
	Matches []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q matches %d existing resources: %s",
		e.Kind, e.Key, len(e.Matches), strings.Join(e.Matches, ", "))
}

// InUseError reports a release blocked by live references. Holders
// names every consumer found at delete time; the resource is left in
// place.
type InUseError struct {
	Kind    cloudcontrol.Kind
	Key     string
	Holders []string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s %q is still referenced by %s",
		e.Kind, e.Key, strings.Join(e.Holders, ", "))
}
