package converge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// Condition is a predicate over a resource snapshot.
type Condition[T any] func(T) bool

// And returns a Condition satisfied when every given condition is.
func And[T any](conds ...Condition[T]) Condition[T] {
	return func(snapshot T) bool {
		for _, cond := range conds {
			if !cond(snapshot) {
				return false
			}
		}
		return true
	}
}

// Wait describes a single convergence wait. A Wait is created per call
// and discarded once it resolves.
type Wait[T any] struct {
	// Resource names what is being awaited, for logs and errors.
	Resource string

	// Fetch reads the current snapshot. found reports whether the
	// resource exists remotely; absence is a result, not an error.
	Fetch func(ctx context.Context) (snapshot T, found bool, err error)

	// Until is the primary condition. Required unless UntilGone is set.
	Until Condition[T]

	// AndThen is an optional secondary condition, evaluated only after
	// Until has held once. Both phases share the same deadline budget.
	AndThen Condition[T]

	// UntilGone makes remote absence the terminal success state, for
	// delete-waits. Mutually exclusive with Until.
	UntilGone bool

	// Interval and Timeout override the Poller defaults when positive.
	Interval time.Duration
	Timeout  time.Duration
}

// Poller carries the logger and default cadence shared by Await calls.
type Poller struct {
	log      logr.Logger
	interval time.Duration
	timeout  time.Duration
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithLogger sets the logger used for poll-tick reporting.
func WithLogger(log logr.Logger) PollerOption {
	return func(p *Poller) {
		p.log = log
	}
}

// NewPoller creates a Poller with the given default interval and
// timeout. Waits may override both per call.
func NewPoller(interval, timeout time.Duration, opts ...PollerOption) *Poller {
	p := &Poller{
		log:      logr.Discard(),
		interval: interval,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Await polls w.Fetch until the wait's target is satisfied and returns
// the satisfying snapshot.
//
// The first fetch happens immediately, then every interval. Transient
// fetch errors are logged, counted, and retried at the next tick within
// the same deadline; a permanent fetch error aborts with a *FetchError.
// When the deadline elapses first, Await returns a *TimeoutError
// carrying the last observed snapshot alongside that snapshot itself.
//
// For UntilGone waits the returned snapshot is the last one observed
// before the resource disappeared, or the zero value when it was never
// seen.
func Await[T any](ctx context.Context, p *Poller, w Wait[T]) (T, error) {
	var zero T

	if w.Fetch == nil {
		return zero, fmt.Errorf("await %s: Fetch is required", w.Resource)
	}
	if w.UntilGone && w.Until != nil {
		return zero, fmt.Errorf("await %s: Until and UntilGone are mutually exclusive", w.Resource)
	}
	if !w.UntilGone && w.Until == nil {
		return zero, fmt.Errorf("await %s: Until is required unless UntilGone is set", w.Resource)
	}

	interval := w.Interval
	if interval <= 0 {
		interval = p.interval
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}
	if interval <= 0 || timeout <= 0 {
		return zero, fmt.Errorf("await %s: interval and timeout must be positive", w.Resource)
	}

	log := p.log.WithValues("resource", w.Resource)

	var (
		last       T
		observed   bool
		primaryMet bool
		transients int
	)

	// eval runs one fetch-and-check cycle. done is true when the wait's
	// target is satisfied; a non-nil error aborts the wait.
	eval := func() (bool, error) {
		snapshot, found, err := w.Fetch(ctx)
		if err != nil {
			if cloudcontrol.IsTransient(err) {
				transients++
				recordTransientFetch()
				log.V(1).Info("tolerating transient fetch error", "error", err.Error(), "count", transients)
				return false, nil
			}
			return false, &FetchError{Resource: w.Resource, Err: err}
		}
		if !found {
			// Absence terminates delete-waits; for presence-waits the
			// resource may simply not be visible yet.
			return w.UntilGone, nil
		}

		last, observed = snapshot, true
		if w.UntilGone {
			return false, nil
		}
		if !primaryMet && w.Until(snapshot) {
			primaryMet = true
		}
		if !primaryMet {
			return false, nil
		}
		if w.AndThen != nil && !w.AndThen(snapshot) {
			return false, nil
		}
		return true, nil
	}

	start := time.Now()

	done, err := eval()
	if err != nil {
		recordWaitOutcome(outcomeFetchFailed, 0)
		return zero, err
	}
	if done {
		recordWaitOutcome(outcomeConverged, time.Since(start).Seconds())
		return last, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-deadline:
			recordWaitOutcome(outcomeTimeout, 0)
			log.Info("wait deadline elapsed", "timeout", timeout, "observed", observed)
			return last, &TimeoutError{
				Resource: w.Resource,
				Timeout:  timeout,
				Last:     last,
				Observed: observed,
			}
		case <-ticker.C:
			recordPollTick()
			done, err := eval()
			if err != nil {
				recordWaitOutcome(outcomeFetchFailed, 0)
				return zero, err
			}
			if done {
				recordWaitOutcome(outcomeConverged, time.Since(start).Seconds())
				return last, nil
			}
		}
	}
}

// TimeoutError reports that a wait's deadline elapsed before its target
// was satisfied. Last carries the most recent snapshot fetched so
// callers can report actionable diagnostics; Observed is false when the
// resource was never seen at all.
type TimeoutError struct {
	Resource string
	Timeout  time.Duration
	Last     any
	Observed bool
}

func (e *TimeoutError) Error() string {
	if !e.Observed {
		return fmt.Sprintf("timed out after %s waiting for %s: resource never observed", e.Timeout, e.Resource)
	}
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Resource)
}

// FetchError reports a permanent fetch failure that aborted a wait.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
