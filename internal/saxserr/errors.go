// Package saxserr defines the engine's fatal-error taxonomy. Every error
// here is a contract violation the core does not try to recover from;
// callers see them bubble out of Calculate()/DebyeTransform().
package saxserr

import "errors"

// Sentinel errors for the three taxonomy members. Wrap one of these with
// fmt.Errorf("%w: ...", Err...) to add context.
var (
	// ErrInvalidConfiguration: qmin >= qmax, non-positive bin width,
	// bin_count < 10.
	ErrInvalidConfiguration = errors.New("saxs: invalid configuration")

	// ErrInconsistentState: distributions replaced with mismatched sizes,
	// or the sinqd cache size mismatches the distributions at rebuild time.
	ErrInconsistentState = errors.New("saxs: inconsistent state")

	// ErrOutOfRange: (debug-only) a rounded distance exceeded the bin count.
	ErrOutOfRange = errors.New("saxs: distance out of range")
)

// Is reports whether err wraps one of the sentinel errors in this package,
// a thin convenience over errors.Is for callers that don't want to import
// the stdlib errors package just for this.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
