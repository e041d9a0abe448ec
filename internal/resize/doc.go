// Package resize computes and executes stepped disk capacity changes.
//
// The CloudControl API changes disk size and IOPS with separate calls,
// and each call must leave the disk inside the provisioned-IOPS band
// for its current configuration. Moving a disk between two distant
// (size, IOPS) pairs therefore takes a sequence of intermediate calls,
// each waiting for convergence before the next.
//
// [Steps] and [NextStep] are the pure planning core; [Planner.Resize]
// executes a plan against the API, surfacing the last applied
// configuration in an [AbortedError] when a step fails.
package resize
