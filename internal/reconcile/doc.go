// Package reconcile converges shared infrastructure, NAT rules,
// firewall rules, public IPv4 blocks, and static routes, toward desired
// bindings.
//
// Shared resources may be referenced by bindings the caller knows
// nothing about, and other actors mutate them concurrently. Every
// decision here is therefore made against a fresh read of the remote
// system: ensure paths re-list before creating, and release paths
// re-query every consumer before deleting. Nothing is cached between
// calls.
//
// All mutating paths accept a dry-run flag. A dry run performs every
// lookup and diff and describes the would-be change in the result
// without issuing a single create, update, or delete.
package reconcile
