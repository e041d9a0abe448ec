// Package orchestration composes the convergence poller, resize
// planner, and shared-resource reconciler into the fixed operation
// sequences each entry point runs.
//
// Every operation receives an explicit request-scoped [Context]
// carrying its configuration, client, and engine components; there is
// no package-level mutable state. Orchestrators never create or delete
// shared resources directly: NAT rules, firewall rules, and public IP
// blocks go through the reconciler's Ensure and Release operations.
// Every state-changing call is followed by a re-fetch-and-wait before
// the operation reports success.
package orchestration
