// Package testing provides fixture builders for convergence tests:
// pre-populated servers, NAT tables, and environment configuration
// shared by the orchestration suites.
package testing
