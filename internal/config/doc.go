// Package config defines the settings model shared by all convergence
// subsystems.
//
// The [Config] struct is the canonical representation of the target
// environment: region, datacenter, network domain, and per-resource
// defaults such as the gateway host shape. [Timeouts] collects every
// wait deadline and poll cadence, overridable through CCSTEER_*
// environment variables.
package config
