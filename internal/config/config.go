package config

import (
	"fmt"
	"net"
)

// ValidRegions contains all valid CloudControl API regions.
var ValidRegions = map[string]bool{
	"na": true, // North America
	"eu": true, // Europe
	"au": true, // Australia
	"af": true, // Africa
	"ap": true, // Asia Pacific
	"ca": true, // Canada
}

// Config is the target environment for all convergence operations.
type Config struct {
	Region        string        `yaml:"region"`
	Datacenter    string        `yaml:"datacenter"`
	NetworkDomain string        `yaml:"network_domain"`
	VLAN          string        `yaml:"vlan"`
	Gateway       GatewayConfig `yaml:"gateway"`
}

// GatewayConfig describes the gateway host to converge on.
type GatewayConfig struct {
	Name         string `yaml:"name"`
	Image        string `yaml:"image"`
	IPv4         string `yaml:"ipv4"`          // optional fixed private IPv4; auto-assigned when empty
	Password     string `yaml:"password"`      // optional admin password; generated when empty
	SourceIP     string `yaml:"source_ip"`      // SSH rule source address, default ANY
	SourcePrefix int    `yaml:"source_prefix"`  // SSH rule source prefix size, 0 for single address
	WaitForTools bool   `yaml:"wait_for_tools"` // also wait for the guest agent after boot
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if !ValidRegions[c.Region] {
		return fmt.Errorf("invalid region %q", c.Region)
	}
	if c.Datacenter == "" {
		return fmt.Errorf("datacenter is required")
	}
	if c.NetworkDomain == "" {
		return fmt.Errorf("network_domain is required")
	}
	if c.VLAN == "" {
		return fmt.Errorf("vlan is required")
	}

	if err := c.Gateway.validate(); err != nil {
		return fmt.Errorf("gateway validation failed: %w", err)
	}

	return nil
}

func (g *GatewayConfig) validate() error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	if g.Image == "" {
		return fmt.Errorf("image is required")
	}
	if g.IPv4 != "" && net.ParseIP(g.IPv4) == nil {
		return fmt.Errorf("invalid ipv4 address %q", g.IPv4)
	}
	if g.SourceIP != "" && g.SourceIP != "ANY" && net.ParseIP(g.SourceIP) == nil {
		return fmt.Errorf("invalid source_ip %q", g.SourceIP)
	}
	if g.SourcePrefix < 0 || g.SourcePrefix > 32 {
		return fmt.Errorf("source_prefix must be between 0 and 32, got %d", g.SourcePrefix)
	}

	return nil
}
