// Package main is the entry point for the ccsteer CLI.
//
// ccsteer converges CloudControl infrastructure toward declared state:
// gateway hosts, NAT and firewall bindings, public IPv4 blocks, and
// provisioned-IOPS disk capacity. The CLI surface covers the offline
// operations: previewing stepped resize plans and validating
// environment configuration.
//
// For detailed usage information, run:
//
//	ccsteer --help
package main

import (
	"fmt"
	"os"

	"github.com/mbrennan-au/ccsteer/cmd/ccsteer/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
