package config

// Disk capacity ceilings and IOPS band multipliers enforced by the
// CloudControl API. A provisioned-IOPS disk must keep its IOPS within
// [sizeGB*MinIOPSPerGB, sizeGB*MaxIOPSPerGB] at every point in time,
// including between the individual calls of a stepped resize.
const (
	// MinIOPSPerGB is the multiplier for the minimum valid IOPS of a
	// disk. Multiplied by the disk size in GB.
	MinIOPSPerGB = 3

	// MaxIOPSPerGB is the maximum IOPS per GB of storage.
	MaxIOPSPerGB = 15

	// MaxDiskSizeGB is the maximum size of a single disk in GB.
	MaxDiskSizeGB = 1000

	// MaxDiskIOPS is the maximum IOPS for a single disk.
	MaxDiskIOPS = 15000
)

// DefaultRegion is the API region assumed when none is configured.
const DefaultRegion = "na"
