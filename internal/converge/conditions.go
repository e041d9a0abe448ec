package converge

import (
	"github.com/mbrennan-au/ccsteer/internal/platform/cloudcontrol"
)

// ServerReached is satisfied when the server reports the given
// operational state.
func ServerReached(state cloudcontrol.State) Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return s.State == state
	}
}

// ServerStarted is satisfied when the server is powered on.
func ServerStarted() Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return s.Started
	}
}

// ServerStopped is satisfied when the server is powered off.
func ServerStopped() Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return !s.Started
	}
}

// GuestToolsRunning is satisfied when the guest agent reports itself
// running. Used as the secondary phase of start and reboot waits.
func GuestToolsRunning() Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return s.VMToolsStatus == cloudcontrol.VMToolsRunning
	}
}

// SnapshotServiceReached is satisfied when the server's snapshot
// service reports the given state.
func SnapshotServiceReached(state cloudcontrol.State) Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return s.SnapshotService != nil && s.SnapshotService.State == state
	}
}

// SnapshotServiceAbsent is satisfied when the server has no snapshot
// service configured.
func SnapshotServiceAbsent() Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		return s.SnapshotService == nil
	}
}

// Disk state is not reported separately; a pending disk change shows up
// as PENDING_CHANGE on the owning server. Disk conditions therefore
// range over server snapshots and are composed with [ServerReached].

// HasDisk is satisfied when the server reports a disk with the given ID.
func HasDisk(diskID string) Condition[cloudcontrol.Server] {
	return diskCondition(diskID, func(cloudcontrol.Disk) bool { return true })
}

// DiskSize is satisfied when the identified disk reports the given size.
func DiskSize(diskID string, sizeGB int) Condition[cloudcontrol.Server] {
	return diskCondition(diskID, func(d cloudcontrol.Disk) bool { return d.SizeGB == sizeGB })
}

// DiskIOPS is satisfied when the identified disk reports the given IOPS.
func DiskIOPS(diskID string, iops int) Condition[cloudcontrol.Server] {
	return diskCondition(diskID, func(d cloudcontrol.Disk) bool { return d.IOPS == iops })
}

// DiskSpeed is satisfied when the identified disk reports the given
// performance tier.
func DiskSpeed(diskID string, speed cloudcontrol.DiskSpeed) Condition[cloudcontrol.Server] {
	return diskCondition(diskID, func(d cloudcontrol.Disk) bool { return d.Speed == speed })
}

func diskCondition(diskID string, match func(cloudcontrol.Disk) bool) Condition[cloudcontrol.Server] {
	return func(s cloudcontrol.Server) bool {
		for _, d := range s.Disks {
			if d.ID == diskID {
				return match(d)
			}
		}
		return false
	}
}
