package config

import (
	"os"
	"time"
)

// Timeouts holds all configurable wait deadlines and poll cadences.
// These values can be customized via environment variables.
type Timeouts struct {
	ServerWait   time.Duration // Deadline for server deploy/start/stop/reboot waits
	ServerPoll   time.Duration // Poll cadence for server state waits
	DeleteWait   time.Duration // Deadline for delete waits (poll until absent)
	DeletePoll   time.Duration // Poll cadence for delete waits
	GatewayWait  time.Duration // Deadline for gateway host convergence
	GatewayPoll  time.Duration // Poll cadence for gateway host convergence
	DiskWait     time.Duration // Deadline for disk change and controller attach waits
	DiskPoll     time.Duration // Poll cadence for disk waits
	SnapshotWait time.Duration // Deadline for snapshot service state waits
	SnapshotPoll time.Duration // Poll cadence for snapshot service waits
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - CCSTEER_TIMEOUT_SERVER_WAIT (default: 30m)
//   - CCSTEER_TIMEOUT_SERVER_POLL (default: 30s)
//   - CCSTEER_TIMEOUT_DELETE_WAIT (default: 30m)
//   - CCSTEER_TIMEOUT_DELETE_POLL (default: 30s)
//   - CCSTEER_TIMEOUT_GATEWAY_WAIT (default: 20m)
//   - CCSTEER_TIMEOUT_GATEWAY_POLL (default: 30s)
//   - CCSTEER_TIMEOUT_DISK_WAIT (default: 20m)
//   - CCSTEER_TIMEOUT_DISK_POLL (default: 30s)
//   - CCSTEER_TIMEOUT_SNAPSHOT_WAIT (default: 2m)
//   - CCSTEER_TIMEOUT_SNAPSHOT_POLL (default: 5s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ServerWait:   parseDuration("CCSTEER_TIMEOUT_SERVER_WAIT", 30*time.Minute),
		ServerPoll:   parseDuration("CCSTEER_TIMEOUT_SERVER_POLL", 30*time.Second),
		DeleteWait:   parseDuration("CCSTEER_TIMEOUT_DELETE_WAIT", 30*time.Minute),
		DeletePoll:   parseDuration("CCSTEER_TIMEOUT_DELETE_POLL", 30*time.Second),
		GatewayWait:  parseDuration("CCSTEER_TIMEOUT_GATEWAY_WAIT", 20*time.Minute),
		GatewayPoll:  parseDuration("CCSTEER_TIMEOUT_GATEWAY_POLL", 30*time.Second),
		DiskWait:     parseDuration("CCSTEER_TIMEOUT_DISK_WAIT", 20*time.Minute),
		DiskPoll:     parseDuration("CCSTEER_TIMEOUT_DISK_POLL", 30*time.Second),
		SnapshotWait: parseDuration("CCSTEER_TIMEOUT_SNAPSHOT_WAIT", 2*time.Minute),
		SnapshotPoll: parseDuration("CCSTEER_TIMEOUT_SNAPSHOT_POLL", 5*time.Second),
	}
}

// TestTimeouts returns a Timeouts with millisecond-scale values so unit
// tests exercising wait loops complete quickly.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		ServerWait:   100 * time.Millisecond,
		ServerPoll:   10 * time.Millisecond,
		DeleteWait:   100 * time.Millisecond,
		DeletePoll:   10 * time.Millisecond,
		GatewayWait:  100 * time.Millisecond,
		GatewayPoll:  10 * time.Millisecond,
		DiskWait:     100 * time.Millisecond,
		DiskPoll:     10 * time.Millisecond,
		SnapshotWait: 100 * time.Millisecond,
		SnapshotPoll: 10 * time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
