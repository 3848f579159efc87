// Diagnostic rows with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Scan status strings shown in the diagnostic log.
const (
	StatusOperational = "OPERATIONAL"
	StatusMalware     = "MALWARE SIGNATURE DETECTED"
)

// StatusFor returns the log status text for a tick's threat flag.
func StatusFor(threat bool) string {
	if threat {
		return StatusMalware
	}
	return StatusOperational
}

// ScanRow records one tick's diagnostic check of a grid asset.
type ScanRow struct {
	SessionID  string    `json:"session_id"`  // TAG
	Sector     string    `json:"sector"`      // TAG
	TargetID   string    `json:"target_id"`   // TAG
	TargetName string    `json:"target_name"` // FIELD
	Category   string    `json:"category"`    // FIELD
	Threat     bool      `json:"threat"`      // FIELD
	Status     string    `json:"status"`      // FIELD
	Timestamp  time.Time `json:"ts"`          // TIME INDEX
}

// AttackRow records a blocked intrusion attempt against an asset.
type AttackRow struct {
	SessionID    string    `json:"session_id"`   // TAG
	Sector       string    `json:"sector"`       // TAG
	TargetID     string    `json:"target_id"`    // TAG
	SourceIP     string    `json:"source_ip"`    // FIELD
	Organization string    `json:"organization"` // FIELD
	Origin       string    `json:"origin"`       // FIELD
	Timestamp    time.Time `json:"ts"`           // TIME INDEX
}

func tableName(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// Table names used when writing to GreptimeDB. Each can be overridden with
// an environment variable.
var (
	ScanTableName   = tableName("GREPTIMEDB_TABLE", "grid_scans")
	AttackTableName = tableName("ATTACK_TABLE", "grid_attacks")
	StateTableName  = tableName("STATE_TABLE", "grid_state")
)

func (ScanRow) TableName() string   { return ScanTableName }
func (AttackRow) TableName() string { return AttackTableName }
