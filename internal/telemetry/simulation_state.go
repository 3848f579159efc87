package telemetry

import "time"

// StateRow captures the stability gauge and counters after each tick.
type StateRow struct {
	SessionID string    `json:"session_id"`
	Sector    string    `json:"sector"`
	Tick      uint64    `json:"tick"`
	Stability float64   `json:"stability"`
	Blocked   int       `json:"blocked"`
	Threat    bool      `json:"threat"`
	Timestamp time.Time `json:"ts"`
}

func (StateRow) TableName() string { return StateTableName }
