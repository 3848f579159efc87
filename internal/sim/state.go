package sim

import (
	"fmt"

	"citadel-sim/internal/telemetry"
	"citadel-sim/internal/threat"
	"citadel-sim/internal/world"
)

// History bounds.
const (
	MaxLogEntries  = 100
	MaxFeedEntries = 10
)

// Stability gauge bounds, in percent.
const (
	MinStability = 0.0
	MaxStability = 100.0
)

// LogEntry is one line of the diagnostic log.
type LogEntry struct {
	Timestamp      string         `json:"timestamp"`
	TargetID       string         `json:"target_id"`
	TargetCategory world.Category `json:"target_category"`
	IsThreat       bool           `json:"is_threat"`
}

// Status is the text shown after the check line.
func (e LogEntry) Status() string { return telemetry.StatusFor(e.IsThreat) }

// Line renders the entry as "[15:04:05] Checking SHA (GENERATION)...".
func (e LogEntry) Line() string {
	return fmt.Sprintf("[%s] Checking %s (%s)...", e.Timestamp, e.TargetID, e.TargetCategory)
}

// State is carried from one tick to the next. Its slices are never mutated
// in place once a tick has returned them, so a State may be shared freely.
type State struct {
	Stability float64         `json:"stability"`
	Blocked   int             `json:"blocked"`
	Log       []LogEntry      `json:"log"`
	Feed      []threat.Attack `json:"feed"`
}

// NewState returns an empty state with the given gauge and counter, clamped
// into range.
func NewState(stability float64, blocked int) State {
	if blocked < 0 {
		blocked = 0
	}
	return State{
		Stability: clampStability(stability),
		Blocked:   blocked,
		Log:       []LogEntry{},
		Feed:      []threat.Attack{},
	}
}

func clampStability(v float64) float64 {
	if v < MinStability {
		return MinStability
	}
	if v > MaxStability {
		return MaxStability
	}
	return v
}

// appendLog returns a new slice with e at the end, dropping the oldest
// entries beyond MaxLogEntries.
func appendLog(log []LogEntry, e LogEntry) []LogEntry {
	start := 0
	if n := len(log) + 1; n > MaxLogEntries {
		start = n - MaxLogEntries
	}
	out := make([]LogEntry, 0, len(log)-start+1)
	out = append(out, log[start:]...)
	return append(out, e)
}

// prependFeed returns a new slice with a at the front, dropping the oldest
// entries beyond MaxFeedEntries.
func prependFeed(feed []threat.Attack, a threat.Attack) []threat.Attack {
	keep := len(feed)
	if keep > MaxFeedEntries-1 {
		keep = MaxFeedEntries - 1
	}
	out := make([]threat.Attack, 0, keep+1)
	out = append(out, a)
	return append(out, feed[:keep]...)
}
