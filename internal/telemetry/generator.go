package telemetry

import (
	"time"

	"citadel-sim/internal/threat"
	"citadel-sim/internal/world"
)

// Generator stamps rows with the session and sector they belong to.
type Generator struct {
	SessionID string
	Sector    string
}

// NewGenerator creates a row generator for one simulator session.
func NewGenerator(sessionID, sector string) *Generator {
	return &Generator{SessionID: sessionID, Sector: sector}
}

// Scan builds the diagnostic row for the asset checked this tick.
func (g *Generator) Scan(target world.Asset, isThreat bool, ts time.Time) ScanRow {
	return ScanRow{
		SessionID:  g.SessionID,
		Sector:     g.Sector,
		TargetID:   target.ID,
		TargetName: target.Name,
		Category:   string(target.Category),
		Threat:     isThreat,
		Status:     StatusFor(isThreat),
		Timestamp:  ts.UTC(),
	}
}

// Attack builds the row for a blocked attempt against target.
func (g *Generator) Attack(target world.Asset, a threat.Attack, ts time.Time) AttackRow {
	return AttackRow{
		SessionID:    g.SessionID,
		Sector:       g.Sector,
		TargetID:     target.ID,
		SourceIP:     a.SourceIP,
		Organization: a.Organization,
		Origin:       a.Origin,
		Timestamp:    ts.UTC(),
	}
}

// State builds the gauge row for tick n.
func (g *Generator) State(n uint64, stability float64, blocked int, isThreat bool, ts time.Time) StateRow {
	return StateRow{
		SessionID: g.SessionID,
		Sector:    g.Sector,
		Tick:      n,
		Stability: stability,
		Blocked:   blocked,
		Threat:    isThreat,
		Timestamp: ts.UTC(),
	}
}
