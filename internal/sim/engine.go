package sim

import (
	"time"

	"citadel-sim/internal/threat"
	"citadel-sim/internal/world"
)

// Per-tick stability adjustments, in percentage points.
const (
	RecoveryStep    = 0.1
	MinThreatDamage = 0.1
	MaxThreatDamage = 0.5
)

// Engine computes ticks over an immutable world. It keeps no mutable state
// of its own: everything that changes lives in the State passed to Tick.
type Engine struct {
	world             *world.World
	threatProbability float64
}

// NewEngine returns an engine for w. threatProbability is clamped to [0,1].
func NewEngine(w *world.World, threatProbability float64) *Engine {
	if threatProbability < 0 {
		threatProbability = 0
	} else if threatProbability > 1 {
		threatProbability = 1
	}
	return &Engine{world: w, threatProbability: threatProbability}
}

// ThreatProbability returns the effective per-tick threat chance.
func (e *Engine) ThreatProbability() float64 { return e.threatProbability }

// Tick advances prev by one step. Draws from src happen in a fixed order:
// target, roll, then on a threat the damage, the actor and the two source
// octets. The same seed therefore always yields the same run.
func (e *Engine) Tick(prev State, src Source, now time.Time) (State, Snapshot) {
	now = now.UTC()

	idx := src.Intn(e.world.AssetCount())
	target := e.world.AssetAt(idx)
	roll := src.Float64()
	isThreat := roll > 1-e.threatProbability

	next := State{
		Stability: prev.Stability,
		Blocked:   prev.Blocked,
		Feed:      prev.Feed,
	}
	var attack *threat.Attack
	if isThreat {
		next.Stability -= uniform(src, MinThreatDamage, MaxThreatDamage)
		next.Blocked++
		a := threat.NewAttack(e.world.RandomThreatActor(src), src)
		attack = &a
		next.Feed = prependFeed(prev.Feed, a)
	} else {
		next.Stability += RecoveryStep
	}
	next.Stability = clampStability(next.Stability)
	if next.Feed == nil {
		next.Feed = []threat.Attack{}
	}
	next.Log = appendLog(prev.Log, LogEntry{
		Timestamp:      now.Format("15:04:05"),
		TargetID:       target.ID,
		TargetCategory: target.Category,
		IsThreat:       isThreat,
	})

	snap := e.render(next, now)
	snap.Target = &target
	snap.IsThreat = isThreat
	snap.Attack = attack
	weight := WeightScanned
	if isThreat {
		weight = WeightThreat
	}
	snap.Markers[idx] = newMarker(target, weight)
	return next, snap
}

// Render builds a snapshot of st without advancing it. Every marker is
// nominal and there is no target.
func (e *Engine) Render(st State, now time.Time) Snapshot {
	return e.render(st, now.UTC())
}

func (e *Engine) render(st State, now time.Time) Snapshot {
	assets := e.world.Assets()
	markers := make([]Marker, len(assets))
	for i, a := range assets {
		markers[i] = newMarker(a, WeightNominal)
	}
	return Snapshot{
		Bounds:        MapBounds,
		Timestamp:     now,
		Clock:         ClockText(now),
		Markers:       markers,
		Connections:   e.world.Connections(),
		Stability:     st.Stability,
		StabilityText: StabilityText(st.Stability),
		Blocked:       st.Blocked,
		Log:           st.Log,
		Feed:          st.Feed,
	}
}
