// Simulator hosting the tick engine and fanning results out to sinks
package sim

import (
	"sync"
	"time"

	"citadel-sim/internal/config"
	"citadel-sim/internal/posture"
	"citadel-sim/internal/telemetry"
	"citadel-sim/internal/world"
)

// Simulator owns the running state and serialises ticks.
type Simulator struct {
	sessionID    string
	cfg          *config.SimulationConfig
	world        *world.World
	engine       *Engine
	alert        posture.Level
	gen          *telemetry.Generator
	writer       ScanWriter
	attackWriter AttackWriter
	tickInterval time.Duration
	rand         Source
	now          func() time.Time

	// step serialises whole ticks including sink output; mu guards fields.
	step           sync.Mutex
	mu             sync.Mutex
	state          State
	last           Snapshot
	ticks          uint64
	paused         bool
	renderers      []Renderer
	operatorEvents []OperatorEvent
}

// NewSimulator builds the world and alert posture from cfg. writer and
// aWriter may be nil. A nil r seeds from cfg.Seed; a nil now uses time.Now.
func NewSimulator(sessionID string, cfg *config.SimulationConfig, writer ScanWriter, aWriter AttackWriter, tickInterval time.Duration, r Source, now func() time.Time) (*Simulator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	w, err := cfg.World()
	if err != nil {
		return nil, err
	}
	ladder, err := cfg.Posture()
	if err != nil {
		return nil, err
	}
	if tickInterval <= 0 {
		tickInterval = cfg.TickInterval
	}
	if tickInterval <= 0 {
		tickInterval = config.DefaultTickInterval
	}
	if r == nil {
		r = NewSource(cfg.Seed)
	}
	if now == nil {
		now = time.Now
	}
	s := &Simulator{
		sessionID:    sessionID,
		cfg:          cfg,
		world:        w,
		engine:       NewEngine(w, cfg.ThreatProbability),
		alert:        ladder.Describe(posture.Clamp(cfg.AlertLevel)),
		gen:          telemetry.NewGenerator(sessionID, cfg.SectorName),
		writer:       writer,
		attackWriter: aWriter,
		tickInterval: tickInterval,
		rand:         r,
		now:          now,
		state:        NewState(cfg.InitialStability, cfg.InitialBlocked),
	}
	s.last = s.decorate(s.engine.Render(s.state, now()))
	return s, nil
}

// decorate adds the run header to a snapshot. Caller holds mu.
func (s *Simulator) decorate(snap Snapshot) Snapshot {
	snap.SessionID = s.sessionID
	snap.Sector = s.cfg.SectorName
	snap.Tick = s.ticks
	snap.Paused = s.paused
	snap.Alert = s.alert
	snap.MapCenter = s.cfg.MapCenter
	return snap
}

// AddRenderer registers r to receive every future snapshot. A renderer that
// is also a PauseToggler gets TogglePause bound to its pause control.
func (s *Simulator) AddRenderer(r Renderer) {
	s.mu.Lock()
	s.renderers = append(s.renderers, r)
	s.mu.Unlock()
	if pt, ok := r.(PauseToggler); ok {
		pt.SetPauseToggle(s.TogglePause)
	}
}

// Snapshot returns the most recent snapshot.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// State returns the current state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ticks returns the number of completed ticks.
func (s *Simulator) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// World returns the immutable world model.
func (s *Simulator) World() *world.World { return s.world }

// GetConfig returns the simulation configuration.
func (s *Simulator) GetConfig() *config.SimulationConfig { return s.cfg }

// SessionID identifies this run in every emitted row.
func (s *Simulator) SessionID() string { return s.sessionID }

// TickInterval is the ticker cadence used by Run.
func (s *Simulator) TickInterval() time.Duration { return s.tickInterval }

// Alert returns the configured alert level.
func (s *Simulator) Alert() posture.Level { return s.alert }

// TogglePause flips the paused flag and returns the new value. A paused
// simulator ignores the ticker but still accepts manual ticks.
func (s *Simulator) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	s.last.Paused = s.paused
	if s.paused {
		s.logOperatorEvent("pause", "")
	} else {
		s.logOperatorEvent("resume", "")
	}
	return s.paused
}

// Paused reports whether the ticker is suspended.
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// NotifyAdminStatus tells the writer and renderers whether the admin
// server is listening.
func (s *Simulator) NotifyAdminStatus(listening bool) {
	s.mu.Lock()
	targets := []any{s.writer}
	for _, r := range s.renderers {
		targets = append(targets, r)
	}
	s.mu.Unlock()
	for _, t := range targets {
		if aw, ok := t.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
