package sim

import (
	"context"
	"time"

	"citadel-sim/internal/logging"
	"citadel-sim/internal/telemetry"
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "session_id", s.sessionID)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator", "ticks", s.Ticks())
			return
		}
	}
}

// tick advances one step unless paused.
func (s *Simulator) tick(ctx context.Context) {
	if s.Paused() {
		return
	}
	s.Step(ctx)
}

// Step advances the simulation by exactly one tick, publishes the snapshot
// to every renderer and writes the diagnostic rows. Concurrent callers are
// serialised.
func (s *Simulator) Step(ctx context.Context) Snapshot {
	s.step.Lock()
	defer s.step.Unlock()

	s.mu.Lock()
	next, snap := s.engine.Tick(s.state, s.rand, s.now())
	s.state = next
	s.ticks++
	snap = s.decorate(snap)
	s.last = snap
	renderers := append([]Renderer(nil), s.renderers...)
	s.mu.Unlock()

	s.emit(ctx, snap)
	for _, r := range renderers {
		r.Render(snap)
	}
	return snap
}

// ManualStep is Step triggered by an operator; it is recorded as an
// operator event.
func (s *Simulator) ManualStep(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.logOperatorEvent("manual_tick", "")
	s.mu.Unlock()
	return s.Step(ctx)
}

// emit writes the rows for one tick. Sink failures are logged and dropped.
func (s *Simulator) emit(ctx context.Context, snap Snapshot) {
	log := logging.FromContext(ctx)
	if snap.Target == nil {
		return
	}
	log.Debug("tick",
		"tick", snap.Tick,
		"target", snap.Target.ID,
		"threat", snap.IsThreat,
		"stability", snap.Stability,
		"blocked", snap.Blocked)

	if s.writer != nil {
		row := s.gen.Scan(*snap.Target, snap.IsThreat, snap.Timestamp)
		if err := s.writer.Write(row); err != nil {
			log.Error("scan write failed", "target", row.TargetID, "err", err)
		}
		if sw, ok := s.writer.(StateWriter); ok {
			st := s.gen.State(snap.Tick, snap.Stability, snap.Blocked, snap.IsThreat, snap.Timestamp)
			if err := sw.WriteState(st); err != nil {
				log.Error("state write failed", "err", err)
			}
		}
	}

	if snap.Attack != nil && s.attackWriter != nil {
		rows := []telemetry.AttackRow{s.gen.Attack(*snap.Target, *snap.Attack, snap.Timestamp)}
		if bw, ok := s.attackWriter.(batchAttackWriter); ok {
			if err := bw.WriteAttacks(rows); err != nil {
				log.Error("attack batch write failed", "err", err)
			}
		} else {
			for _, r := range rows {
				if err := s.attackWriter.WriteAttack(r); err != nil {
					log.Error("attack write failed", "source_ip", r.SourceIP, "err", err)
				}
			}
		}
	}
}
