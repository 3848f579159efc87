package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citadel-sim/internal/config"
	"citadel-sim/internal/telemetry"
	"citadel-sim/internal/world"
)

type collectWriter struct {
	mu      sync.Mutex
	scans   []telemetry.ScanRow
	attacks []telemetry.AttackRow
	states  []telemetry.StateRow
	admin   *bool
	err     error
}

func (c *collectWriter) Write(r telemetry.ScanRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scans = append(c.scans, r)
	return c.err
}

func (c *collectWriter) WriteAttack(r telemetry.AttackRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attacks = append(c.attacks, r)
	return c.err
}

func (c *collectWriter) WriteState(r telemetry.StateRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, r)
	return c.err
}

func (c *collectWriter) SetAdminStatus(listening bool) { c.admin = &listening }

type collectRenderer struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (c *collectRenderer) Render(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, s)
}

func (c *collectRenderer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snaps)
}

func fixedNow() time.Time { return tickTime }

func newTestSimulator(t *testing.T, cfg *config.SimulationConfig, w *collectWriter, src Source) *Simulator {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	var sw ScanWriter
	var aw AttackWriter
	if w != nil {
		sw, aw = w, w
	}
	s, err := NewSimulator("session-1", cfg, sw, aw, time.Second, src, fixedNow)
	require.NoError(t, err)
	return s
}

func TestNewSimulatorInitialSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.InitialStability = 150
	cfg.InitialBlocked = -2
	cfg.AlertLevel = 9
	s := newTestSimulator(t, cfg, nil, rand.New(rand.NewSource(1)))

	snap := s.Snapshot()
	assert.Equal(t, "session-1", snap.SessionID)
	assert.Equal(t, config.DefaultSectorName, snap.Sector)
	assert.Equal(t, uint64(0), snap.Tick)
	assert.Nil(t, snap.Target)
	assert.Equal(t, 100.0, snap.Stability)
	assert.Equal(t, 0, snap.Blocked)
	assert.Equal(t, 5, snap.Alert.Level)
	assert.Equal(t, cfg.MapCenter, snap.MapCenter)
	assert.Len(t, snap.Markers, 8)
	assert.Equal(t, time.Second, s.TickInterval())
}

func TestNewSimulatorRejectsBadTopology(t *testing.T) {
	cfg := config.Default()
	cfg.Connections = append(cfg.Connections, world.Connection{From: "SHA", To: "ZZZ"})
	_, err := NewSimulator("s", cfg, nil, nil, 0, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, world.ErrUnknownAsset))
}

func TestNewSimulatorTickIntervalFallback(t *testing.T) {
	cfg := config.Default()
	cfg.TickInterval = 0
	s, err := NewSimulator("s", cfg, nil, nil, 0, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTickInterval, s.TickInterval())
}

func TestStepWritesRowsAndRenders(t *testing.T) {
	w := &collectWriter{}
	s := newTestSimulator(t, nil, w, threatDraws(t, 3, 1.0))
	r := &collectRenderer{}
	s.AddRenderer(r)

	snap := s.Step(context.Background())

	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, "session-1", snap.SessionID)
	assert.InDelta(t, 99.4, s.State().Stability, 1e-9)
	assert.Equal(t, snap, s.Snapshot())
	require.Equal(t, 1, r.count())
	assert.Equal(t, snap, r.snaps[0])

	require.Len(t, w.scans, 1)
	assert.Equal(t, "FRE", w.scans[0].TargetID)
	assert.Equal(t, telemetry.StatusMalware, w.scans[0].Status)
	assert.Equal(t, "session-1", w.scans[0].SessionID)
	require.Len(t, w.attacks, 1)
	assert.Equal(t, "57.203.x.x", w.attacks[0].SourceIP)
	assert.Equal(t, "FRE", w.attacks[0].TargetID)
	require.Len(t, w.states, 1)
	assert.Equal(t, uint64(1), w.states[0].Tick)
	assert.Equal(t, 1, w.states[0].Blocked)
}

func TestStepQuietWritesNoAttack(t *testing.T) {
	w := &collectWriter{}
	s := newTestSimulator(t, nil, w, quietDraws(t, 0))
	s.Step(context.Background())
	assert.Len(t, w.scans, 1)
	assert.Empty(t, w.attacks)
}

func TestStepSurvivesWriterErrors(t *testing.T) {
	w := &collectWriter{err: errors.New("sink down")}
	s := newTestSimulator(t, nil, w, threatDraws(t, 3, 1.0))
	snap := s.Step(context.Background())
	assert.Equal(t, 1, snap.Blocked)
	assert.Equal(t, uint64(1), s.Ticks())
}

func TestPausedTickerSkipsButManualStepRuns(t *testing.T) {
	s := newTestSimulator(t, nil, nil, rand.New(rand.NewSource(1)))
	assert.True(t, s.TogglePause())
	assert.True(t, s.Snapshot().Paused)

	s.tick(context.Background())
	assert.Equal(t, uint64(0), s.Ticks())

	snap := s.ManualStep(context.Background())
	assert.Equal(t, uint64(1), s.Ticks())
	assert.True(t, snap.Paused)

	assert.False(t, s.TogglePause())
	s.tick(context.Background())
	assert.Equal(t, uint64(2), s.Ticks())

	events := s.OperatorEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "pause", events[0].Type)
	assert.Equal(t, "manual_tick", events[1].Type)
	assert.Equal(t, "resume", events[2].Type)
	assert.Equal(t, tickTime, events[0].Timestamp)
}

func TestSimulatorDeterministicForSeed(t *testing.T) {
	run := func() State {
		s := newTestSimulator(t, nil, nil, rand.New(rand.NewSource(1)))
		for i := 0; i < 200; i++ {
			s.Step(context.Background())
		}
		return s.State()
	}
	assert.Equal(t, run(), run())
}

func TestConcurrentStepsDoNotOverlap(t *testing.T) {
	s := newTestSimulator(t, nil, &collectWriter{}, rand.New(rand.NewSource(3)))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Step(context.Background())
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(200), s.Ticks())
	assert.Len(t, s.State().Log, MaxLogEntries)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	cfg := config.Default()
	s, err := NewSimulator("s", cfg, nil, nil, 5*time.Millisecond, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	assert.Eventually(t, func() bool { return s.Ticks() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNotifyAdminStatus(t *testing.T) {
	w := &collectWriter{}
	s := newTestSimulator(t, nil, w, rand.New(rand.NewSource(1)))
	s.NotifyAdminStatus(true)
	require.NotNil(t, w.admin)
	assert.True(t, *w.admin)
}

type pauseRenderer struct {
	collectRenderer
	toggle func() bool
}

func (p *pauseRenderer) SetPauseToggle(fn func() bool) { p.toggle = fn }

func TestAddRendererBindsPauseToggle(t *testing.T) {
	s := newTestSimulator(t, nil, nil, rand.New(rand.NewSource(1)))
	r := &pauseRenderer{}
	s.AddRenderer(r)
	require.NotNil(t, r.toggle)

	assert.True(t, r.toggle())
	assert.True(t, s.Paused())
	assert.False(t, r.toggle())
	assert.False(t, s.Paused())

	s.Step(context.Background())
	assert.Equal(t, 1, r.count())
}
