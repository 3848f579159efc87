package sim

import "citadel-sim/internal/telemetry"

// ScanWriter receives one diagnostic row per tick.
type ScanWriter interface {
	Write(telemetry.ScanRow) error
}

// Optional: scan writers may support batch mode.
type batchScanWriter interface {
	WriteBatch([]telemetry.ScanRow) error
}

// AttackWriter receives a row for every blocked attempt.
type AttackWriter interface {
	WriteAttack(telemetry.AttackRow) error
}

// Optional: attack writers may support batch mode.
type batchAttackWriter interface {
	WriteAttacks([]telemetry.AttackRow) error
}

// StateWriter handles simulation state rows.
type StateWriter interface {
	WriteState(telemetry.StateRow) error
}

// Renderer receives the snapshot produced by every tick. Render is called
// on the simulator goroutine and must not block.
type Renderer interface {
	Render(Snapshot)
}

// AdminStatusWriter allows writers to receive admin UI status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}

// PauseToggler is implemented by views that can pause the simulator.
type PauseToggler interface {
	SetPauseToggle(fn func() bool)
}
