package sim

import "citadel-sim/internal/telemetry"

// MultiWriter fans scan, attack and state rows out to multiple writers.
type MultiWriter struct {
	scanWriters   []ScanWriter
	attackWriters []AttackWriter
}

// NewMultiWriter creates a new MultiWriter. State rows go to every scan
// writer that also implements StateWriter.
func NewMultiWriter(sws []ScanWriter, aws []AttackWriter) *MultiWriter {
	return &MultiWriter{scanWriters: sws, attackWriters: aws}
}

// Write sends a scan row to all writers.
func (mw *MultiWriter) Write(row telemetry.ScanRow) error {
	for _, w := range mw.scanWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple scan rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.ScanRow) error {
	for _, w := range mw.scanWriters {
		if bw, ok := w.(batchScanWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteAttack sends an attack row to all attack writers.
func (mw *MultiWriter) WriteAttack(row telemetry.AttackRow) error {
	for _, w := range mw.attackWriters {
		if err := w.WriteAttack(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteAttacks sends multiple attack rows, using batch if supported.
func (mw *MultiWriter) WriteAttacks(rows []telemetry.AttackRow) error {
	for _, w := range mw.attackWriters {
		if bw, ok := w.(batchAttackWriter); ok {
			if err := bw.WriteAttacks(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteAttack(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState forwards a state row to every scan writer that accepts one.
func (mw *MultiWriter) WriteState(row telemetry.StateRow) error {
	for _, w := range mw.scanWriters {
		if sw, ok := w.(StateWriter); ok {
			if err := sw.WriteState(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetAdminStatus forwards the admin indicator to writers that show it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.scanWriters {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
