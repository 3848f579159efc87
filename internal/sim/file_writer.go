package sim

import (
	"encoding/json"
	"os"
	"sync"

	"citadel-sim/internal/telemetry"
)

// FileWriter writes scan, attack and state rows to JSONL files.
type FileWriter struct {
	mu        sync.Mutex
	scanFile  *os.File
	atkFile   *os.File
	stateFile *os.File
	scanEnc   *json.Encoder
	atkEnc    *json.Encoder
	stateEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. attackPath or statePath may be empty
// to skip those logs.
func NewFileWriter(scanPath, attackPath, statePath string) (*FileWriter, error) {
	sf, err := os.Create(scanPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{scanFile: sf, scanEnc: json.NewEncoder(sf)}
	if attackPath != "" {
		af, err := os.Create(attackPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.atkFile = af
		fw.atkEnc = json.NewEncoder(af)
	}
	if statePath != "" {
		stf, err := os.Create(statePath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.stateFile = stf
		fw.stateEnc = json.NewEncoder(stf)
	}
	return fw, nil
}

// Write logs a single scan row.
func (f *FileWriter) Write(row telemetry.ScanRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanEnc.Encode(row)
}

// WriteBatch logs multiple scan rows.
func (f *FileWriter) WriteBatch(rows []telemetry.ScanRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAttack logs a single attack row, if enabled.
func (f *FileWriter) WriteAttack(a telemetry.AttackRow) error {
	if f.atkEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.atkEnc.Encode(a)
}

// WriteAttacks logs multiple attack rows.
func (f *FileWriter) WriteAttacks(rows []telemetry.AttackRow) error {
	for _, r := range rows {
		if err := f.WriteAttack(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a simulation state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.StateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.scanFile, f.atkFile, f.stateFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
