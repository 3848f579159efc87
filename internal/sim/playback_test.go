package sim

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"citadel-sim/internal/telemetry"
)

func encodeRows(t *testing.T, rows []telemetry.ScanRow) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayLog(t *testing.T) {
	rows := []telemetry.ScanRow{
		{SessionID: "s1", TargetID: "SHA", Timestamp: time.Unix(0, 0)},
		{SessionID: "s1", TargetID: "FRE", Timestamp: time.Unix(1, 0)},
	}
	cw := &scanOnlyWriter{}
	if err := ReplayLog(encodeRows(t, rows), cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(cw.rows))
	}
	for i, r := range rows {
		if cw.rows[i].TargetID != r.TargetID {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.rows[i], r)
		}
	}
}

func TestReplayLogBatches(t *testing.T) {
	rows := []telemetry.ScanRow{{TargetID: "a"}, {TargetID: "b"}, {TargetID: "c"}}
	bw := &batchCountingWriter{}
	if err := ReplayLog(encodeRows(t, rows), bw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if bw.batches != 1 || len(bw.rows) != 3 {
		t.Fatalf("expected a single batch of 3, got %d batches %d rows", bw.batches, len(bw.rows))
	}
}

func TestReplayLogSpeed(t *testing.T) {
	rows := []telemetry.ScanRow{
		{TargetID: "a", Timestamp: time.Unix(0, 0)},
		{TargetID: "b", Timestamp: time.Unix(0, int64(40*time.Millisecond))},
	}
	cw := &scanOnlyWriter{}
	start := time.Now()
	if err := ReplayLog(encodeRows(t, rows), cw, 2); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected scaled delay, replay took %s", elapsed)
	}
}

func TestReplayLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.jsonl")
	buf := encodeRows(t, []telemetry.ScanRow{{TargetID: "LAX"}})
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cw := &scanOnlyWriter{}
	if err := ReplayLogFile(path, cw, 0); err != nil {
		t.Fatalf("ReplayLogFile: %v", err)
	}
	if len(cw.rows) != 1 || cw.rows[0].TargetID != "LAX" {
		t.Fatalf("unexpected rows: %+v", cw.rows)
	}
	if err := ReplayLogFile(filepath.Join(t.TempDir(), "missing"), cw, 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReplayLogRejectsGarbage(t *testing.T) {
	if err := ReplayLog(bytes.NewBufferString("{not json"), &scanOnlyWriter{}, 0); err == nil {
		t.Fatalf("expected decode error")
	}
}
