package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"citadel-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
	err   error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, m.err
}

func TestGreptimeWriterScans(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, scanTable: "grid_scans"}

	rows := []telemetry.ScanRow{
		{SessionID: "s1", Sector: "CA", TargetID: "FRE", TargetName: "Fresno Solar Farm", Category: "GENERATION", Threat: true, Status: telemetry.StatusMalware, Timestamp: ts},
		{SessionID: "s1", Sector: "CA", TargetID: "SHA", TargetName: "Shasta Dam Hydro", Category: "GENERATION", Status: telemetry.StatusOperational, Timestamp: ts},
	}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 8 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	if schema[2].ColumnName != "target_id" || schema[2].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("target_id should be a tag, got %v %v", schema[2].ColumnName, schema[2].SemanticType)
	}
	if schema[7].ColumnName != "ts" || schema[7].SemanticType != gpb.SemanticType_TIMESTAMP {
		t.Fatalf("last column should be the time index, got %v", schema[7].ColumnName)
	}

	got := m.table.GetRows().Rows
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if v := got[0].Values[2].GetStringValue(); v != "FRE" {
		t.Fatalf("target_id = %s, want FRE", v)
	}
	if !got[0].Values[5].GetBoolValue() {
		t.Fatalf("threat flag not written")
	}
	if v := got[1].Values[6].GetStringValue(); v != telemetry.StatusOperational {
		t.Fatalf("status = %s", v)
	}
}

func TestGreptimeWriterAttack(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, attackTable: "grid_attacks"}
	a := telemetry.AttackRow{SessionID: "s1", Sector: "CA", TargetID: "LAX", SourceIP: "57.203.x.x", Organization: "APT-29 (RUSSIA)", Origin: "RUS", Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteAttack(a); err != nil {
		t.Fatalf("WriteAttack: %v", err)
	}
	vals := m.table.GetRows().Rows[0].Values
	if v := vals[3].GetStringValue(); v != "57.203.x.x" {
		t.Fatalf("source_ip = %s", v)
	}
	if v := vals[5].GetStringValue(); v != "RUS" {
		t.Fatalf("origin = %s", v)
	}
}

func TestGreptimeWriterState(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stateTable: "grid_state"}
	row := telemetry.StateRow{SessionID: "s1", Sector: "CA", Tick: 9, Stability: 97.5, Blocked: 3, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteState(row); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	vals := m.table.GetRows().Rows[0].Values
	if v := vals[2].GetU64Value(); v != 9 {
		t.Fatalf("tick = %d", v)
	}
	if v := vals[3].GetF64Value(); v != 97.5 {
		t.Fatalf("stability = %f", v)
	}
	if v := vals[4].GetI64Value(); v != 3 {
		t.Fatalf("blocked = %d", v)
	}
}

func TestGreptimeWriterPropagatesErrors(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("unavailable")}
	w := &GreptimeDBWriter{client: m, scanTable: "grid_scans"}
	if err := w.Write(telemetry.ScanRow{TargetID: "SHA", Timestamp: time.Unix(0, 0)}); err == nil {
		t.Fatalf("expected error from client")
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, scanTable: "grid_scans"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table != nil {
		t.Fatalf("empty batch should not write")
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
	}{
		{"localhost:4001", "localhost", 4001},
		{"greptime", "greptime", defaultGreptimePort},
		{"10.0.0.5:5001", "10.0.0.5", 5001},
	}
	for _, tc := range cases {
		host, port, err := splitEndpoint(tc.in)
		if err != nil {
			t.Fatalf("splitEndpoint(%q): %v", tc.in, err)
		}
		if host != tc.host || port != tc.port {
			t.Fatalf("splitEndpoint(%q) = %s:%d", tc.in, host, port)
		}
	}
	if _, _, err := splitEndpoint("host:abc"); err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
}

func TestGreptimeWriterTagColumns(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	tests := []struct {
		name  string
		write func(w *GreptimeDBWriter) error
		tags  []string
	}{
		{"scans", func(w *GreptimeDBWriter) error {
			return w.Write(telemetry.ScanRow{SessionID: "s1", Sector: "CA", TargetID: "SHA", Timestamp: ts})
		}, []string{"session_id", "sector", "target_id"}},
		{"attacks", func(w *GreptimeDBWriter) error {
			return w.WriteAttack(telemetry.AttackRow{SessionID: "s1", Sector: "CA", TargetID: "SHA", Timestamp: ts})
		}, []string{"session_id", "sector", "target_id"}},
		{"state", func(w *GreptimeDBWriter) error {
			return w.WriteState(telemetry.StateRow{SessionID: "s1", Sector: "CA", Timestamp: ts})
		}, []string{"session_id", "sector"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockGreptimeClient{}
			w := &GreptimeDBWriter{client: m, scanTable: "grid_scans", attackTable: "grid_attacks", stateTable: "grid_state"}
			if err := tt.write(w); err != nil {
				t.Fatalf("write: %v", err)
			}
			schema := m.table.GetRows().Schema
			for i, want := range tt.tags {
				if schema[i].ColumnName != want || schema[i].SemanticType != gpb.SemanticType_TAG {
					t.Fatalf("column %d = %s (%v), want tag %s", i, schema[i].ColumnName, schema[i].SemanticType, want)
				}
			}
			if next := schema[len(tt.tags)]; next.SemanticType != gpb.SemanticType_FIELD {
				t.Fatalf("column %s after tags should be a field, got %v", next.ColumnName, next.SemanticType)
			}
		})
	}
}
