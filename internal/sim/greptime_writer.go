package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"citadel-sim/internal/telemetry"
)

const (
	defaultGreptimePort  = 4001
	greptimeWriteTimeout = 5 * time.Second
)

// greptimeClient is the subset of the ingester client the writer needs.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes scan, attack and state rows to GreptimeDB via the
// gRPC ingester. Tables are created on first write.
type GreptimeDBWriter struct {
	client      greptimeClient
	scanTable   string
	attackTable string
	stateTable  string
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port").
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeDBWriter{
		client:      client,
		scanTable:   telemetry.ScanTableName,
		attackTable: telemetry.AttackTableName,
		stateTable:  telemetry.StateTableName,
	}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

func (w *GreptimeDBWriter) write(tbl *table.Table, n int) error {
	ctx, cancel := context.WithTimeout(context.Background(), greptimeWriteTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		slog.Error("greptime write failed", "rows", n, "err", err)
		return err
	}
	slog.Debug("greptime write", "rows", n)
	return nil
}

// Write inserts a single scan row.
func (w *GreptimeDBWriter) Write(row telemetry.ScanRow) error {
	return w.WriteBatch([]telemetry.ScanRow{row})
}

// WriteBatch inserts multiple scan rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.ScanRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.scanTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tagColumns{"session_id", "sector", "target_id"},
		fieldColumn{"target_name", types.STRING},
		fieldColumn{"category", types.STRING},
		fieldColumn{"threat", types.BOOLEAN},
		fieldColumn{"status", types.STRING},
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.Sector, r.TargetID, r.TargetName, r.Category, r.Threat, r.Status, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl, len(rows))
}

// WriteAttack inserts a single attack row.
func (w *GreptimeDBWriter) WriteAttack(a telemetry.AttackRow) error {
	return w.WriteAttacks([]telemetry.AttackRow{a})
}

// WriteAttacks inserts multiple attack rows.
func (w *GreptimeDBWriter) WriteAttacks(rows []telemetry.AttackRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.attackTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tagColumns{"session_id", "sector", "target_id"},
		fieldColumn{"source_ip", types.STRING},
		fieldColumn{"organization", types.STRING},
		fieldColumn{"origin", types.STRING},
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.Sector, r.TargetID, r.SourceIP, r.Organization, r.Origin, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl, len(rows))
}

// WriteState inserts a simulation state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.StateRow) error {
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tagColumns{"session_id", "sector"},
		fieldColumn{"tick", types.UINT64},
		fieldColumn{"stability", types.FLOAT64},
		fieldColumn{"blocked", types.INT64},
		fieldColumn{"threat", types.BOOLEAN},
	); err != nil {
		return err
	}
	if err := tbl.AddRow(row.SessionID, row.Sector, row.Tick, row.Stability, int64(row.Blocked), row.Threat, row.Timestamp); err != nil {
		return err
	}
	return w.write(tbl, 1)
}

type fieldColumn struct {
	name string
	typ  types.ColumnType
}

type tagColumns []string

// addColumns declares tags, then fields, then the ts time index, matching
// the value order passed to AddRow.
func addColumns(tbl *table.Table, tags tagColumns, fields ...fieldColumn) error {
	for _, t := range tags {
		if err := tbl.AddTagColumn(t, types.STRING); err != nil {
			return err
		}
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return err
		}
	}
	return tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
}
