package sim

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"citadel-sim/internal/telemetry"
)

// ReplayLog replays scan rows from r to writer. A speed >0 scales the
// recorded gaps between rows. If speed <= 0, rows are written without delay
// and in one batch when the writer supports it.
func ReplayLog(r io.Reader, writer ScanWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var (
		prev  time.Time
		batch []telemetry.ScanRow
	)
	bw, batching := writer.(batchScanWriter)
	batching = batching && speed <= 0
	for {
		var row telemetry.ScanRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if batching {
			batch = append(batch, row)
			continue
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
	if batching && len(batch) > 0 {
		return bw.WriteBatch(batch)
	}
	return nil
}

// ReplayLogFile opens a file and replays its scan rows.
func ReplayLogFile(path string, writer ScanWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
