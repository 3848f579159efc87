// Writer implementation printing diagnostic rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"citadel-sim/internal/config"
	"citadel-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// StdoutWriter prints rows as JSON lines, or as coloured text with a
// configuration overview when attached to a terminal.
type StdoutWriter struct {
	cfg      *config.SimulationConfig
	out      io.Writer
	colorize bool
	once     sync.Once
	mu       sync.Mutex
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout. Colour is
// enabled only when stdout is a TTY.
func NewStdoutWriter(cfg *config.SimulationConfig) *StdoutWriter {
	return &StdoutWriter{
		cfg:      cfg,
		out:      os.Stdout,
		colorize: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (w *StdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Sector:\t%s\n", w.cfg.SectorName)
	fmt.Fprintf(tw, "Threat Probability:\t%.2f\n", w.cfg.ThreatProbability)
	fmt.Fprintf(tw, "Initial Stability:\t%.1f%%\n", w.cfg.InitialStability)
	fmt.Fprintf(tw, "Alert Level:\t%d\n", w.cfg.AlertLevel)
	fmt.Fprintf(tw, "Tick Interval:\t%s\n", w.cfg.TickInterval)
	tw.Flush()

	fmt.Fprintln(w.out, "\nAssets:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tCategory\n")
	for _, a := range w.cfg.Assets {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\n", colorCyan, a.ID, colorReset, a.Name, a.Category)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

func (w *StdoutWriter) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

func (w *StdoutWriter) printLine(line string) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.out, line)
	return err
}

// Write outputs a single scan row.
func (w *StdoutWriter) Write(row telemetry.ScanRow) error {
	if !w.colorize {
		return w.printJSON(row)
	}
	statusColor := colorGreen
	if row.Threat {
		statusColor = colorRed
	}
	line := fmt.Sprintf("%s[%s]%s %sCHECK%s %s%s%s (%s) %s%s%s",
		colorGray, row.Timestamp.Format(time.TimeOnly), colorReset,
		colorBlue, colorReset,
		colorCyan, row.TargetID, colorReset,
		row.Category,
		statusColor, row.Status, colorReset)
	return w.printLine(line)
}

// WriteBatch outputs multiple scan rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.ScanRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAttack prints a blocked attempt.
func (w *StdoutWriter) WriteAttack(a telemetry.AttackRow) error {
	if !w.colorize {
		return w.printJSON(a)
	}
	line := fmt.Sprintf("%s[%s]%s %sBLOCKED%s %s%s%s -> %s %s%s [%s]%s",
		colorGray, a.Timestamp.Format(time.TimeOnly), colorReset,
		colorRed, colorReset,
		colorYellow, a.SourceIP, colorReset,
		a.TargetID,
		colorMagenta, a.Organization, a.Origin, colorReset)
	return w.printLine(line)
}

// WriteState prints the gauge after a tick.
func (w *StdoutWriter) WriteState(s telemetry.StateRow) error {
	if !w.colorize {
		return w.printJSON(s)
	}
	line := fmt.Sprintf("%s[%s]%s %sSTATE%s tick=%d stability=%s blocked=%d",
		colorGray, s.Timestamp.Format(time.TimeOnly), colorReset,
		colorBlue, colorReset,
		s.Tick, StabilityText(s.Stability), s.Blocked)
	return w.printLine(line)
}
