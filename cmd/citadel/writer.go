package main

import (
	"os"

	"citadel-sim/internal/config"
	"citadel-sim/internal/sim"
)

// writerSet holds the sinks the simulator writes to and how to close them.
type writerSet struct {
	scan    sim.ScanWriter
	attack  sim.AttackWriter
	tui     *sim.TUIWriter
	cleanup func()
}

// newWriters sets up scan and attack writers based on flags and env vars.
// The terminal UI renders snapshots and replaces STDOUT output; GreptimeDB
// is used when GREPTIMEDB_ENDPOINT is set and printOnly is false. The scan
// and attack writers are nil when no sink is selected.
func newWriters(cfg *config.SimulationConfig, printOnly, tui bool, logFile string) (*writerSet, error) {
	var (
		scans   []sim.ScanWriter
		attacks []sim.AttackWriter
		closers []func()
	)
	ws := &writerSet{}

	if tui {
		ws.tui = sim.NewTUIWriter(cfg)
		closers = append(closers, func() { ws.tui.Close() })
	}

	switch endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); {
	case !printOnly && endpoint != "":
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		gw, err := sim.NewGreptimeDBWriter(endpoint, database)
		if err != nil {
			runAll(closers)
			return nil, err
		}
		scans = append(scans, gw)
		attacks = append(attacks, gw)
	case !tui:
		sw := sim.NewStdoutWriter(cfg)
		scans = append(scans, sw)
		attacks = append(attacks, sw)
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile, logFile+".attacks", logFile+".state")
		if err != nil {
			runAll(closers)
			return nil, err
		}
		scans = append(scans, fw)
		attacks = append(attacks, fw)
		closers = append(closers, func() { fw.Close() })
	}

	ws.cleanup = func() { runAll(closers) }
	switch len(scans) {
	case 0:
		return ws, nil
	case 1:
		ws.scan, ws.attack = scans[0], attacks[0]
		return ws, nil
	}
	mw := sim.NewMultiWriter(scans, attacks)
	ws.scan, ws.attack = mw, mw
	return ws, nil
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
