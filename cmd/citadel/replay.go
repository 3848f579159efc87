package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"citadel-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a scan log file",
	Long:  "replay feeds scan rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		ws, err := newWriters(nil, replayPrintOnly, false, "")
		if err != nil {
			return err
		}
		defer ws.cleanup()
		return sim.ReplayLogFile(replayInput, ws.scan, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to scan log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier, 0 writes everything at once")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to GreptimeDB")
	replayCmd.MarkFlagRequired("input")
}
