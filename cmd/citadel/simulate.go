package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"citadel-sim/internal/admin"
	"citadel-sim/internal/config"
	"citadel-sim/internal/logging"
	"citadel-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simTUI        bool
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simSeed       int64
	simLogFile    string
	simAdminAddr  string
	simLogLevel   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time grid simulator",
	Long:  "simulate starts the tick engine, serves the browser dashboard and emits scan, attack and state rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
		if cmd.Flags().Changed("tick") {
			cfg.TickInterval = simTick
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = simSeed
		}

		var out io.Writer = os.Stderr
		if simTUI {
			out = io.Discard
		}
		log := logging.NewWithLevel(out, logging.ParseLevel(simLogLevel))
		slog.SetDefault(log)

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		sessionID := os.Getenv("SESSION_ID")
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		ws, err := newWriters(cfg, simPrintOnly, simTUI, simLogFile)
		if err != nil {
			return err
		}
		defer ws.cleanup()

		simulator, err := sim.NewSimulator(sessionID, cfg, ws.scan, ws.attack, 0, nil, nil)
		if err != nil {
			return err
		}
		if ws.tui != nil {
			simulator.AddRenderer(ws.tui)
		}

		addr := simAdminAddr
		if env := os.Getenv("ADMIN_ADDR"); env != "" && !cmd.Flags().Changed("admin-addr") {
			addr = env
		}
		srv := admin.NewServer(simulator)
		simulator.NotifyAdminStatus(true)
		go func() {
			if err := srv.Start(ctx, addr); err != nil {
				log.Error("admin server failed", "addr", addr, "err", err)
				simulator.NotifyAdminStatus(false)
			}
		}()

		log.Info("simulation started",
			"session_id", sessionID,
			"sector", cfg.SectorName,
			"tick_interval", simulator.TickInterval())
		go simulator.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
		<-sigs

		cancel()
		log.Info("simulation stopped", "ticks", simulator.Ticks())
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to GreptimeDB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the dashboard in the terminal")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", config.DefaultTickInterval, "Tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed, 0 seeds from the clock")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export scan/attack/state logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Listen address of the browser dashboard")
	simulateCmd.Flags().StringVar(&simLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
