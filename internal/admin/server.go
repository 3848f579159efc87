// Package admin serves the browser dashboard and the operator API.
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"citadel-sim/internal/config"
	"citadel-sim/internal/logging"
	"citadel-sim/internal/sim"
	"citadel-sim/internal/threat"
	"citadel-sim/internal/world"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Sim *sim.Simulator
	hub *Hub
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

// NewServer wires a dashboard to s. The hub is registered as a renderer so
// every tick is pushed to connected browsers once Start runs.
func NewServer(s *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	hub := NewHub()
	s.AddRenderer(hub)
	return &Server{Sim: s, hub: hub, tpl: tpl}
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /world", s.handleWorld)
	mux.HandleFunc("GET /config", s.handleConfig)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /operator-events", s.handleOperatorEvents)
	mux.HandleFunc("POST /tick", s.handleTick)
	mux.HandleFunc("POST /toggle-pause", s.handleTogglePause)
	mux.HandleFunc("GET /ws", s.handleWS)
	return Cors(mux)
}

// Start runs the hub and serves HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("admin server shutdown", "err", err)
		}
	}()

	log.Info("admin server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.Sim.GetConfig()
	data := struct {
		Sector    string
		SessionID string
		Snapshot  sim.Snapshot
		Bounds    sim.Bounds
		Interval  time.Duration
	}{
		Sector:    cfg.SectorName,
		SessionID: s.Sim.SessionID(),
		Snapshot:  s.Sim.Snapshot(),
		Bounds:    sim.MapBounds,
		Interval:  s.Sim.TickInterval(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("render index", "err", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot())
}

// worldView is the static topology as served to clients.
type worldView struct {
	Sector       string            `json:"sector"`
	MapCenter    config.Coordinate `json:"map_center"`
	Bounds       sim.Bounds        `json:"bounds"`
	Assets       []world.Asset     `json:"assets"`
	Connections  []world.Link      `json:"connections"`
	ThreatActors []threat.Actor    `json:"threat_actors"`
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	wm := s.Sim.World()
	cfg := s.Sim.GetConfig()
	writeJSON(w, worldView{
		Sector:       cfg.SectorName,
		MapCenter:    cfg.MapCenter,
		Bounds:       sim.MapBounds,
		Assets:       wm.Assets(),
		Connections:  wm.Connections(),
		ThreatActors: wm.ThreatActors(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.GetConfig())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":     "ok",
		"session_id": s.Sim.SessionID(),
		"ticks":      s.Sim.Ticks(),
		"paused":     s.Sim.Paused(),
		"clients":    s.hub.ClientCount(),
	})
}

func (s *Server) handleOperatorEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.OperatorEvents())
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.ManualStep(r.Context()))
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"paused": s.Sim.TogglePause()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r, s.Sim.Snapshot())
}
