package sim

import (
	"fmt"
	"time"

	"citadel-sim/internal/config"
	"citadel-sim/internal/posture"
	"citadel-sim/internal/threat"
	"citadel-sim/internal/world"
)

// Weight is the visual emphasis of an asset marker.
type Weight string

const (
	WeightNominal Weight = "nominal"
	WeightScanned Weight = "scanned"
	WeightThreat  Weight = "threat"
)

// Marker colours and radii.
const (
	ColorNominal = "#3fb950"
	ColorScanned = "#ffffff"
	ColorThreat  = "#ff4d4d"

	SizeNominal = 12
	SizeScanned = 18
	SizeThreat  = 25
)

// Style returns the fill colour and marker size for w.
func (w Weight) Style() (string, int) {
	switch w {
	case WeightThreat:
		return ColorThreat, SizeThreat
	case WeightScanned:
		return ColorScanned, SizeScanned
	}
	return ColorNominal, SizeNominal
}

// Marker is one asset as drawn on the map.
type Marker struct {
	world.Asset
	Weight Weight `json:"weight"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
}

func newMarker(a world.Asset, w Weight) Marker {
	color, size := w.Style()
	return Marker{Asset: a, Weight: w, Color: color, Size: size}
}

// Bounds is the fixed map viewport in degrees.
type Bounds struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// MapBounds frames the California sector.
var MapBounds = Bounds{LatMin: 32.0, LatMax: 42.5, LonMin: -125.5, LonMax: -114.0}

// Snapshot is everything a view needs to redraw after a tick. The engine
// fills the tick fields; the simulator adds the session and sector header.
type Snapshot struct {
	SessionID string            `json:"session_id"`
	Sector    string            `json:"sector"`
	Tick      uint64            `json:"tick"`
	Paused    bool              `json:"paused"`
	Alert     posture.Level     `json:"alert"`
	MapCenter config.Coordinate `json:"map_center"`
	Bounds    Bounds            `json:"bounds"`

	Timestamp     time.Time       `json:"timestamp"`
	Clock         string          `json:"clock"`
	Target        *world.Asset    `json:"target,omitempty"`
	IsThreat      bool            `json:"is_threat"`
	Attack        *threat.Attack  `json:"attack,omitempty"`
	Markers       []Marker        `json:"markers"`
	Connections   []world.Link    `json:"connections"`
	Stability     float64         `json:"stability"`
	StabilityText string          `json:"stability_text"`
	Blocked       int             `json:"blocked"`
	Log           []LogEntry      `json:"log"`
	Feed          []threat.Attack `json:"feed"`
}

// ClockText formats t the way the header clock shows it.
func ClockText(t time.Time) string {
	return t.UTC().Format("15:04:05") + " UTC"
}

// StabilityText formats the gauge reading, e.g. "99.4%".
func StabilityText(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
