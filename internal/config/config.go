// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"citadel-sim/internal/posture"
	"citadel-sim/internal/threat"
	"citadel-sim/internal/world"
)

// Built-in defaults. A config file only needs to name what it changes.
const (
	DefaultSectorName        = "CALIFORNIA (ISO-CA)"
	DefaultInitialStability  = 99.9
	DefaultInitialBlocked    = 0
	DefaultThreatProbability = 0.15
	DefaultAlertLevel        = 5
	DefaultTickInterval      = 1200 * time.Millisecond
)

// Coordinate is a map position in degrees.
type Coordinate struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// SimulationConfig is the root configuration for the sector and its topology.
type SimulationConfig struct {
	SectorName        string             `yaml:"sector_name" json:"sector_name"`
	MapCenter         Coordinate         `yaml:"map_center" json:"map_center"`
	InitialStability  float64            `yaml:"initial_stability" json:"initial_stability"`
	InitialBlocked    int                `yaml:"initial_blocked" json:"initial_blocked"`
	ThreatProbability float64            `yaml:"threat_probability" json:"threat_probability"`
	AlertLevel        int                `yaml:"alert_level" json:"alert_level"`
	TickInterval      time.Duration      `yaml:"tick_interval" json:"tick_interval"`
	Seed              int64              `yaml:"seed" json:"seed"`
	PostureFile       string             `yaml:"posture_file" json:"posture_file,omitempty"`
	Assets            []world.Asset      `yaml:"assets" json:"assets"`
	Connections       []world.Connection `yaml:"connections" json:"connections"`
	ThreatActors      []threat.Actor     `yaml:"threat_actors" json:"threat_actors"`
}

// Default returns the built-in California sector configuration.
func Default() *SimulationConfig {
	return &SimulationConfig{
		SectorName:        DefaultSectorName,
		MapCenter:         Coordinate{Lat: 37.2, Lon: -119.5},
		InitialStability:  DefaultInitialStability,
		InitialBlocked:    DefaultInitialBlocked,
		ThreatProbability: DefaultThreatProbability,
		AlertLevel:        DefaultAlertLevel,
		TickInterval:      DefaultTickInterval,
		Assets:            world.DefaultAssets(),
		Connections:       world.DefaultConnections(),
		ThreatActors:      threat.DefaultActors(),
	}
}

// Load loads YAML config over the defaults and validates it against a CUE
// schema first. An empty cueSchemaPath skips schema validation.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	slog.Info("loaded configuration",
		"sector", cfg.SectorName,
		"assets", len(cfg.Assets),
		"connections", len(cfg.Connections),
		"threat_probability", cfg.ThreatProbability,
		"tick_interval", cfg.TickInterval)

	return cfg, nil
}

// World builds the immutable world model described by the config.
func (c *SimulationConfig) World() (*world.World, error) {
	w, err := world.New(c.Assets, c.Connections, c.ThreatActors)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	return w, nil
}

// Posture returns the alert ladder: the built-in one, or PostureFile when set.
func (c *SimulationConfig) Posture() (*posture.Ladder, error) {
	if c.PostureFile == "" {
		return posture.BuiltIn(), nil
	}
	return posture.Load(c.PostureFile)
}

// ApplyEnv overrides fields from environment variables.
func (c *SimulationConfig) ApplyEnv() error {
	if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
		d, err := time.ParseDuration(envTick)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL: %w", err)
		}
		c.TickInterval = d
	}
	return nil
}

// LoadEnv loads KEY=VALUE pairs from .env style files into the process
// environment. Missing files are ignored; existing variables win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
