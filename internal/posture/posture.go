// Package posture maps the configured alert level to the label and
// readiness text shown next to the stability gauge. The level is cosmetic:
// nothing in the tick engine reads it.
package posture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lowest and highest alert levels. 1 is the most severe.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Level is one rung of the alert ladder.
type Level struct {
	Level     int    `yaml:"level" json:"level"`
	Label     string `yaml:"label" json:"label"`
	Readiness string `yaml:"readiness,omitempty" json:"readiness"`
	Color     string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Ladder is the full set of alert levels.
type Ladder struct {
	Name   string  `yaml:"name,omitempty"`
	Levels []Level `yaml:"levels"`
}

// Load reads a YAML ladder definition from disk.
func Load(path string) (*Ladder, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read posture ladder: %w", err)
	}
	var l Ladder
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("parse posture ladder: %w", err)
	}
	for _, lv := range l.Levels {
		if lv.Level < MinLevel || lv.Level > MaxLevel {
			return nil, fmt.Errorf("posture level %d outside %d-%d", lv.Level, MinLevel, MaxLevel)
		}
	}
	return &l, nil
}

// Lookup returns the rung for level, if defined.
func (l *Ladder) Lookup(level int) (Level, bool) {
	for _, lv := range l.Levels {
		if lv.Level == level {
			return lv, true
		}
	}
	return Level{}, false
}

// Describe is Lookup with a generic fallback label for undefined levels.
func (l *Ladder) Describe(level int) Level {
	if lv, ok := l.Lookup(level); ok {
		return lv
	}
	return Level{Level: level, Label: fmt.Sprintf("DEFCON %d", level)}
}

// Clamp forces level into the valid range.
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
