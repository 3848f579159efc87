// Package world holds the static grid topology: assets, the connections
// between them, and the threat actor catalog used to label attacks.
package world

import (
	"errors"
	"fmt"

	"citadel-sim/internal/threat"
)

var (
	// ErrNotFound is returned by Asset for an unknown id.
	ErrNotFound = errors.New("asset not found")
	// ErrUnknownAsset is returned by New when a connection names an unknown id.
	ErrUnknownAsset = errors.New("connection references unknown asset")
)

// Category classifies an asset. STORAGE and EXTERNAL are labels only.
type Category string

const (
	Generation   Category = "GENERATION"
	Command      Category = "COMMAND"
	Distribution Category = "DISTRIBUTION"
	Storage      Category = "STORAGE"
	External     Category = "EXTERNAL"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Generation, Command, Distribution, Storage, External:
		return true
	}
	return false
}

// Asset is a fixed point of interest on the map.
type Asset struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Lat      float64  `json:"lat" yaml:"lat"`
	Lon      float64  `json:"lon" yaml:"lon"`
}

// Connection is an ordered pair of asset ids.
type Connection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Link is a Connection with both ends resolved.
type Link struct {
	From Asset `json:"from"`
	To   Asset `json:"to"`
}

// World is immutable once built.
type World struct {
	assets []Asset
	index  map[string]int
	links  []Link
	actors []threat.Actor
}

// New validates the topology and resolves every connection eagerly. Any
// error here is a data-integrity failure and should abort startup.
func New(assets []Asset, conns []Connection, actors []threat.Actor) (*World, error) {
	if len(assets) == 0 {
		return nil, errors.New("world has no assets")
	}
	if len(actors) == 0 {
		return nil, errors.New("world has no threat actors")
	}
	w := &World{
		assets: append([]Asset(nil), assets...),
		index:  make(map[string]int, len(assets)),
		actors: append([]threat.Actor(nil), actors...),
	}
	for i, a := range w.assets {
		if a.ID == "" {
			return nil, fmt.Errorf("asset %d has empty id", i)
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("asset %s: invalid category %q", a.ID, a.Category)
		}
		if _, dup := w.index[a.ID]; dup {
			return nil, fmt.Errorf("duplicate asset id %s", a.ID)
		}
		w.index[a.ID] = i
	}
	for _, c := range conns {
		from, ok := w.index[c.From]
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s -> %s)", ErrUnknownAsset, c.From, c.From, c.To)
		}
		to, ok := w.index[c.To]
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s -> %s)", ErrUnknownAsset, c.To, c.From, c.To)
		}
		w.links = append(w.links, Link{From: w.assets[from], To: w.assets[to]})
	}
	return w, nil
}

// Asset looks up an asset by id.
func (w *World) Asset(id string) (Asset, error) {
	i, ok := w.index[id]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w.assets[i], nil
}

// Assets returns all assets in declaration order.
func (w *World) Assets() []Asset {
	return append([]Asset(nil), w.assets...)
}

// AssetCount returns the number of assets.
func (w *World) AssetCount() int { return len(w.assets) }

// AssetAt returns the asset at declaration index i.
func (w *World) AssetAt(i int) Asset { return w.assets[i] }

// Connections returns every connection with both ends resolved.
func (w *World) Connections() []Link {
	return append(make([]Link, 0, len(w.links)), w.links...)
}

// ThreatActors returns the actor catalog.
func (w *World) ThreatActors() []threat.Actor {
	return append([]threat.Actor(nil), w.actors...)
}

// RandomThreatActor picks an actor uniformly.
func (w *World) RandomThreatActor(r threat.Intner) threat.Actor {
	return threat.Pick(w.actors, r)
}
