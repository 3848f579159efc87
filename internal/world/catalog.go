package world

import "citadel-sim/internal/threat"

// DefaultAssets returns the California grid assets in display order.
func DefaultAssets() []Asset {
	return []Asset{
		{ID: "SHA", Name: "Shasta Dam Hydro", Category: Generation, Lat: 40.717, Lon: -122.417},
		{ID: "SAC", Name: "Sacramento Control HQ", Category: Command, Lat: 38.581, Lon: -121.494},
		{ID: "SFO", Name: "San Francisco Substation", Category: Distribution, Lat: 37.774, Lon: -122.419},
		{ID: "FRE", Name: "Fresno Solar Farm", Category: Generation, Lat: 36.746, Lon: -119.772},
		{ID: "DIA", Name: "Diablo Canyon Nuclear", Category: Generation, Lat: 35.211, Lon: -120.855},
		{ID: "LAX", Name: "Los Angeles Metro Grid", Category: Distribution, Lat: 34.052, Lon: -118.243},
		{ID: "SAN", Name: "San Onofre Plant (Decom)", Category: Storage, Lat: 33.369, Lon: -117.555},
		{ID: "LAS", Name: "Nevada Interconnect", Category: External, Lat: 36.169, Lon: -115.139},
	}
}

// DefaultConnections returns the transmission lines between default assets.
func DefaultConnections() []Connection {
	return []Connection{
		{From: "SHA", To: "SAC"}, {From: "SAC", To: "SFO"}, {From: "SAC", To: "FRE"},
		{From: "FRE", To: "DIA"}, {From: "DIA", To: "LAX"}, {From: "FRE", To: "LAS"},
		{From: "LAX", To: "SAN"}, {From: "LAS", To: "LAX"},
	}
}

// Default builds the built-in California world. The catalog is static, so
// a failure here is a programming error.
func Default() *World {
	w, err := New(DefaultAssets(), DefaultConnections(), threat.DefaultActors())
	if err != nil {
		panic(err)
	}
	return w
}
