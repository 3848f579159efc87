package posture

// BuiltIn returns the default DEFCON ladder.
func BuiltIn() *Ladder {
	return &Ladder{
		Name: "defcon",
		Levels: []Level{
			{Level: 1, Label: "DEFCON 1", Readiness: "Maximum Readiness", Color: "#ff4d4d"},
			{Level: 2, Label: "DEFCON 2", Readiness: "Armed Forces Ready", Color: "#ff7b72"},
			{Level: 3, Label: "DEFCON 3", Readiness: "Increased Readiness", Color: "#d29922"},
			{Level: 4, Label: "DEFCON 4", Readiness: "Increased Intelligence Watch", Color: "#3fb950"},
			{Level: 5, Label: "DEFCON 5", Readiness: "Standard Readiness", Color: "#58a6ff"},
		},
	}
}
