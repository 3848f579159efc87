package threat

// Actor is a threat group from the fixed catalog. It only labels simulated
// attacks; no behaviour depends on it.
type Actor struct {
	Organization string `json:"organization" yaml:"organization"`
	Origin       string `json:"origin" yaml:"origin"`
}

// Attack is one blocked intrusion attempt as shown in the attacker feed.
type Attack struct {
	SourceIP     string `json:"source_ip"`
	Organization string `json:"organization"`
	Origin       string `json:"origin"`
}
