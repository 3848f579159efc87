package threat

import "fmt"

// Intner supplies uniform integer draws in [0, n).
type Intner interface {
	Intn(n int) int
}

// Masked source labels keep the first two octets inside these bounds.
const (
	firstOctetMin = 11
	firstOctetMax = 220
)

// DefaultActors returns the built-in threat group catalog.
func DefaultActors() []Actor {
	return []Actor{
		{Organization: "APT-29 (RUSSIA)", Origin: "RUS"},
		{Organization: "APT-1 (CHINA)", Origin: "CHN"},
		{Organization: "LAZARUS (N. KOREA)", Origin: "DPRK"},
		{Organization: "SANDWORM (RUSSIA)", Origin: "RUS"},
		{Organization: "CHARMING KITTEN (IRAN)", Origin: "IRN"},
		{Organization: "VOLT TYPHOON (CHINA)", Origin: "CHN"},
	}
}

// Pick returns a uniformly chosen actor. actors must not be empty.
func Pick(actors []Actor, r Intner) Actor {
	return actors[r.Intn(len(actors))]
}

// SourceLabel synthesises a cosmetic source address such as "57.203.x.x".
// It is not a real IP and is not meant to be parsed.
func SourceLabel(r Intner) string {
	a := firstOctetMin + r.Intn(firstOctetMax-firstOctetMin+1)
	b := r.Intn(256)
	return fmt.Sprintf("%d.%d.x.x", a, b)
}

// NewAttack labels a blocked attempt from actor. The source label is drawn
// from r after the actor has been chosen.
func NewAttack(actor Actor, r Intner) Attack {
	return Attack{
		SourceIP:     SourceLabel(r),
		Organization: actor.Organization,
		Origin:       actor.Origin,
	}
}
