package ziwei

import "github.com/yanqian/destiny/internal/domain/calendar"

// PalaceName identifies one of the twelve life aspects.
type PalaceName string

const (
	PalaceSelf     PalaceName = "self"
	PalaceSiblings PalaceName = "siblings"
	PalaceSpouse   PalaceName = "spouse"
	PalaceChildren PalaceName = "children"
	PalaceWealth   PalaceName = "wealth"
	PalaceHealth   PalaceName = "health"
	PalaceTravel   PalaceName = "travel"
	PalaceFriends  PalaceName = "friends"
	PalaceCareer   PalaceName = "career"
	PalaceProperty PalaceName = "property"
	PalaceFortune  PalaceName = "fortune"
	PalaceParents  PalaceName = "parents"
)

// RingOrder is the fixed palace sequence, laid out counter-clockwise from
// the life palace. It is never reordered.
var RingOrder = [12]PalaceName{
	PalaceSelf, PalaceSiblings, PalaceSpouse, PalaceChildren,
	PalaceWealth, PalaceHealth, PalaceTravel, PalaceFriends,
	PalaceCareer, PalaceProperty, PalaceFortune, PalaceParents,
}

// Gender of the chart owner.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool { return g == Male || g == Female }

// Decade is the ten-year limit a palace governs.
type Decade struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Palace is one slot of the ring with its resolved stars.
type Palace struct {
	Name   PalaceName      `json:"name"`
	Branch calendar.Branch `json:"branch"`
	Stem   calendar.Stem   `json:"stem"`
	Body   bool            `json:"body"`
	Stars  []StarPlacement `json:"stars"`
	Decade Decade          `json:"decade"`
}

// Has reports whether star sits in the palace.
func (p Palace) Has(star Star) bool {
	for _, s := range p.Stars {
		if s.Star == star {
			return true
		}
	}
	return false
}

// Chart is the star-chart calculator output.
type Chart struct {
	LifePalaceIndex int        `json:"lifePalaceIndex"`
	BodyPalaceIndex int        `json:"bodyPalaceIndex"`
	Bureau          int        `json:"bureau"`
	DecadeForward   bool       `json:"decadeForward"`
	Palaces         [12]Palace `json:"palaces"`
}

// Palace returns the palace with the given name.
func (c Chart) Palace(name PalaceName) (Palace, bool) {
	for _, p := range c.Palaces {
		if p.Name == name {
			return p, true
		}
	}
	return Palace{}, false
}

// Locate returns the palace holding star.
func (c Chart) Locate(star Star) (Palace, bool) {
	for _, p := range c.Palaces {
		if p.Has(star) {
			return p, true
		}
	}
	return Palace{}, false
}
