package bazi

import (
	"github.com/yanqian/destiny/internal/domain/calendar"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

// BaseSlotCount is the number of element-bearing slots without hidden stems.
const BaseSlotCount = 8

// Config toggles optional modelling.
type Config struct {
	// HiddenStems folds every branch's hidden stems into the distribution and
	// the ten god relations.
	HiddenStems bool
}

// Pillar is one of the four pillars with its derived attributes.
type Pillar struct {
	Position      string          `json:"position"`
	Stem          calendar.Stem   `json:"stem"`
	Branch        calendar.Branch `json:"branch"`
	Element       Element         `json:"element"`
	Polarity      Polarity        `json:"polarity"`
	BranchElement Element         `json:"branchElement"`
	HiddenStems   []calendar.Stem `json:"hiddenStems,omitempty"`
	NaYin         Element         `json:"naYin"`
}

// TenGodRelation labels a stem against the day master.
type TenGodRelation struct {
	Position string        `json:"position"`
	Hidden   bool          `json:"hidden,omitempty"`
	Stem     calendar.Stem `json:"stem"`
	God      TenGod        `json:"god"`
}

// DayMaster summarises the day stem and how many slots support it.
type DayMaster struct {
	Stem     calendar.Stem `json:"stem"`
	Element  Element       `json:"element"`
	Polarity Polarity      `json:"polarity"`
	Support  int           `json:"support"`
	Total    int           `json:"total"`
}

// Chart is the pillars calculator output.
type Chart struct {
	Pillars   []Pillar            `json:"pillars"`
	Elements  ElementDistribution `json:"elements"`
	SlotCount int                 `json:"slotCount"`
	TenGods   []TenGodRelation    `json:"tenGods"`
	DayMaster DayMaster           `json:"dayMaster"`
}

// Pillar returns the pillar at position, or false.
func (c Chart) Pillar(position string) (Pillar, bool) {
	for _, p := range c.Pillars {
		if p.Position == position {
			return p, true
		}
	}
	return Pillar{}, false
}

// CountGods tallies the ten god relations by category.
func (c Chart) CountGods() map[TenGod]int {
	out := make(map[TenGod]int, len(TenGods))
	for _, rel := range c.TenGods {
		out[rel.God]++
	}
	return out
}

// Calculator derives pillar attributes. It is pure and safe for concurrent use.
type Calculator struct {
	tables *Tables
	cfg    Config
}

// NewCalculator binds the lookup tables and options.
func NewCalculator(tables *Tables, cfg Config) *Calculator {
	return &Calculator{tables: tables, cfg: cfg}
}

// Compute builds the pillars chart of a converted date.
func (c *Calculator) Compute(date calendar.LunisolarDate) (Chart, error) {
	if err := date.Validate(); err != nil {
		return Chart{}, apperrors.Computation("malformed lunisolar date", err)
	}

	dayStem := date.Pillars.Day.Stem
	dayElement := c.tables.StemElement(dayStem)
	chart := Chart{
		Pillars:  make([]Pillar, 0, 4),
		Elements: make(ElementDistribution, ElementCount),
	}
	for _, e := range Elements() {
		chart.Elements[e] = 0
	}

	support := func(e Element) {
		chart.SlotCount++
		chart.Elements[e]++
		if e == dayElement || e == dayElement.GeneratedBy() {
			chart.DayMaster.Support++
		}
	}

	for i, sb := range date.Pillars.All() {
		position := calendar.PillarNames[i]
		naYin, err := c.tables.NaYin(sb)
		if err != nil {
			return Chart{}, apperrors.Computation("nayin lookup failed", err)
		}
		p := Pillar{
			Position:      position,
			Stem:          sb.Stem,
			Branch:        sb.Branch,
			Element:       c.tables.StemElement(sb.Stem),
			Polarity:      polarityOf(sb.Stem.Yang()),
			BranchElement: c.tables.BranchElement(sb.Branch),
			NaYin:         naYin,
		}
		support(p.Element)
		support(p.BranchElement)
		if position != "day" {
			chart.TenGods = append(chart.TenGods, TenGodRelation{
				Position: position,
				Stem:     sb.Stem,
				God:      c.tables.TenGod(dayStem, sb.Stem),
			})
		}
		if c.cfg.HiddenStems {
			p.HiddenStems = c.tables.HiddenStems(sb.Branch)
			for _, hidden := range p.HiddenStems {
				support(c.tables.StemElement(hidden))
				chart.TenGods = append(chart.TenGods, TenGodRelation{
					Position: position,
					Hidden:   true,
					Stem:     hidden,
					God:      c.tables.TenGod(dayStem, hidden),
				})
			}
		}
		chart.Pillars = append(chart.Pillars, p)
	}

	chart.DayMaster.Stem = dayStem
	chart.DayMaster.Element = dayElement
	chart.DayMaster.Polarity = polarityOf(dayStem.Yang())
	chart.DayMaster.Total = chart.SlotCount
	if chart.Elements.Total() != chart.SlotCount {
		return Chart{}, apperrors.Computation("element distribution does not match slot count", nil)
	}
	return chart, nil
}
