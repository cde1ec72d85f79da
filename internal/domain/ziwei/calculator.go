package ziwei

import (
	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

// Calculator runs the placement pipeline. It is pure and safe for concurrent use.
type Calculator struct {
	pipeline *Pipeline
	elements *bazi.Tables
}

// NewCalculator binds a verified pipeline and the nayin tables.
func NewCalculator(pipeline *Pipeline, elements *bazi.Tables) *Calculator {
	return &Calculator{pipeline: pipeline, elements: elements}
}

// InputFrom reads the lunar month, day, hour branch and lunar year pair of a
// converted date. A leap month places as the month it repeats.
func InputFrom(date calendar.LunisolarDate, gender Gender) Input {
	year := calendar.FromCycle(date.Year - 4)
	return Input{
		LunarMonth: date.Month,
		LunarDay:   date.Day,
		Hour:       date.Pillars.Hour.Branch,
		YearStem:   year.Stem,
		YearBranch: year.Branch,
		Gender:     gender,
	}
}

// Compute builds the star chart of a converted date.
func (c *Calculator) Compute(date calendar.LunisolarDate, gender Gender) (Chart, error) {
	if !gender.Valid() {
		return Chart{}, apperrors.Validation("gender must be male or female")
	}
	if err := date.Validate(); err != nil {
		return Chart{}, apperrors.Computation("malformed lunisolar date", err)
	}
	return c.ComputeInput(InputFrom(date, gender))
}

// ComputeInput runs the pipeline over explicit inputs.
func (c *Calculator) ComputeInput(in Input) (Chart, error) {
	if in.LunarMonth < 1 || in.LunarMonth > 12 || in.LunarDay < 1 || in.LunarDay > 30 ||
		!in.Hour.Valid() || !in.YearStem.Valid() || !in.YearBranch.Valid() || !in.Gender.Valid() {
		return Chart{}, apperrors.Validation("star chart input outside the lunar calendar")
	}
	b := &board{
		in:         in,
		elements:   c.elements,
		positions:  make(map[Star]calendar.Branch, len(MajorStars)+len(MinorStars)),
		transforms: make(map[Star]Transformation, 4),
	}
	if err := c.pipeline.run(b); err != nil {
		return Chart{}, apperrors.Computation("star placement failed", err)
	}

	chart := Chart{
		LifePalaceIndex: int(b.life),
		BodyPalaceIndex: int(b.body),
		Bureau:          b.bureau,
		DecadeForward:   b.decadeForward,
	}
	for i, name := range RingOrder {
		branch := b.life.Offset(-i)
		chart.Palaces[i] = Palace{
			Name:   name,
			Branch: branch,
			Stem:   b.palaceStems[branch],
			Body:   branch == b.body,
			Stars:  []StarPlacement{},
			Decade: b.decades[branch],
		}
	}
	for _, group := range [][]Star{MajorStars, MinorStars} {
		for _, star := range group {
			branch, ok := b.positions[star]
			if !ok {
				continue
			}
			slot := int(b.life.Offset(-int(branch)))
			chart.Palaces[slot].Stars = append(chart.Palaces[slot].Stars, StarPlacement{
				Star:           star,
				Kind:           KindOf(star),
				Transformation: b.transforms[star],
			})
		}
	}
	return chart, nil
}
