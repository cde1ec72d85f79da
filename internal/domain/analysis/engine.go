package analysis

import (
	"time"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/domain/fortune"
	"github.com/yanqian/destiny/internal/domain/ziwei"
)

// Converter is the calendar stage.
type Converter interface {
	Convert(instant time.Time, offset time.Duration) (calendar.LunisolarDate, error)
}

// PillarsCalculator is the pillars stage.
type PillarsCalculator interface {
	Compute(date calendar.LunisolarDate) (bazi.Chart, error)
}

// ChartCalculator is the star chart stage.
type ChartCalculator interface {
	Compute(date calendar.LunisolarDate, gender ziwei.Gender) (ziwei.Chart, error)
}

// Synthesizer is the fortune stage.
type Synthesizer interface {
	Synthesize(in fortune.Input) (fortune.Score, error)
}

// Engine bundles the pure computation stages.
type Engine struct {
	Calendar Converter
	Pillars  PillarsCalculator
	Chart    ChartCalculator
	Fortune  Synthesizer
}

var (
	_ Converter         = (*calendar.Converter)(nil)
	_ PillarsCalculator = (*bazi.Calculator)(nil)
	_ ChartCalculator   = (*ziwei.Calculator)(nil)
	_ Synthesizer       = (*fortune.Synthesizer)(nil)
)
