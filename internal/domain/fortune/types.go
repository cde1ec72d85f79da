package fortune

import (
	"time"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/domain/ziwei"
)

// Domain is a scored life area.
type Domain string

const (
	Career Domain = "career"
	Wealth Domain = "wealth"
	Love   Domain = "love"
	Health Domain = "health"
)

// Domains lists the scored areas in output order.
var Domains = [4]Domain{Career, Wealth, Love, Health}

// Signal is an independently scored input of a domain score.
type Signal string

const (
	SignalBalance  Signal = "element_balance"
	SignalStrength Signal = "day_master"
	SignalGods     Signal = "ten_gods"
	SignalPalace   Signal = "palace_stars"
)

// Signals lists every signal in evaluation order.
var Signals = [4]Signal{SignalBalance, SignalStrength, SignalGods, SignalPalace}

// AdviceTag is the coarse band of a domain score.
type AdviceTag string

const (
	Caution   AdviceTag = "caution"
	Steady    AdviceTag = "steady"
	Favorable AdviceTag = "favorable"
)

// Advice is a band tag plus structured detail codes.
type Advice struct {
	Tag     AdviceTag `json:"tag"`
	Details []string  `json:"details,omitempty"`
}

// DomainScore is the result for one life area.
type DomainScore struct {
	Domain  Domain         `json:"domain"`
	Score   int            `json:"score"`
	Advice  Advice         `json:"advice"`
	Signals map[Signal]int `json:"signals"`
}

// Daily describes the day a time-relative score was computed for.
type Daily struct {
	AsOf      string              `json:"asOf"`
	DayPillar calendar.StemBranch `json:"dayPillar"`
	God       bazi.TenGod         `json:"god"`
}

// Score is the synthesizer output.
type Score struct {
	Domains []DomainScore `json:"domains"`
	Overall int           `json:"overall"`
	Daily   *Daily        `json:"daily,omitempty"`
}

// Domain returns the score of a single area.
func (s Score) Domain(d Domain) (DomainScore, bool) {
	for _, ds := range s.Domains {
		if ds.Domain == d {
			return ds, true
		}
	}
	return DomainScore{}, false
}

// TruncateAdvice keeps at most limit detail codes per domain. A negative
// limit keeps everything.
func (s Score) TruncateAdvice(limit int) Score {
	if limit < 0 {
		return s
	}
	out := s
	out.Domains = make([]DomainScore, len(s.Domains))
	for i, ds := range s.Domains {
		if len(ds.Advice.Details) > limit {
			ds.Advice.Details = append([]string(nil), ds.Advice.Details[:limit]...)
		}
		if len(ds.Advice.Details) == 0 {
			ds.Advice.Details = nil
		}
		out.Domains[i] = ds
	}
	return out
}

// Input gathers what the synthesizer reads. Chart is optional; a zero AsOf
// skips the daily variant.
type Input struct {
	Pillars bazi.Chart
	Chart   *ziwei.Chart
	AsOf    time.Time
}
