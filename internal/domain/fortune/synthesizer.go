package fortune

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

const (
	minScore = 0
	maxScore = 100
	neutral  = 50
)

// Synthesizer turns pillars and an optional star chart into domain scores.
// It is pure and safe for concurrent use.
type Synthesizer struct {
	cfg     Config
	scoring *Scoring
	tables  *bazi.Tables
}

// NewSynthesizer validates cfg and binds the point tables.
func NewSynthesizer(cfg Config, scoring *Scoring, tables *bazi.Tables) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("fortune config: %w", err)
	}
	return &Synthesizer{cfg: cfg, scoring: scoring, tables: tables}, nil
}

// Synthesize scores the four domains and the overall result.
func (s *Synthesizer) Synthesize(in Input) (Score, error) {
	if in.Pillars.SlotCount == 0 || in.Pillars.Elements.Total() != in.Pillars.SlotCount {
		return Score{}, apperrors.Computation("pillars chart has no element slots", nil)
	}

	var daily *Daily
	if !in.AsOf.IsZero() {
		day := calendar.DayPillar(in.AsOf)
		daily = &Daily{
			AsOf:      in.AsOf.Format("2006-01-02"),
			DayPillar: day,
			God:       s.tables.TenGod(in.Pillars.DayMaster.Stem, day.Stem),
		}
	}

	balance := elementBalance(in.Pillars.Elements, in.Pillars.SlotCount)
	strength := dayMasterBalance(in.Pillars.DayMaster)
	gods := in.Pillars.CountGods()

	out := Score{Domains: make([]DomainScore, 0, len(Domains)), Daily: daily}
	for _, domain := range Domains {
		signals := map[Signal]int{
			SignalBalance:  balance,
			SignalStrength: strength,
			SignalGods:     s.godSignal(domain, gods, len(in.Pillars.TenGods)),
		}
		if in.Chart != nil {
			palace, err := s.palaceSignal(domain, in)
			if err != nil {
				return Score{}, err
			}
			signals[SignalPalace] = palace
		}

		score := s.weigh(domain, signals)
		details := detailCodes(signals, s.cfg.Signals[domain])
		if daily != nil {
			if delta := s.scoring.DailyDeltas[daily.God][domain]; delta != 0 {
				score = clamp(score + delta)
				details = append(details, "day:"+string(daily.God))
			}
		}
		out.Domains = append(out.Domains, DomainScore{
			Domain:  domain,
			Score:   score,
			Advice:  Advice{Tag: s.cfg.Bands.Tag(score), Details: details},
			Signals: signals,
		})
	}

	scores := make(map[Domain]int, len(Domains))
	for _, ds := range out.Domains {
		scores[ds.Domain] = ds.Score
	}
	out.Overall = s.Overall(scores)
	return out, nil
}

// Overall is the fixed-weight combination of the domain scores. It is
// monotonic in each domain because every weight is non-negative.
func (s *Synthesizer) Overall(scores map[Domain]int) int {
	total := decimal.Zero
	for _, domain := range Domains {
		total = total.Add(s.cfg.Overall[domain].Mul(decimal.NewFromInt(int64(scores[domain]))))
	}
	return clamp(int(total.Round(0).IntPart()))
}

// weigh combines the available signals, renormalising the weights when a
// signal is absent.
func (s *Synthesizer) weigh(domain Domain, signals map[Signal]int) int {
	weights := s.cfg.Signals[domain]
	sum, weightSum := decimal.Zero, decimal.Zero
	for _, signal := range Signals {
		value, ok := signals[signal]
		w := weights[signal]
		if !ok || w.IsZero() {
			continue
		}
		sum = sum.Add(w.Mul(decimal.NewFromInt(int64(value))))
		weightSum = weightSum.Add(w)
	}
	if weightSum.IsZero() {
		return neutral
	}
	return clamp(int(sum.Div(weightSum).Round(0).IntPart()))
}

// godSignal starts neutral and adds the domain points of every relation,
// scaled so charts with hidden stems stay comparable to those without.
func (s *Synthesizer) godSignal(domain Domain, gods map[bazi.TenGod]int, relations int) int {
	if relations == 0 {
		return neutral
	}
	points := 0
	for god, n := range gods {
		points += s.scoring.GodPoints[domain][god] * n
	}
	scaled := decimal.NewFromInt(int64(points * 3)).Div(decimal.NewFromInt(int64(relations)))
	return clamp(neutral + int(scaled.Round(0).IntPart()))
}

func (s *Synthesizer) palaceSignal(domain Domain, in Input) (int, error) {
	name := s.scoring.Palaces[domain]
	palace, ok := in.Chart.Palace(name)
	if !ok {
		return 0, apperrors.Computation(fmt.Sprintf("star chart has no %s palace", name), nil)
	}
	points := 0
	for _, star := range palace.Stars {
		points += s.scoring.StarPoints[star.Star]
		if star.Transformation != "" {
			points += s.scoring.TransformPoints[star.Transformation]
		}
	}
	return clamp(neutral + points), nil
}

// elementBalance is 100 for an even spread and 0 when every slot shares one element.
func elementBalance(dist bazi.ElementDistribution, total int) int {
	deviation := 0
	for _, e := range bazi.Elements() {
		diff := bazi.ElementCount*dist[e] - total
		if diff < 0 {
			diff = -diff
		}
		deviation += diff
	}
	return clamp(maxScore - deviation*maxScore/(2*(bazi.ElementCount-1)*total))
}

// dayMasterBalance peaks when half the slots support the day master.
func dayMasterBalance(dm bazi.DayMaster) int {
	if dm.Total == 0 {
		return neutral
	}
	diff := 2*dm.Support - dm.Total
	if diff < 0 {
		diff = -diff
	}
	return clamp(maxScore - diff*maxScore/dm.Total)
}

// detailCodes names the strongest and weakest weighted signals.
func detailCodes(signals map[Signal]int, weights map[Signal]decimal.Decimal) []string {
	ranked := make([]Signal, 0, len(signals))
	for _, signal := range Signals {
		if _, ok := signals[signal]; ok && !weights[signal].IsZero() {
			ranked = append(ranked, signal)
		}
	}
	if len(ranked) == 0 {
		return nil
	}
	sort.SliceStable(ranked, func(i, j int) bool { return signals[ranked[i]] > signals[ranked[j]] })
	details := []string{"strong:" + string(ranked[0])}
	if last := ranked[len(ranked)-1]; last != ranked[0] {
		details = append(details, "weak:"+string(last))
	}
	return details
}

func clamp(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
