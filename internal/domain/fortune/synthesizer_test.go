package fortune

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/domain/ziwei"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(DefaultConfig(), DefaultScoring(), bazi.DefaultTables())
	require.NoError(t, err)
	return s
}

// Pillars of 1990-05-16 10:30 at UTC+8: geng-wu, xin-si, xin-si, gui-si.
func samplePillars(t *testing.T) bazi.Chart {
	t.Helper()
	date := calendar.LunisolarDate{
		Year: 1990, Month: 4, Day: 22,
		Pillars: calendar.Pillars{
			Year:  calendar.FromCycle(6),
			Month: calendar.FromCycle(17),
			Day:   calendar.FromCycle(17),
			Hour:  calendar.FromCycle(29),
		},
	}
	chart, err := bazi.NewCalculator(bazi.DefaultTables(), bazi.Config{}).Compute(date)
	require.NoError(t, err)
	return chart
}

func sampleStarChart(t *testing.T) *ziwei.Chart {
	t.Helper()
	pipeline, err := ziwei.DefaultPipeline()
	require.NoError(t, err)
	chart, err := ziwei.NewCalculator(pipeline, bazi.DefaultTables()).ComputeInput(ziwei.Input{
		LunarMonth: 4, LunarDay: 21, Hour: 5, YearStem: 6, YearBranch: 6, Gender: ziwei.Male,
	})
	require.NoError(t, err)
	return &chart
}

func scoresOf(s Score) map[Domain]int {
	out := map[Domain]int{}
	for _, d := range s.Domains {
		out[d.Domain] = d.Score
	}
	return out
}

func TestSynthesizeWithoutChart(t *testing.T) {
	score, err := newTestSynthesizer(t).Synthesize(Input{Pillars: samplePillars(t)})
	require.NoError(t, err)

	require.Equal(t, map[Domain]int{Career: 53, Wealth: 51, Love: 51, Health: 54}, scoresOf(score))
	require.Equal(t, 52, score.Overall)
	require.Nil(t, score.Daily)

	career, ok := score.Domain(Career)
	require.True(t, ok)
	require.Equal(t, map[Signal]int{SignalBalance: 41, SignalStrength: 75, SignalGods: 45}, career.Signals)
	require.Equal(t, Advice{Tag: Steady, Details: []string{"strong:day_master", "weak:element_balance"}}, career.Advice)

	health, _ := score.Domain(Health)
	require.Equal(t, []string{"strong:day_master", "weak:element_balance"}, health.Advice.Details)
}

func TestSynthesizeWithChartReadsDomainPalaces(t *testing.T) {
	score, err := newTestSynthesizer(t).Synthesize(Input{Pillars: samplePillars(t), Chart: sampleStarChart(t)})
	require.NoError(t, err)

	want := map[Domain]int{Career: 40, Wealth: 57, Love: 60, Health: 63}
	for domain, palace := range want {
		ds, ok := score.Domain(domain)
		require.True(t, ok)
		require.Equal(t, palace, ds.Signals[SignalPalace], "domain %s", domain)
	}
}

func TestSynthesizeDailyVariant(t *testing.T) {
	asOf := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC)
	score, err := newTestSynthesizer(t).Synthesize(Input{Pillars: samplePillars(t), AsOf: asOf})
	require.NoError(t, err)

	require.NotNil(t, score.Daily)
	require.Equal(t, "2024-02-10", score.Daily.AsOf)
	require.Equal(t, "jia-chen", score.Daily.DayPillar.String())
	require.Equal(t, bazi.DirectWealth, score.Daily.God)

	require.Equal(t, map[Domain]int{Career: 55, Wealth: 57, Love: 56, Health: 54}, scoresOf(score))
	require.Equal(t, 55, score.Overall)

	career, _ := score.Domain(Career)
	require.Contains(t, career.Advice.Details, "day:direct_wealth")
	health, _ := score.Domain(Health)
	require.NotContains(t, health.Advice.Details, "day:direct_wealth")
}

func TestSynthesizeRejectsEmptyPillars(t *testing.T) {
	_, err := newTestSynthesizer(t).Synthesize(Input{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeComputation))
}

func TestOverallIsMonotonic(t *testing.T) {
	s := newTestSynthesizer(t)
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		scores := map[Domain]int{}
		for _, d := range Domains {
			scores[d] = rng.Intn(101)
		}
		base := s.Overall(scores)
		require.GreaterOrEqual(t, base, 0)
		require.LessOrEqual(t, base, 100)

		d := Domains[rng.Intn(len(Domains))]
		if scores[d] == 100 {
			continue
		}
		scores[d] += 1 + rng.Intn(100-scores[d])
		require.GreaterOrEqual(t, s.Overall(scores), base)
	}
}

func TestScoresStayInRange(t *testing.T) {
	s := newTestSynthesizer(t)
	pipeline, err := ziwei.DefaultPipeline()
	require.NoError(t, err)
	stars := ziwei.NewCalculator(pipeline, bazi.DefaultTables())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		date := calendar.LunisolarDate{
			Year: 1900 + rng.Intn(200), Month: 1 + rng.Intn(12), Day: 1 + rng.Intn(30),
			Pillars: calendar.Pillars{
				Year:  calendar.FromCycle(rng.Intn(60)),
				Month: calendar.FromCycle(rng.Intn(60)),
				Day:   calendar.FromCycle(rng.Intn(60)),
				Hour:  calendar.FromCycle(rng.Intn(60)),
			},
		}
		pillars, err := bazi.NewCalculator(bazi.DefaultTables(), bazi.Config{HiddenStems: rng.Intn(2) == 0}).Compute(date)
		require.NoError(t, err)

		in := Input{Pillars: pillars}
		if rng.Intn(2) == 0 {
			chart, err := stars.Compute(date, ziwei.Female)
			require.NoError(t, err)
			in.Chart = &chart
		}
		if rng.Intn(2) == 0 {
			in.AsOf = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.Intn(20000))
		}

		score, err := s.Synthesize(in)
		require.NoError(t, err)
		require.Len(t, score.Domains, 4)
		for _, ds := range score.Domains {
			require.GreaterOrEqual(t, ds.Score, 0)
			require.LessOrEqual(t, ds.Score, 100)
			require.Equal(t, s.cfg.Bands.Tag(ds.Score), ds.Advice.Tag)
			for _, v := range ds.Signals {
				require.GreaterOrEqual(t, v, 0)
				require.LessOrEqual(t, v, 100)
			}
		}
		require.GreaterOrEqual(t, score.Overall, 0)
		require.LessOrEqual(t, score.Overall, 100)
	}
}

func TestSignalsClampInsteadOfWrapping(t *testing.T) {
	scoring := DefaultScoring()
	scoring.GodPoints[Wealth] = map[bazi.TenGod]int{bazi.RobWealth: 500, bazi.Friend: 500, bazi.EatingGod: 500}
	scoring.GodPoints[Career] = map[bazi.TenGod]int{bazi.RobWealth: -500}
	s, err := NewSynthesizer(DefaultConfig(), scoring, bazi.DefaultTables())
	require.NoError(t, err)

	score, err := s.Synthesize(Input{Pillars: samplePillars(t)})
	require.NoError(t, err)
	wealth, _ := score.Domain(Wealth)
	require.Equal(t, 100, wealth.Signals[SignalGods])
	career, _ := score.Domain(Career)
	require.Equal(t, 0, career.Signals[SignalGods])
}

func TestBandsTag(t *testing.T) {
	bands := Bands{Caution: 40, Favorable: 70}
	require.Equal(t, Caution, bands.Tag(0))
	require.Equal(t, Caution, bands.Tag(39))
	require.Equal(t, Steady, bands.Tag(40))
	require.Equal(t, Steady, bands.Tag(70))
	require.Equal(t, Favorable, bands.Tag(71))
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overall[Career] = decimal.RequireFromString("0.31")
	require.ErrorContains(t, cfg.Validate(), "overall weights sum to 1.01")

	cfg = DefaultConfig()
	cfg.Signals[Love][SignalPalace] = decimal.RequireFromString("0.5")
	require.ErrorContains(t, cfg.Validate(), "signal weights for love")

	cfg = DefaultConfig()
	cfg.Bands = Bands{Caution: 80, Favorable: 20}
	require.ErrorContains(t, cfg.Validate(), "out of order")

	_, err := NewSynthesizer(cfg, DefaultScoring(), bazi.DefaultTables())
	require.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	signals := map[string]map[string]string{
		"career": {"element_balance": "0.25", "day_master": "0.25", "ten_gods": "0.5"},
		"wealth": {"ten_gods": "1"},
		"love":   {"palace_stars": "0.6", "ten_gods": "0.4"},
		"health": {"element_balance": "0.7", "day_master": "0.3"},
	}
	overall := map[string]string{"career": "0.4", "wealth": "0.3", "love": "0.1", "health": "0.2"}

	cfg, err := ParseConfig(signals, overall, Bands{Caution: 30, Favorable: 80})
	require.NoError(t, err)
	require.True(t, cfg.Overall[Career].Equal(decimal.RequireFromString("0.4")))

	signals["wealth"]["bogus"] = "0"
	_, err = ParseConfig(signals, overall, Bands{Caution: 30, Favorable: 80})
	require.ErrorContains(t, err, "unknown signal")

	delete(signals["wealth"], "bogus")
	overall["health"] = "abc"
	_, err = ParseConfig(signals, overall, Bands{Caution: 30, Favorable: 80})
	require.Error(t, err)
}

func TestTruncateAdvice(t *testing.T) {
	score := Score{Domains: []DomainScore{
		{Domain: Career, Advice: Advice{Tag: Steady, Details: []string{"strong:ten_gods", "weak:element_balance"}}},
	}}

	require.Nil(t, score.TruncateAdvice(0).Domains[0].Advice.Details)
	require.Equal(t, []string{"strong:ten_gods"}, score.TruncateAdvice(1).Domains[0].Advice.Details)
	require.Len(t, score.TruncateAdvice(-1).Domains[0].Advice.Details, 2)
	require.Len(t, score.Domains[0].Advice.Details, 2)
}
