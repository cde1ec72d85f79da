package ziwei

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	pipeline, err := DefaultPipeline()
	require.NoError(t, err)
	return NewCalculator(pipeline, bazi.DefaultTables())
}

// Lunar 1990 (geng-wu), fourth month, day 21, Si hour.
func sampleInput(gender Gender) Input {
	return Input{LunarMonth: 4, LunarDay: 21, Hour: 5, YearStem: 6, YearBranch: 6, Gender: gender}
}

func starNames(p Palace) []Star {
	out := make([]Star, 0, len(p.Stars))
	for _, s := range p.Stars {
		out = append(out, s.Star)
	}
	return out
}

func TestComputeSampleChart(t *testing.T) {
	chart, err := newTestCalculator(t).ComputeInput(sampleInput(Male))
	require.NoError(t, err)

	require.Equal(t, 0, chart.LifePalaceIndex)
	require.Equal(t, 10, chart.BodyPalaceIndex)
	require.Equal(t, 6, chart.Bureau)
	require.True(t, chart.DecadeForward)

	want := map[PalaceName][]Star{
		PalaceSelf:     {Pojun},
		PalaceSiblings: {Taiyang},
		PalaceSpouse:   {Wuqu},
		PalaceChildren: {Tiantong, Wenqu, Qingyang},
		PalaceWealth:   {Qisha, Lucun, Tianma},
		PalaceHealth:   {Tianliang, Zuofu, Youbi, Tuoluo, Tianyue},
		PalaceTravel:   {Lianzhen, Tianxiang, Dikong},
		PalaceFriends:  {Jumen, Wenchang},
		PalaceCareer:   {Tanlang, Dijie},
		PalaceProperty: {Taiyin},
		PalaceFortune:  {Ziwei, Tianfu},
		PalaceParents:  {Tianji, Tiankui},
	}
	for name, stars := range want {
		p, ok := chart.Palace(name)
		require.True(t, ok)
		require.Equal(t, stars, starNames(p), "palace %s", name)
	}

	self, _ := chart.Palace(PalaceSelf)
	require.Equal(t, calendar.Branch(0), self.Branch)
	require.Equal(t, calendar.Stem(4), self.Stem) // wu-zi, thunderbolt fire
	require.Equal(t, Decade{From: 6, To: 15}, self.Decade)

	parents, _ := chart.Palace(PalaceParents)
	require.Equal(t, Decade{From: 16, To: 25}, parents.Decade)

	spouse, _ := chart.Palace(PalaceSpouse)
	require.True(t, spouse.Body)

	transforms := map[Star]Transformation{}
	for _, p := range chart.Palaces {
		for _, s := range p.Stars {
			if s.Transformation != "" {
				transforms[s.Star] = s.Transformation
			}
		}
	}
	require.Equal(t, map[Star]Transformation{Taiyang: Lu, Wuqu: Quan, Taiyin: Ke, Tiantong: Ji}, transforms)
}

func TestGenderOnlyChangesDecadeDirection(t *testing.T) {
	calc := newTestCalculator(t)
	male, err := calc.ComputeInput(sampleInput(Male))
	require.NoError(t, err)
	female, err := calc.ComputeInput(sampleInput(Female))
	require.NoError(t, err)

	require.Equal(t, male.LifePalaceIndex, female.LifePalaceIndex)
	require.Equal(t, male.BodyPalaceIndex, female.BodyPalaceIndex)
	require.False(t, female.DecadeForward)
	for i := range male.Palaces {
		require.Equal(t, male.Palaces[i].Stars, female.Palaces[i].Stars)
	}
	siblings, _ := female.Palace(PalaceSiblings)
	require.Equal(t, Decade{From: 16, To: 25}, siblings.Decade)
}

func TestComputeFromConvertedDate(t *testing.T) {
	date := calendar.LunisolarDate{
		Year: 1990, Month: 4, Day: 21,
		Pillars: calendar.Pillars{
			Year:  calendar.FromCycle(6),
			Month: calendar.FromCycle(17),
			Day:   calendar.FromCycle(16),
			Hour:  calendar.FromCycle(17),
		},
	}
	fromDate, err := newTestCalculator(t).Compute(date, Male)
	require.NoError(t, err)
	fromInput, err := newTestCalculator(t).ComputeInput(sampleInput(Male))
	require.NoError(t, err)
	require.Equal(t, fromInput, fromDate)
}

func TestComputeRejectsBadInput(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.Compute(calendar.LunisolarDate{Year: 1990, Month: 4, Day: 21}, Gender("other"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	in := sampleInput(Male)
	in.LunarDay = 31
	_, err = calc.ComputeInput(in)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestChartInvariants(t *testing.T) {
	calc := newTestCalculator(t)
	rng := rand.New(rand.NewSource(42))
	genders := []Gender{Male, Female}

	for i := 0; i < 500; i++ {
		year := calendar.FromCycle(rng.Intn(60))
		in := Input{
			LunarMonth: 1 + rng.Intn(12),
			LunarDay:   1 + rng.Intn(30),
			Hour:       calendar.Branch(rng.Intn(12)),
			YearStem:   year.Stem,
			YearBranch: year.Branch,
			Gender:     genders[rng.Intn(2)],
		}
		chart, err := calc.ComputeInput(in)
		require.NoError(t, err)

		require.Contains(t, []int{2, 3, 4, 5, 6}, chart.Bureau)
		seen := map[Star]int{}
		bodies, transforms := 0, 0
		for idx, p := range chart.Palaces {
			require.Equal(t, RingOrder[idx], p.Name)
			require.Equal(t, calendar.Branch(chart.LifePalaceIndex).Offset(-idx), p.Branch)
			if p.Body {
				bodies++
			}
			for _, s := range p.Stars {
				seen[s.Star]++
				if s.Transformation != "" {
					transforms++
				}
			}
		}
		require.Equal(t, 1, bodies)
		require.Equal(t, 4, transforms)
		require.Len(t, seen, len(MajorStars)+len(MinorStars))
		for star, n := range seen {
			require.Equal(t, 1, n, "star %s", star)
		}

		z, _ := chart.Locate(Ziwei)
		f, _ := chart.Locate(Tianfu)
		require.Equal(t, calendar.Branch(4), z.Branch.Offset(int(f.Branch)))
	}
}

func TestPipelineVerifiesOrder(t *testing.T) {
	noop := func(*board) error { return nil }

	_, err := NewPipeline(
		Rule{Name: "b", Requires: []string{"a"}, Apply: noop},
		Rule{Name: "a", Apply: noop},
	)
	require.ErrorContains(t, err, `"b" requires "a"`)

	_, err = NewPipeline(Rule{Name: "a", Apply: noop}, Rule{Name: "a", Apply: noop})
	require.ErrorContains(t, err, "declared twice")

	_, err = NewPipeline(Rule{Name: "a"})
	require.ErrorContains(t, err, "incomplete")

	rules := DefaultRules()
	for i, r := range rules {
		if r.Name == "transformations" {
			rules[0], rules[i] = rules[i], rules[0]
		}
	}
	_, err = NewPipeline(rules...)
	require.Error(t, err)

	p, err := DefaultPipeline()
	require.NoError(t, err)
	require.Equal(t, "palaces", p.Names()[0])
}
