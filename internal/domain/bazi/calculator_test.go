package bazi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/destiny/internal/domain/calendar"
	apperrors "github.com/yanqian/destiny/pkg/errors"
)

func pair(t *testing.T, stem, branch string) calendar.StemBranch {
	t.Helper()
	var sb calendar.StemBranch
	require.NoError(t, sb.Stem.UnmarshalText([]byte(stem)))
	require.NoError(t, sb.Branch.UnmarshalText([]byte(branch)))
	return sb
}

// 1990-05-16 10:30 at UTC+8, a xin day master.
func sampleDate(t *testing.T) calendar.LunisolarDate {
	return calendar.LunisolarDate{
		Year: 1990, Month: 4, Day: 22,
		Pillars: calendar.Pillars{
			Year:  pair(t, "geng", "wu"),
			Month: pair(t, "xin", "si"),
			Day:   pair(t, "xin", "si"),
			Hour:  pair(t, "gui", "si"),
		},
	}
}

func TestComputeWithoutHiddenStems(t *testing.T) {
	calc := NewCalculator(DefaultTables(), Config{})
	chart, err := calc.Compute(sampleDate(t))
	require.NoError(t, err)

	require.Equal(t, BaseSlotCount, chart.SlotCount)
	require.Equal(t, ElementDistribution{Wood: 0, Fire: 4, Earth: 0, Metal: 3, Water: 1}, chart.Elements)
	require.Len(t, chart.Pillars, 4)

	year, ok := chart.Pillar("year")
	require.True(t, ok)
	require.Equal(t, Metal, year.Element)
	require.Equal(t, Yang, year.Polarity)
	require.Equal(t, Fire, year.BranchElement)
	require.Equal(t, Earth, year.NaYin)
	require.Empty(t, year.HiddenStems)

	hour, _ := chart.Pillar("hour")
	require.Equal(t, Water, hour.NaYin)

	require.Equal(t, []TenGodRelation{
		{Position: "year", Stem: 6, God: RobWealth},
		{Position: "month", Stem: 7, God: Friend},
		{Position: "hour", Stem: 9, God: EatingGod},
	}, chart.TenGods)

	require.Equal(t, DayMaster{Stem: 7, Element: Metal, Polarity: Yin, Support: 3, Total: 8}, chart.DayMaster)
}

func TestComputeWithHiddenStems(t *testing.T) {
	calc := NewCalculator(DefaultTables(), Config{HiddenStems: true})
	chart, err := calc.Compute(sampleDate(t))
	require.NoError(t, err)

	require.Equal(t, 19, chart.SlotCount)
	require.Equal(t, chart.SlotCount, chart.Elements.Total())
	require.Equal(t, ElementDistribution{Wood: 0, Fire: 8, Earth: 4, Metal: 6, Water: 1}, chart.Elements)
	require.Len(t, chart.TenGods, 14)
	require.Equal(t, 10, chart.DayMaster.Support)

	month, _ := chart.Pillar("month")
	require.Equal(t, []calendar.Stem{2, 4, 6}, month.HiddenStems)

	hidden := 0
	for _, rel := range chart.TenGods {
		if rel.Hidden {
			hidden++
		}
	}
	require.Equal(t, 11, hidden)
}

func TestComputeRejectsMalformedDate(t *testing.T) {
	date := sampleDate(t)
	date.Pillars.Day = calendar.StemBranch{Stem: 0, Branch: 1}

	_, err := NewCalculator(DefaultTables(), Config{}).Compute(date)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeComputation))
}

func TestTenGodTable(t *testing.T) {
	tables := DefaultTables()
	jia := calendar.Stem(0)
	want := map[calendar.Stem]TenGod{
		0: Friend,
		1: RobWealth,
		2: EatingGod,
		3: HurtingOfficer,
		4: IndirectWealth,
		5: DirectWealth,
		6: SevenKillings,
		7: DirectOfficer,
		8: IndirectResource,
		9: DirectResource,
	}
	for other, god := range want {
		require.Equal(t, god, tables.TenGod(jia, other), "jia vs %s", other)
	}

	for dm := calendar.Stem(0); dm < calendar.StemCount; dm++ {
		seen := map[TenGod]bool{}
		for other := calendar.Stem(0); other < calendar.StemCount; other++ {
			seen[tables.TenGod(dm, other)] = true
		}
		require.Len(t, seen, 10, "row %s must hold every relation once", dm)
	}
}

func TestHiddenStemsMainQiMatchesBranchElement(t *testing.T) {
	tables := DefaultTables()
	for b := calendar.Branch(0); b < calendar.BranchCount; b++ {
		hidden := tables.HiddenStems(b)
		require.NotEmpty(t, hidden)
		require.Equal(t, tables.BranchElement(b), tables.StemElement(hidden[0]), "branch %s", b)
	}
}

func TestDistributionSumsToSlotCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, hidden := range []bool{false, true} {
		calc := NewCalculator(DefaultTables(), Config{HiddenStems: hidden})
		for i := 0; i < 300; i++ {
			date := calendar.LunisolarDate{
				Year: 2000, Month: 1 + rng.Intn(12), Day: 1 + rng.Intn(30),
				Pillars: calendar.Pillars{
					Year:  calendar.FromCycle(rng.Intn(60)),
					Month: calendar.FromCycle(rng.Intn(60)),
					Day:   calendar.FromCycle(rng.Intn(60)),
					Hour:  calendar.FromCycle(rng.Intn(60)),
				},
			}
			chart, err := calc.Compute(date)
			require.NoError(t, err)
			require.Equal(t, chart.SlotCount, chart.Elements.Total())
			require.Len(t, chart.Elements, ElementCount)
			if !hidden {
				require.Equal(t, BaseSlotCount, chart.SlotCount)
			}
			require.LessOrEqual(t, chart.DayMaster.Support, chart.DayMaster.Total)
		}
	}
}

func TestElementCycles(t *testing.T) {
	require.Equal(t, Fire, Wood.Generates())
	require.Equal(t, Wood, Water.Generates())
	require.Equal(t, Earth, Wood.Controls())
	require.Equal(t, Fire, Water.Controls())
	require.Equal(t, Metal, Water.GeneratedBy())
	require.Equal(t, Water, Wood.GeneratedBy())
}
