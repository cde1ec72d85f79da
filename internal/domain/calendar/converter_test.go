package calendar

import (
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/yanqian/destiny/pkg/errors"
)

type goldenCase struct {
	Name            string `yaml:"name"`
	Instant         string `yaml:"instant"`
	LateRatRollover bool   `yaml:"lateRatRollover"`
	Want            struct {
		Year      int      `yaml:"year"`
		Month     int      `yaml:"month"`
		Day       int      `yaml:"day"`
		LeapMonth bool     `yaml:"leapMonth"`
		Pillars   []string `yaml:"pillars"`
	} `yaml:"want"`
}

func TestConvertGolden(t *testing.T) {
	raw, err := os.ReadFile("testdata/golden.yaml")
	require.NoError(t, err)
	var cases []goldenCase
	require.NoError(t, yaml.Unmarshal(raw, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			instant, err := time.Parse(time.RFC3339, tc.Instant)
			require.NoError(t, err)
			_, offset := instant.Zone()

			got, err := newTestConverter(t, Config{LateRatRollover: tc.LateRatRollover}).
				Convert(instant, time.Duration(offset)*time.Second)
			require.NoError(t, err)

			require.Equal(t, tc.Want.Year, got.Year)
			require.Equal(t, tc.Want.Month, got.Month)
			require.Equal(t, tc.Want.Day, got.Day)
			require.Equal(t, tc.Want.LeapMonth, got.LeapMonth)
			pillars := got.Pillars.All()
			names := make([]string, 0, len(pillars))
			for _, p := range pillars {
				names = append(names, p.String())
			}
			require.Equal(t, tc.Want.Pillars, names)

			civil := instant
			if tc.LateRatRollover && civil.Hour() == 23 {
				civil = civil.AddDate(0, 0, 1)
			}
			require.Equal(t, julianDayPillar(civil).String(), tc.Want.Pillars[2], "fixture day pillar")
		})
	}
}

func TestConvertUsesSuppliedOffsetOnly(t *testing.T) {
	conv := newTestConverter(t, Config{LateRatRollover: true})
	utc := time.Date(1990, time.May, 15, 2, 30, 0, 0, time.UTC)

	fromUTC, err := conv.Convert(utc, 8*time.Hour)
	require.NoError(t, err)
	local, err := conv.Convert(utc.In(time.FixedZone("CST", 8*3600)), 8*time.Hour)
	require.NoError(t, err)

	require.Equal(t, fromUTC, local)
	require.Equal(t, 10, fromUTC.Civil.Hour)
	require.Equal(t, 480, fromUTC.Civil.OffsetMinutes)
}

func TestConvertOutOfRange(t *testing.T) {
	conv := newTestConverter(t, Config{LateRatRollover: true})
	cases := []time.Time{
		time.Date(1899, time.December, 31, 12, 0, 0, 0, time.UTC),
		time.Date(1900, time.January, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2101, time.January, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2100, time.December, 31, 23, 30, 0, 0, time.UTC),
	}
	for _, instant := range cases {
		_, err := conv.Convert(instant, 0)
		require.Error(t, err, instant.String())
		require.True(t, apperrors.IsCode(err, apperrors.CodeOutOfRange), instant.String())
	}
}

func TestConvertHonoursConfiguredYears(t *testing.T) {
	conv := newTestConverter(t, Config{MinYear: 1950, MaxYear: 2049})

	_, err := conv.Convert(time.Date(1949, time.June, 1, 12, 0, 0, 0, time.UTC), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeOutOfRange))
	_, err = conv.Convert(time.Date(2050, time.June, 1, 12, 0, 0, 0, time.UTC), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeOutOfRange))
	_, err = conv.Convert(time.Date(1950, time.June, 1, 12, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
}

func TestConvertRejectsBadOffset(t *testing.T) {
	conv := newTestConverter(t, Config{})
	instant := time.Date(1990, time.May, 15, 2, 30, 0, 0, time.UTC)

	_, err := conv.Convert(instant, 15*time.Hour)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = conv.Convert(instant, 30*time.Second)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = conv.Convert(time.Time{}, 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestConvertIsDeterministic(t *testing.T) {
	conv := newTestConverter(t, Config{LateRatRollover: true})
	instant := time.Date(1990, time.May, 15, 2, 30, 0, 0, time.UTC)

	first, err := conv.Convert(instant, 8*time.Hour)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := conv.Convert(instant, 8*time.Hour)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestConvertInvariantsAcrossRange(t *testing.T) {
	conv := newTestConverter(t, Config{LateRatRollover: true})
	first, last := conv.Bounds()
	span := int(last.Sub(first).Hours()/24) - 1
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		day := first.AddDate(0, 0, rng.Intn(span))
		instant := day.Add(time.Duration(rng.Intn(23*60)) * time.Minute)

		got, err := conv.Convert(instant, 0)
		require.NoError(t, err, instant.String())
		for _, p := range got.Pillars.All() {
			pos, err := p.Cycle()
			require.NoError(t, err)
			require.Equal(t, int(p.Stem), pos%StemCount)
			require.Equal(t, int(p.Branch), pos%BranchCount)
		}
		require.Equal(t, HourBranch(instant.Hour()), got.Pillars.Hour.Branch)
	}
}

func TestConsecutiveDaysAdvanceCycle(t *testing.T) {
	conv := newTestConverter(t, Config{})
	start := time.Date(1984, time.January, 1, 12, 0, 0, 0, time.UTC)

	prev, err := conv.Convert(start, 0)
	require.NoError(t, err)
	for i := 1; i < 800; i++ {
		next, err := conv.Convert(start.AddDate(0, 0, i), 0)
		require.NoError(t, err)

		prevPos, _ := prev.Pillars.Day.Cycle()
		nextPos, _ := next.Pillars.Day.Cycle()
		require.Equal(t, (prevPos+1)%CycleLength, nextPos)
		if next.Day != 1 {
			require.Equal(t, prev.Day+1, next.Day)
		} else {
			require.Contains(t, []int{29, 30}, prev.Day)
		}
		prev = next
	}
}

func TestHourBranchBoundaries(t *testing.T) {
	require.Equal(t, Branch(0), HourBranch(23))
	require.Equal(t, Branch(0), HourBranch(0))
	require.Equal(t, Branch(1), HourBranch(1))
	require.Equal(t, Branch(1), HourBranch(2))
	require.Equal(t, Branch(6), HourBranch(12))
	require.Equal(t, Branch(11), HourBranch(22))
}

func TestDayPillarEpochs(t *testing.T) {
	require.Equal(t, "jia-xu", DayPillar(time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)).String())
	require.Equal(t, "wu-wu", DayPillar(time.Date(2000, time.January, 1, 18, 0, 0, 0, time.UTC)).String())
	require.Equal(t, "geng-chen", DayPillar(time.Date(1990, time.May, 15, 10, 30, 0, 0, time.UTC)).String())
	require.Equal(t, "bing-yin", DayPillar(time.Date(1990, time.June, 30, 6, 0, 0, 0, time.UTC)).String())
}

func TestDayPillarMatchesJulianDayNumber(t *testing.T) {
	start := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		require.Equal(t, julianDayPillar(d), DayPillar(d), d.Format(time.DateOnly))
	}
}

// julianDayPillar derives the day pillar from the Julian day number of the
// civil date using integer arithmetic only.
func julianDayPillar(date time.Time) StemBranch {
	y, m, d := date.Date()
	a := (14 - int(m)) / 12
	yy := y + 4800 - a
	mm := int(m) + 12*a - 3
	jdn := d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
	return FromCycle((jdn + 49) % 60)
}

func newTestConverter(t *testing.T, cfg Config) *Converter {
	t.Helper()
	table, err := DefaultTable()
	require.NoError(t, err)
	return NewConverter(table, cfg)
}
