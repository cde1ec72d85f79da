package calendar

import (
	"fmt"
	"time"

	apperrors "github.com/yanqian/destiny/pkg/errors"
)

// maxOffset bounds the accepted UTC offsets (UTC-14:00 .. UTC+14:00).
const maxOffset = 14 * time.Hour

// dayCycleEpoch is 1900-01-01, whose day pillar sits at cycle position 10 (jia-xu).
var dayCycleEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const dayCycleEpochIndex = 10

// Config selects the conventions the converter applies.
type Config struct {
	MinYear int
	MaxYear int
	// LateRatRollover converts civil times from 23:00 as the following civil
	// day, so the Zi hour opens the next day's day pillar.
	LateRatRollover bool
}

// CivilTime is the local wall clock the conversion was computed from.
type CivilTime struct {
	Year          int `json:"year"`
	Month         int `json:"month"`
	Day           int `json:"day"`
	Hour          int `json:"hour"`
	Minute        int `json:"minute"`
	OffsetMinutes int `json:"offsetMinutes"`
}

// Pillars are the four stem-branch designators of a birth instant.
type Pillars struct {
	Year  StemBranch `json:"year"`
	Month StemBranch `json:"month"`
	Day   StemBranch `json:"day"`
	Hour  StemBranch `json:"hour"`
}

// PillarNames labels the entries returned by Pillars.All.
var PillarNames = [4]string{"year", "month", "day", "hour"}

// All returns the pillars in year, month, day, hour order.
func (p Pillars) All() [4]StemBranch {
	return [4]StemBranch{p.Year, p.Month, p.Day, p.Hour}
}

// LunisolarDate is the read-only result of a conversion.
type LunisolarDate struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
	LeapMonth bool      `json:"leapMonth"`
	Civil     CivilTime `json:"civil"`
	Pillars   Pillars   `json:"pillars"`
}

// Validate checks the structural invariants of a converted date.
func (d LunisolarDate) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("lunar month %d outside 1..12", d.Month)
	}
	if d.Day < 1 || d.Day > 30 {
		return fmt.Errorf("lunar day %d outside 1..30", d.Day)
	}
	for i, p := range d.Pillars.All() {
		if _, err := p.Cycle(); err != nil {
			return fmt.Errorf("%s pillar: %w", PillarNames[i], err)
		}
	}
	return nil
}

// Converter turns civil instants into lunisolar dates. It holds no mutable
// state and is safe for concurrent use.
type Converter struct {
	table *Table
	cfg   Config
}

// NewConverter binds a table to a set of conventions. Year bounds default to
// the table coverage and are narrowed, never widened, by cfg.
func NewConverter(table *Table, cfg Config) *Converter {
	first, last := table.Bounds()
	if cfg.MinYear < first.Year() {
		cfg.MinYear = first.Year()
	}
	if cfg.MaxYear == 0 || cfg.MaxYear > last.Year() {
		cfg.MaxYear = last.Year()
	}
	return &Converter{table: table, cfg: cfg}
}

// Convert resolves the instant in the local civil time implied by offset.
func (c *Converter) Convert(instant time.Time, offset time.Duration) (LunisolarDate, error) {
	if instant.IsZero() {
		return LunisolarDate{}, apperrors.Validation("birth instant is required")
	}
	if offset < -maxOffset || offset > maxOffset || offset%time.Minute != 0 {
		return LunisolarDate{}, apperrors.Validation(fmt.Sprintf("utc offset %s is not a valid timezone offset", offset))
	}
	local := instant.UTC().Add(offset)
	civil := CivilTime{
		Year:          local.Year(),
		Month:         int(local.Month()),
		Day:           local.Day(),
		Hour:          local.Hour(),
		Minute:        local.Minute(),
		OffsetMinutes: int(offset / time.Minute),
	}

	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if c.cfg.LateRatRollover && local.Hour() == 23 {
		date = date.AddDate(0, 0, 1)
	}
	if err := c.checkRange(date); err != nil {
		return LunisolarDate{}, err
	}

	year, month, day, leap, err := c.table.lunarDate(date)
	if err != nil {
		return LunisolarDate{}, apperrors.Computation("lunar date lookup failed", err)
	}
	yearPillar, monthPillar, err := c.solarPillars(date)
	if err != nil {
		return LunisolarDate{}, apperrors.Computation("solar term lookup failed", err)
	}
	dayPillar := DayPillar(date)

	result := LunisolarDate{
		Year:      year,
		Month:     month,
		Day:       day,
		LeapMonth: leap,
		Civil:     civil,
		Pillars: Pillars{
			Year:  yearPillar,
			Month: monthPillar,
			Day:   dayPillar,
			Hour:  HourPillar(dayPillar.Stem, local.Hour()),
		},
	}
	if err := result.Validate(); err != nil {
		return LunisolarDate{}, apperrors.Computation("converted date violates cycle invariants", err)
	}
	return result, nil
}

// Bounds reports the civil date range Convert accepts.
func (c *Converter) Bounds() (time.Time, time.Time) {
	first, last := c.table.Bounds()
	if minDay := time.Date(c.cfg.MinYear, time.January, 1, 0, 0, 0, 0, time.UTC); minDay.After(first) {
		first = minDay
	}
	if maxDay := time.Date(c.cfg.MaxYear, time.December, 31, 0, 0, 0, 0, time.UTC); maxDay.Before(last) {
		last = maxDay
	}
	return first, last
}

func (c *Converter) checkRange(date time.Time) error {
	first, last := c.Bounds()
	if date.Before(first) || date.After(last) {
		return apperrors.OutOfRange(fmt.Sprintf("date %s outside supported range %s..%s",
			date.Format("2006-01-02"), first.Format("2006-01-02"), last.Format("2006-01-02")))
	}
	return nil
}

// solarPillars derives the year and month pillars from the sectional terms:
// the year turns at lichun, each month at its jie.
func (c *Converter) solarPillars(date time.Time) (StemBranch, StemBranch, error) {
	year, month, day := date.Year(), int(date.Month()), date.Day()

	termDay, err := c.table.termDay(year, month-1)
	if err != nil {
		return StemBranch{}, StemBranch{}, err
	}
	monthBranch := Branch(month % BranchCount)
	if day < termDay {
		monthBranch = monthBranch.Offset(-1)
	}

	pillarYear := year
	if month == 1 || (month == 2 && day < termDay) {
		pillarYear--
	}
	yearPillar := FromCycle(pillarYear - 4)

	// Five tigers rule: the Yin month stem follows the year stem.
	yinStem := (int(yearPillar.Stem)%5)*2 + 2
	monthStem := Stem(mod(yinStem+mod(int(monthBranch)-2, BranchCount), StemCount))
	return yearPillar, StemBranch{Stem: monthStem, Branch: monthBranch}, nil
}

// DayPillar returns the day pillar of a civil date. Only the date part is used.
func DayPillar(date time.Time) StemBranch {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return FromCycle(daysBetween(dayCycleEpoch, d) + dayCycleEpochIndex)
}

// HourBranch maps a civil hour onto its two-hour branch; 23:00-00:59 is Zi.
func HourBranch(hour int) Branch {
	return Branch(((hour + 1) / 2) % BranchCount)
}

// HourPillar applies the five rats rule: the Zi hour stem follows the day stem.
func HourPillar(dayStem Stem, hour int) StemBranch {
	branch := HourBranch(hour)
	ziStem := (int(dayStem) % 5) * 2
	return StemBranch{Stem: Stem((ziStem + int(branch)) % StemCount), Branch: branch}
}
