package calendar

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/lunar.yaml
var embeddedTable []byte

const (
	leapLengthBit = 0x10000
	minYearDays   = 353
	maxYearDays   = 385
	termCount     = 12
	termScale     = 10000
	tropicalStep  = 2422 // 0.2422 days per year, scaled by termScale
)

// EmbeddedTableData returns the table shipped with the binary.
func EmbeddedTableData() []byte {
	out := make([]byte, len(embeddedTable))
	copy(out, embeddedTable)
	return out
}

// Table is the immutable lunisolar data set. It is safe for concurrent use.
type Table struct {
	base        time.Time
	firstYear   int
	years       []uint32
	yearDays    []int
	centuries   []termCentury
	corrections map[termKey]int
	lastDay     time.Time
}

type termCentury struct {
	from, to, base int
	coefficients   [termCount]int
}

type termKey struct {
	year, term int
}

type tableDocument struct {
	Base      string     `yaml:"base"`
	FirstYear int        `yaml:"firstYear"`
	Years     [][]uint32 `yaml:"years"`
	Terms     []struct {
		From         int   `yaml:"from"`
		To           int   `yaml:"to"`
		Base         int   `yaml:"base"`
		Coefficients []int `yaml:"coefficients"`
	} `yaml:"solarTerms"`
	Corrections []struct {
		Year int `yaml:"year"`
		Term int `yaml:"term"`
		Days int `yaml:"days"`
	} `yaml:"corrections"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// DefaultTable parses the embedded table once per process.
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = ParseTable(embeddedTable)
	})
	return defaultTable, defaultErr
}

// ParseTable decodes and validates a YAML table document.
func ParseTable(data []byte) (*Table, error) {
	var doc tableDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode calendar table: %w", err)
	}
	base, err := time.Parse("2006-01-02", doc.Base)
	if err != nil {
		return nil, fmt.Errorf("calendar table base: %w", err)
	}
	t := &Table{
		base:        base,
		firstYear:   doc.FirstYear,
		corrections: make(map[termKey]int, len(doc.Corrections)),
	}
	for _, row := range doc.Years {
		t.years = append(t.years, row...)
	}
	if len(t.years) == 0 {
		return nil, errors.New("calendar table has no years")
	}
	if base.Year() != t.firstYear {
		return nil, fmt.Errorf("calendar table base %s does not start year %d", doc.Base, t.firstYear)
	}

	total := 0
	t.yearDays = make([]int, len(t.years))
	for i, info := range t.years {
		leap := int(info & 0xf)
		if leap > 12 {
			return nil, fmt.Errorf("year %d: leap month %d out of range", t.firstYear+i, leap)
		}
		if leap == 0 && info&leapLengthBit != 0 {
			return nil, fmt.Errorf("year %d: leap length set without leap month", t.firstYear+i)
		}
		days := lunarYearDays(info)
		if days < minYearDays || days > maxYearDays {
			return nil, fmt.Errorf("year %d: %d days outside %d..%d", t.firstYear+i, days, minYearDays, maxYearDays)
		}
		t.yearDays[i] = days
		total += days
	}
	// The last lunar year spills into the next civil year, which has no term data.
	lastYear := t.firstYear + len(t.years) - 1
	t.lastDay = base.AddDate(0, 0, total-1)
	if t.lastDay.Year() > lastYear {
		t.lastDay = time.Date(lastYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	for _, c := range doc.Terms {
		if len(c.Coefficients) != termCount {
			return nil, fmt.Errorf("solar terms %d-%d: want %d coefficients, got %d", c.From, c.To, termCount, len(c.Coefficients))
		}
		if c.From > c.To || c.Base > c.From {
			return nil, fmt.Errorf("solar terms %d-%d: invalid range for base %d", c.From, c.To, c.Base)
		}
		century := termCentury{from: c.From, to: c.To, base: c.Base}
		copy(century.coefficients[:], c.Coefficients)
		t.centuries = append(t.centuries, century)
	}
	for _, c := range doc.Corrections {
		if c.Term < 0 || c.Term >= termCount {
			return nil, fmt.Errorf("solar term correction %d: unknown term %d", c.Year, c.Term)
		}
		t.corrections[termKey{year: c.Year, term: c.Term}] = c.Days
	}
	for year := t.firstYear; year <= lastYear; year++ {
		if _, ok := t.century(year); !ok {
			return nil, fmt.Errorf("solar terms do not cover year %d", year)
		}
	}
	return t, nil
}

// Bounds returns the first and last civil dates the table can convert.
func (t *Table) Bounds() (time.Time, time.Time) {
	return t.base, t.lastDay
}

// lunarDate walks the packed year words from the base date. The walk is
// bounded by the table length.
func (t *Table) lunarDate(civil time.Time) (year, month, day int, leap bool, err error) {
	offset := daysBetween(t.base, civil)
	if offset < 0 || civil.After(t.lastDay) {
		return 0, 0, 0, false, fmt.Errorf("%s outside table", civil.Format("2006-01-02"))
	}
	i := 0
	for ; i < len(t.years) && offset >= t.yearDays[i]; i++ {
		offset -= t.yearDays[i]
	}
	if i == len(t.years) {
		return 0, 0, 0, false, fmt.Errorf("%s beyond last table year", civil.Format("2006-01-02"))
	}
	info := t.years[i]
	leapMonth := int(info & 0xf)
	for m := 1; m <= 12; m++ {
		days := monthDays(info, m)
		if offset < days {
			return t.firstYear + i, m, offset + 1, false, nil
		}
		offset -= days
		if m == leapMonth {
			days = leapDays(info)
			if offset < days {
				return t.firstYear + i, m, offset + 1, true, nil
			}
			offset -= days
		}
	}
	return 0, 0, 0, false, fmt.Errorf("year word %#x does not cover day offset", info)
}

// termDay returns the day of month on which sectional term i (0 = xiaohan in
// January, 11 = daxue in December) falls in the given civil year.
func (t *Table) termDay(year, term int) (int, error) {
	c, ok := t.century(year)
	if !ok {
		return 0, fmt.Errorf("no solar term coefficients for %d", year)
	}
	y := year - c.base
	day := (y*tropicalStep + c.coefficients[term]) / termScale
	month := term + 1
	leaps := leapYearsUpTo(year-1) - leapYearsUpTo(c.base)
	if month > 2 && isLeapYear(year) {
		leaps++
	}
	day = day - leaps + t.corrections[termKey{year: year, term: term}]
	if day < 1 || day > 28 {
		return 0, fmt.Errorf("solar term %d of %d resolved to day %d", term, year, day)
	}
	return day, nil
}

func (t *Table) century(year int) (termCentury, bool) {
	for _, c := range t.centuries {
		if year >= c.from && year <= c.to {
			return c, true
		}
	}
	return termCentury{}, false
}

func lunarYearDays(info uint32) int {
	days := 348
	for m := 1; m <= 12; m++ {
		if info&(leapLengthBit>>m) != 0 {
			days++
		}
	}
	return days + leapDays(info)
}

func monthDays(info uint32, month int) int {
	if info&(leapLengthBit>>month) != 0 {
		return 30
	}
	return 29
}

func leapDays(info uint32) int {
	if info&0xf == 0 {
		return 0
	}
	if info&leapLengthBit != 0 {
		return 30
	}
	return 29
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func leapYearsUpTo(y int) int {
	return y/4 - y/100 + y/400
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
