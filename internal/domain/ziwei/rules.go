package ziwei

import (
	"fmt"

	"github.com/yanqian/destiny/internal/domain/calendar"
)

const yinBranch calendar.Branch = 2

// DefaultRules is the traditional placement sequence.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "palaces", Apply: placePalaces},
		{Name: "bureau", Requires: []string{"palaces"}, Apply: resolveBureau},
		{Name: "ziwei", Requires: []string{"bureau"}, Apply: placeZiwei},
		{Name: "ziwei-series", Requires: []string{"ziwei"}, Apply: placeZiweiSeries},
		{Name: "tianfu", Requires: []string{"ziwei"}, Apply: placeTianfu},
		{Name: "tianfu-series", Requires: []string{"tianfu"}, Apply: placeTianfuSeries},
		{Name: "month-stars", Apply: placeMonthStars},
		{Name: "hour-stars", Apply: placeHourStars},
		{Name: "stem-stars", Apply: placeStemStars},
		{Name: "tianma", Apply: placeTianma},
		{
			Name:     "transformations",
			Requires: []string{"ziwei-series", "tianfu-series", "month-stars", "hour-stars"},
			Apply:    applyTransformations,
		},
		{Name: "decades", Requires: []string{"palaces", "bureau"}, Apply: assignDecades},
	}
}

// DefaultPipeline builds the traditional pipeline.
func DefaultPipeline() (*Pipeline, error) {
	return NewPipeline(DefaultRules()...)
}

// placePalaces counts the month forward from Yin, then the hour backward for
// the life palace and forward for the body palace. Palace stems follow the
// year stem by the five tigers rule.
func placePalaces(b *board) error {
	month := b.in.LunarMonth - 1
	hour := int(b.in.Hour)
	b.life = yinBranch.Offset(month - hour)
	b.body = yinBranch.Offset(month + hour)

	yinStem := (int(b.in.YearStem)%5)*2 + 2
	for branch := 0; branch < calendar.BranchCount; branch++ {
		steps := int(calendar.Branch(branch).Offset(-int(yinBranch)))
		b.palaceStems[branch] = calendar.Stem((yinStem + steps) % calendar.StemCount)
	}
	return nil
}

func resolveBureau(b *board) error {
	element, err := b.elements.NaYin(calendar.StemBranch{Stem: b.palaceStems[b.life], Branch: b.life})
	if err != nil {
		return err
	}
	b.bureau = bureauByElement[element]
	return nil
}

// placeZiwei finds the smallest borrow x making day+x a multiple of the
// bureau, steps the quotient from Yin and corrects by x.
func placeZiwei(b *board) error {
	day, n := b.in.LunarDay, b.bureau
	if n < 2 || n > 6 {
		return fmt.Errorf("bureau %d outside 2..6", n)
	}
	x := 0
	for (day+x)%n != 0 {
		x++
	}
	q := (day + x) / n
	pos := int(yinBranch) + q - 1
	if x%2 == 1 {
		pos -= x
	} else {
		pos += x
	}
	return b.place(Ziwei, calendar.Branch(0).Offset(pos))
}

func placeSeries(b *board, anchor Star, offsets map[Star]int) error {
	origin, err := b.position(anchor)
	if err != nil {
		return err
	}
	for _, star := range MajorStars {
		if off, ok := offsets[star]; ok {
			if err := b.place(star, origin.Offset(off)); err != nil {
				return err
			}
		}
	}
	return nil
}

func placeZiweiSeries(b *board) error {
	return placeSeries(b, Ziwei, map[Star]int{
		Tianji: -1, Taiyang: -3, Wuqu: -4, Tiantong: -5, Lianzhen: -8,
	})
}

// placeTianfu mirrors Ziwei across the Yin-Shen axis.
func placeTianfu(b *board) error {
	z, err := b.position(Ziwei)
	if err != nil {
		return err
	}
	return b.place(Tianfu, calendar.Branch(4).Offset(-int(z)))
}

func placeTianfuSeries(b *board) error {
	return placeSeries(b, Tianfu, map[Star]int{
		Taiyin: 1, Tanlang: 2, Jumen: 3, Tianxiang: 4, Tianliang: 5, Qisha: 6, Pojun: 10,
	})
}

func placeMonthStars(b *board) error {
	m := b.in.LunarMonth - 1
	if err := b.place(Zuofu, calendar.Branch(4).Offset(m)); err != nil {
		return err
	}
	return b.place(Youbi, calendar.Branch(10).Offset(-m))
}

func placeHourStars(b *board) error {
	h := int(b.in.Hour)
	placements := []struct {
		star   Star
		branch calendar.Branch
	}{
		{Wenchang, calendar.Branch(10).Offset(-h)},
		{Wenqu, calendar.Branch(4).Offset(h)},
		{Dikong, calendar.Branch(11).Offset(-h)},
		{Dijie, calendar.Branch(11).Offset(h)},
	}
	for _, p := range placements {
		if err := b.place(p.star, p.branch); err != nil {
			return err
		}
	}
	return nil
}

func placeStemStars(b *board) error {
	s := b.in.YearStem
	lucun := calendar.Branch(lucunByStem[s])
	placements := []struct {
		star   Star
		branch calendar.Branch
	}{
		{Lucun, lucun},
		{Qingyang, lucun.Offset(1)},
		{Tuoluo, lucun.Offset(-1)},
		{Tiankui, calendar.Branch(tiankuiByStem[s])},
		{Tianyue, calendar.Branch(tianyueByStem[s])},
	}
	for _, p := range placements {
		if err := b.place(p.star, p.branch); err != nil {
			return err
		}
	}
	return nil
}

func placeTianma(b *board) error {
	return b.place(Tianma, calendar.Branch(tianmaByBranch[b.in.YearBranch]))
}

func applyTransformations(b *board) error {
	for i, star := range transformationTable[b.in.YearStem] {
		if _, err := b.position(star); err != nil {
			return err
		}
		b.transforms[star] = transformationOrder[i]
	}
	return nil
}

// assignDecades gives each palace a ten-year limit starting at the bureau
// number. Yang-year men and yin-year women run forward (clockwise).
func assignDecades(b *board) error {
	b.decadeForward = b.in.YearStem.Yang() == (b.in.Gender == Male)
	step := -1
	if b.decadeForward {
		step = 1
	}
	for k := 0; k < calendar.BranchCount; k++ {
		branch := b.life.Offset(k * step)
		from := b.bureau + 10*k
		b.decades[branch] = Decade{From: from, To: from + 9}
	}
	return nil
}
