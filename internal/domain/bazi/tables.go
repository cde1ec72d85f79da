package bazi

import "github.com/yanqian/destiny/internal/domain/calendar"

// Tables holds the immutable lookup data of the pillars calculator.
type Tables struct {
	stemElements   [calendar.StemCount]Element
	branchElements [calendar.BranchCount]Element
	hiddenStems    [calendar.BranchCount][]calendar.Stem
	naYin          [calendar.CycleLength / 2]Element
	tenGods        [calendar.StemCount][calendar.StemCount]TenGod
}

// DefaultTables returns the traditional element, hidden stem and ten god tables.
func DefaultTables() *Tables {
	t := &Tables{
		branchElements: [calendar.BranchCount]Element{
			Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
		},
		// Main qi first, then middle and residual qi.
		hiddenStems: [calendar.BranchCount][]calendar.Stem{
			{9},       // zi: gui
			{5, 9, 7}, // chou: ji gui xin
			{0, 2, 4}, // yin: jia bing wu
			{1},       // mao: yi
			{4, 1, 9}, // chen: wu yi gui
			{2, 4, 6}, // si: bing wu geng
			{3, 5},    // wu: ding ji
			{5, 3, 1}, // wei: ji ding yi
			{6, 8, 4}, // shen: geng ren wu
			{7},       // you: xin
			{4, 7, 3}, // xu: wu xin ding
			{8, 0},    // hai: ren jia
		},
		naYin: [calendar.CycleLength / 2]Element{
			Metal, Fire, Wood, Earth, Metal, Fire, Water, Earth, Metal, Wood,
			Water, Earth, Fire, Wood, Water, Metal, Fire, Wood, Earth, Metal,
			Fire, Water, Earth, Metal, Wood, Water, Earth, Fire, Wood, Water,
		},
	}
	for s := range t.stemElements {
		t.stemElements[s] = Element(s / 2)
	}
	for dm := 0; dm < calendar.StemCount; dm++ {
		for other := 0; other < calendar.StemCount; other++ {
			t.tenGods[dm][other] = relate(calendar.Stem(dm), calendar.Stem(other), t.stemElements)
		}
	}
	return t
}

// StemElement looks up the element of a stem.
func (t *Tables) StemElement(s calendar.Stem) Element { return t.stemElements[s] }

// BranchElement looks up the element of a branch.
func (t *Tables) BranchElement(b calendar.Branch) Element { return t.branchElements[b] }

// HiddenStems returns a copy of the stems stored in a branch.
func (t *Tables) HiddenStems(b calendar.Branch) []calendar.Stem {
	return append([]calendar.Stem(nil), t.hiddenStems[b]...)
}

// NaYin returns the sound element of a cycle pair.
func (t *Tables) NaYin(p calendar.StemBranch) (Element, error) {
	pos, err := p.Cycle()
	if err != nil {
		return 0, err
	}
	return t.naYin[pos/2], nil
}

// TenGod looks up the relation of other to the day master.
func (t *Tables) TenGod(dayMaster, other calendar.Stem) TenGod {
	return t.tenGods[dayMaster][other]
}
