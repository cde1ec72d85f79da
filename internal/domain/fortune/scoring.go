package fortune

import (
	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/ziwei"
)

// Scoring holds the point tables behind the signals.
type Scoring struct {
	// GodPoints rates each ten god relation per domain.
	GodPoints map[Domain]map[bazi.TenGod]int
	// StarPoints rates a star sitting in a domain's palace.
	StarPoints map[ziwei.Star]int
	// TransformPoints rates a transformation attached to such a star.
	TransformPoints map[ziwei.Transformation]int
	// DailyDeltas shift domain scores by the day's relation to the day master.
	DailyDeltas map[bazi.TenGod]map[Domain]int
	// Palaces names the palace read for each domain.
	Palaces map[Domain]ziwei.PalaceName
}

// DefaultScoring returns the stock point tables.
func DefaultScoring() *Scoring {
	return &Scoring{
		GodPoints: map[Domain]map[bazi.TenGod]int{
			Career: {
				bazi.DirectOfficer: 15, bazi.SevenKillings: 5, bazi.DirectResource: 10,
				bazi.IndirectResource: 5, bazi.HurtingOfficer: -10, bazi.RobWealth: -5,
			},
			Wealth: {
				bazi.DirectWealth: 15, bazi.IndirectWealth: 12, bazi.EatingGod: 8,
				bazi.RobWealth: -12, bazi.Friend: -5,
			},
			Love: {
				bazi.DirectWealth: 10, bazi.DirectOfficer: 10, bazi.EatingGod: 8,
				bazi.HurtingOfficer: -8, bazi.RobWealth: -8, bazi.SevenKillings: -5,
			},
			Health: {
				bazi.DirectResource: 10, bazi.IndirectResource: 6, bazi.Friend: 6,
				bazi.SevenKillings: -10, bazi.HurtingOfficer: -6,
			},
		},
		StarPoints: map[ziwei.Star]int{
			ziwei.Ziwei: 10, ziwei.Tianfu: 10,
			ziwei.Taiyang: 6, ziwei.Taiyin: 6, ziwei.Tianliang: 6, ziwei.Tiantong: 6, ziwei.Tianxiang: 6,
			ziwei.Tianji: 4, ziwei.Wuqu: 4,
			ziwei.Jumen: -4, ziwei.Lianzhen: -2, ziwei.Qisha: -4, ziwei.Pojun: -4,
			ziwei.Zuofu: 5, ziwei.Youbi: 5, ziwei.Wenchang: 5, ziwei.Wenqu: 5,
			ziwei.Tiankui: 5, ziwei.Tianyue: 5, ziwei.Lucun: 8, ziwei.Tianma: 3,
			ziwei.Qingyang: -8, ziwei.Tuoluo: -8, ziwei.Dikong: -10, ziwei.Dijie: -10,
		},
		TransformPoints: map[ziwei.Transformation]int{
			ziwei.Lu: 10, ziwei.Quan: 6, ziwei.Ke: 5, ziwei.Ji: -12,
		},
		DailyDeltas: map[bazi.TenGod]map[Domain]int{
			bazi.Friend:           {Wealth: -5, Health: 5},
			bazi.RobWealth:        {Career: -3, Wealth: -8, Love: -3},
			bazi.EatingGod:        {Career: 2, Wealth: 5, Love: 6, Health: 4},
			bazi.HurtingOfficer:   {Career: -6, Wealth: 2, Love: -4, Health: -2},
			bazi.IndirectWealth:   {Wealth: 8, Love: 2},
			bazi.DirectWealth:     {Career: 2, Wealth: 6, Love: 5},
			bazi.SevenKillings:    {Career: 3, Wealth: -2, Love: -3, Health: -6},
			bazi.DirectOfficer:    {Career: 6, Wealth: 2, Love: 3},
			bazi.IndirectResource: {Career: 2, Wealth: -2, Health: 3},
			bazi.DirectResource:   {Career: 4, Love: 2, Health: 4},
		},
		Palaces: map[Domain]ziwei.PalaceName{
			Career: ziwei.PalaceCareer,
			Wealth: ziwei.PalaceWealth,
			Love:   ziwei.PalaceSpouse,
			Health: ziwei.PalaceHealth,
		},
	}
}
