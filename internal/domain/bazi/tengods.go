package bazi

import "github.com/yanqian/destiny/internal/domain/calendar"

// TenGod is the relation between the day master and another stem.
type TenGod string

const (
	Friend           TenGod = "friend"
	RobWealth        TenGod = "rob_wealth"
	EatingGod        TenGod = "eating_god"
	HurtingOfficer   TenGod = "hurting_officer"
	IndirectWealth   TenGod = "indirect_wealth"
	DirectWealth     TenGod = "direct_wealth"
	SevenKillings    TenGod = "seven_killings"
	DirectOfficer    TenGod = "direct_officer"
	IndirectResource TenGod = "indirect_resource"
	DirectResource   TenGod = "direct_resource"
)

// TenGods lists all relations in table order.
var TenGods = [10]TenGod{
	Friend, RobWealth, EatingGod, HurtingOfficer, IndirectWealth,
	DirectWealth, SevenKillings, DirectOfficer, IndirectResource, DirectResource,
}

// relate is only used to fill the lookup table; the element distance picks a
// row pair and the polarity match picks the column.
func relate(dayMaster, other calendar.Stem, elements [calendar.StemCount]Element) TenGod {
	distance := int(elements[other]-elements[dayMaster]+ElementCount) % ElementCount
	samePolarity := dayMaster.Yang() == other.Yang()
	pairs := [ElementCount][2]TenGod{
		{RobWealth, Friend},
		{HurtingOfficer, EatingGod},
		{DirectWealth, IndirectWealth},
		{DirectOfficer, SevenKillings},
		{DirectResource, IndirectResource},
	}
	if samePolarity {
		return pairs[distance][1]
	}
	return pairs[distance][0]
}
