package ziwei

// Star names a placed star.
type Star string

// Major stars.
const (
	Ziwei     Star = "ziwei"
	Tianji    Star = "tianji"
	Taiyang   Star = "taiyang"
	Wuqu      Star = "wuqu"
	Tiantong  Star = "tiantong"
	Lianzhen  Star = "lianzhen"
	Tianfu    Star = "tianfu"
	Taiyin    Star = "taiyin"
	Tanlang   Star = "tanlang"
	Jumen     Star = "jumen"
	Tianxiang Star = "tianxiang"
	Tianliang Star = "tianliang"
	Qisha     Star = "qisha"
	Pojun     Star = "pojun"
)

// Minor stars.
const (
	Wenchang Star = "wenchang"
	Wenqu    Star = "wenqu"
	Zuofu    Star = "zuofu"
	Youbi    Star = "youbi"
	Tiankui  Star = "tiankui"
	Tianyue  Star = "tianyue"
	Lucun    Star = "lucun"
	Qingyang Star = "qingyang"
	Tuoluo   Star = "tuoluo"
	Tianma   Star = "tianma"
	Dikong   Star = "dikong"
	Dijie    Star = "dijie"
)

// StarKind separates major from minor stars.
type StarKind string

const (
	MajorStar StarKind = "major"
	MinorStar StarKind = "minor"
)

// Transformation is one of the four year-stem transformations.
type Transformation string

const (
	Lu   Transformation = "lu"
	Quan Transformation = "quan"
	Ke   Transformation = "ke"
	Ji   Transformation = "ji"
)

// StarPlacement is a star inside a palace.
type StarPlacement struct {
	Star           Star           `json:"star"`
	Kind           StarKind       `json:"kind"`
	Transformation Transformation `json:"transformation,omitempty"`
}

// MajorStars lists the fourteen major stars in placement order.
var MajorStars = []Star{
	Ziwei, Tianji, Taiyang, Wuqu, Tiantong, Lianzhen,
	Tianfu, Taiyin, Tanlang, Jumen, Tianxiang, Tianliang, Qisha, Pojun,
}

// MinorStars lists the minor stars in placement order.
var MinorStars = []Star{
	Zuofu, Youbi, Wenchang, Wenqu, Dikong, Dijie,
	Lucun, Qingyang, Tuoluo, Tiankui, Tianyue, Tianma,
}

// KindOf classifies a star.
func KindOf(s Star) StarKind {
	for _, m := range MajorStars {
		if m == s {
			return MajorStar
		}
	}
	return MinorStar
}

// Transformations by year stem, in lu, quan, ke, ji order.
var transformationTable = [10][4]Star{
	{Lianzhen, Pojun, Wuqu, Taiyang},       // jia
	{Tianji, Tianliang, Ziwei, Taiyin},     // yi
	{Tiantong, Tianji, Wenchang, Lianzhen}, // bing
	{Taiyin, Tiantong, Tianji, Jumen},      // ding
	{Tanlang, Taiyin, Youbi, Tianji},       // wu
	{Wuqu, Tanlang, Tianliang, Wenqu},      // ji
	{Taiyang, Wuqu, Taiyin, Tiantong},      // geng
	{Jumen, Taiyang, Wenqu, Wenchang},      // xin
	{Tianliang, Ziwei, Zuofu, Wuqu},        // ren
	{Pojun, Jumen, Taiyin, Tanlang},        // gui
}

var transformationOrder = [4]Transformation{Lu, Quan, Ke, Ji}

// Branch lookups keyed by year stem.
var (
	lucunByStem   = [10]int{2, 3, 5, 6, 5, 6, 8, 9, 11, 0}
	tiankuiByStem = [10]int{1, 0, 11, 11, 1, 0, 1, 6, 3, 3}
	tianyueByStem = [10]int{7, 8, 9, 9, 7, 8, 7, 2, 5, 5}
)

// Tianma keyed by year branch: the horse sits opposite the triad's first branch.
var tianmaByBranch = [12]int{2, 11, 8, 5, 2, 11, 8, 5, 2, 11, 8, 5}

// Bureau number by life palace nayin element (wood, fire, earth, metal, water).
var bureauByElement = [5]int{3, 6, 5, 4, 2}
