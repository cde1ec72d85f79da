package analysis

import (
	"time"

	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/domain/fortune"
	"github.com/yanqian/destiny/internal/domain/ziwei"
)

// Gender of the person the analysis is about.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Tier is the caller's subscription level.
type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// Type selects the analysis variant.
type Type string

const (
	// TypeNatal scores the birth chart alone.
	TypeNatal Type = "natal"
	// TypeDaily shifts the natal scores by the relation of a given day.
	TypeDaily Type = "daily"
)

// BirthPlace is informational; the engine never infers a timezone from it.
type BirthPlace struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// BirthRecord is the immutable input of an analysis. BirthTime carries the
// explicit UTC offset the birth was recorded in.
type BirthRecord struct {
	Name       string     `json:"name"`
	Gender     Gender     `json:"gender"`
	BirthTime  time.Time  `json:"birthTime"`
	BirthPlace BirthPlace `json:"birthPlace"`
}

// Offset returns the UTC offset of the birth time.
func (r BirthRecord) Offset() time.Duration {
	_, seconds := r.BirthTime.Zone()
	return time.Duration(seconds) * time.Second
}

// Request asks for one analysis. An explicit Tier wins over a Subject lookup;
// with neither the configured default tier applies.
type Request struct {
	Record  BirthRecord
	Type    Type
	Tier    Tier
	Subject string
	AsOf    time.Time
}

// Result is the self-contained analysis document.
type Result struct {
	Fingerprint string                 `json:"fingerprint"`
	Type        Type                   `json:"type"`
	Tier        Tier                   `json:"tier"`
	Record      BirthRecord            `json:"record"`
	AsOf        string                 `json:"asOf,omitempty"`
	Stages      []Stage                `json:"stages"`
	Lunar       calendar.LunisolarDate `json:"lunar"`
	Pillars     bazi.Chart             `json:"pillars"`
	Chart       *ziwei.Chart           `json:"chart,omitempty"`
	Fortune     fortune.Score          `json:"fortune"`
}
