package analysis

import "fmt"

// Stage is one engine step.
type Stage string

const (
	StageCalendar  Stage = "calendar"
	StagePillars   Stage = "pillars"
	StageStarChart Stage = "star_chart"
	StageFortune   Stage = "fortune"
)

// AllDetails keeps every advice detail code.
const AllDetails = -1

// Plan is what a tier is entitled to.
type Plan struct {
	Stages        []Stage
	AdviceDetails int
}

// Runs reports whether the plan includes stage.
func (p Plan) Runs(stage Stage) bool {
	for _, s := range p.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// DefaultPlans maps every tier to its stages.
func DefaultPlans() map[Tier]Plan {
	return map[Tier]Plan{
		TierFree: {
			Stages:        []Stage{StageCalendar, StagePillars, StageFortune},
			AdviceDetails: 0,
		},
		TierBasic: {
			Stages:        []Stage{StageCalendar, StagePillars, StageStarChart, StageFortune},
			AdviceDetails: 1,
		},
		TierPremium: {
			Stages:        []Stage{StageCalendar, StagePillars, StageStarChart, StageFortune},
			AdviceDetails: AllDetails,
		},
	}
}

// validatePlans rejects tables that skip a mandatory stage.
func validatePlans(plans map[Tier]Plan) error {
	if len(plans) == 0 {
		return fmt.Errorf("no tier plans configured")
	}
	for tier, plan := range plans {
		for _, required := range []Stage{StageCalendar, StagePillars, StageFortune} {
			if !plan.Runs(required) {
				return fmt.Errorf("tier %s skips required stage %s", tier, required)
			}
		}
	}
	return nil
}
