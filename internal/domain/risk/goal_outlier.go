package risk

import (
	"fmt"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Typical goal ceilings per category, in platform currency units. Goals far
// above these are historically correlated with fabricated campaigns.
// Production would derive these from rolling category percentiles.
var categoryGoalCeilings = map[domain.Category]float64{
	domain.CategoryMedical:        5000000,
	domain.CategoryEmergency:      2000000,
	domain.CategoryDisasterRelief: 10000000,
	domain.CategoryEducation:      1500000,
	domain.CategoryEnvironment:    2000000,
	domain.CategoryCommunity:      1000000,
	domain.CategoryAnimals:        500000,
	domain.CategoryOther:          1000000,
}

const (
	goalOutlierWeight  = 25.0
	goalTrivialWeight  = 15.0
	goalTrivialFloor   = 1000.0
	goalDefaultCeiling = 1000000.0
)

// GoalOutlierSignal flags goal amounts far outside the category's typical
// range, in either direction
type GoalOutlierSignal struct{}

// NewGoalOutlierSignal creates the goal-outlier heuristic
func NewGoalOutlierSignal() *GoalOutlierSignal {
	return &GoalOutlierSignal{}
}

// Name returns the signal name
func (s *GoalOutlierSignal) Name() string {
	return "Goal Outlier"
}

// Evaluate flags goals exceeding the category ceiling or suspiciously near
// zero (test campaigns probing the payment pipeline).
func (s *GoalOutlierSignal) Evaluate(campaign domain.Campaign, _ *domain.Donor, _ *Context) *domain.RiskFlag {
	ceiling, ok := categoryGoalCeilings[campaign.Category]
	if !ok {
		ceiling = goalDefaultCeiling
	}

	if campaign.GoalAmount > ceiling {
		return &domain.RiskFlag{
			Type:   "GOAL_EXCEEDS_CATEGORY_CEILING",
			Weight: goalOutlierWeight,
			Evidence: fmt.Sprintf("goal %.0f exceeds typical %s ceiling %.0f",
				campaign.GoalAmount, campaign.Category, ceiling),
		}
	}

	if campaign.GoalAmount > 0 && campaign.GoalAmount < goalTrivialFloor {
		return &domain.RiskFlag{
			Type:     "GOAL_NEAR_ZERO",
			Weight:   goalTrivialWeight,
			Evidence: fmt.Sprintf("goal %.0f is below the minimum plausible amount", campaign.GoalAmount),
		}
	}

	return nil
}
