package risk

import (
	"fmt"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Account-age risk tiers. Contribution is monotone in decreasing age: a
// younger account never scores lower than an older one.
const (
	newCreatorDayWeight   = 25.0
	newCreatorWeekWeight  = 20.0
	newCreatorMonthWeight = 10.0
	noHistoryWeight       = 10.0
)

// NewCreatorSignal flags campaigns from accounts with little or no history
type NewCreatorSignal struct{}

// NewNewCreatorSignal creates the new-creator heuristic
func NewNewCreatorSignal() *NewCreatorSignal {
	return &NewCreatorSignal{}
}

// Name returns the signal name
func (s *NewCreatorSignal) Name() string {
	return "New Creator"
}

// Evaluate scores account age in tiers and adds a flat term when the
// creator has never run a campaign before. An unknown creator is treated
// as brand new; a missing record is itself suspicious at submission time.
func (s *NewCreatorSignal) Evaluate(_ domain.Campaign, creator *domain.Donor, ctx *Context) *domain.RiskFlag {
	ageDays := 0.0
	if creator != nil && !creator.CreatedAt.IsZero() {
		ageDays = ctx.Now.Sub(creator.CreatedAt).Hours() / 24
	}

	weight := 0.0
	switch {
	case ageDays < 1:
		weight = newCreatorDayWeight
	case ageDays < 7:
		weight = newCreatorWeekWeight
	case ageDays < 30:
		weight = newCreatorMonthWeight
	}

	if ctx.CreatorTotal == 0 {
		weight += noHistoryWeight
	}

	if weight == 0 {
		return nil
	}
	return &domain.RiskFlag{
		Type:   "NEW_CREATOR",
		Weight: weight,
		Evidence: fmt.Sprintf("creator account is %.1f days old with %d prior campaigns",
			ageDays, ctx.CreatorTotal),
	}
}
