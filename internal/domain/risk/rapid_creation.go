package risk

import (
	"fmt"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Rolling-window thresholds for repeat submissions by one creator. Three or
// more inside an hour classifies high on its own: no legitimate fundraiser
// resubmits that fast.
const (
	rapidCreationWindow = time.Hour
	rapidBurstCount     = 3
	rapidBurstWeight    = 65.0
	rapidPairWeight     = 20.0
)

// RapidCreationSignal flags bursts of campaign submissions from one creator
type RapidCreationSignal struct{}

// NewRapidCreationSignal creates the rapid-creation heuristic
func NewRapidCreationSignal() *RapidCreationSignal {
	return &RapidCreationSignal{}
}

// Name returns the signal name
func (s *RapidCreationSignal) Name() string {
	return "Rapid Creation"
}

// Evaluate counts the creator's other submissions inside the window; the
// candidate itself makes the burst one larger.
func (s *RapidCreationSignal) Evaluate(campaign domain.Campaign, _ *domain.Donor, ctx *Context) *domain.RiskFlag {
	cutoff := ctx.Now.Add(-rapidCreationWindow)
	inWindow := 1 // the submission under review
	for _, prior := range ctx.CreatorRecent {
		if prior.ID == campaign.ID {
			continue
		}
		if prior.CreatedAt.After(cutoff) {
			inWindow++
		}
	}

	switch {
	case inWindow >= rapidBurstCount:
		return &domain.RiskFlag{
			Type:   "RAPID_CAMPAIGN_CREATION",
			Weight: rapidBurstWeight,
			Evidence: fmt.Sprintf("%d campaigns created by one creator within %s",
				inWindow, rapidCreationWindow),
		}
	case inWindow == 2:
		return &domain.RiskFlag{
			Type:   "REPEAT_CAMPAIGN_CREATION",
			Weight: rapidPairWeight,
			Evidence: fmt.Sprintf("2 campaigns created by one creator within %s",
				rapidCreationWindow),
		}
	}
	return nil
}
