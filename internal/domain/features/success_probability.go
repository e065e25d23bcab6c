package features

import (
	"github.com/givehub/campaign-discovery/internal/domain"
)

// Pace bands: funding progress relative to elapsed time, discretized so one
// large donation doesn't bounce a campaign between dozens of score levels.
const (
	paceWellAhead = 1.5
	paceOnTrack   = 1.0
	paceBehind    = 0.5

	successWellAheadScore = 1.0
	successOnTrackScore   = 0.8
	successBehindScore    = 0.5
	successStalledScore   = 0.2
	successNeutral        = 0.5 // no deadline or degenerate duration
)

// SuccessProbabilityExtractor scores whether a campaign is pacing toward
// its goal
type SuccessProbabilityExtractor struct{}

// NewSuccessProbabilityExtractor creates the funding-pace feature
func NewSuccessProbabilityExtractor() *SuccessProbabilityExtractor {
	return &SuccessProbabilityExtractor{}
}

// Name returns the feature name
func (e *SuccessProbabilityExtractor) Name() string {
	return "success_probability"
}

// Extract compares raised-vs-goal against elapsed-vs-duration and maps the
// ratio into four discrete bands. Campaigns without a deadline, with a
// non-positive duration, or scored before any time has elapsed resolve to
// the neutral default instead of dividing by zero.
func (e *SuccessProbabilityExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, ctx *Context) float64 {
	if campaign.EndDate.IsZero() || campaign.CreatedAt.IsZero() {
		return successNeutral
	}

	total := campaign.EndDate.Sub(campaign.CreatedAt).Hours()
	elapsed := ctx.Now.Sub(campaign.CreatedAt).Hours()
	if total <= 0 || elapsed <= 0 {
		return successNeutral
	}
	elapsedRatio := elapsed / total
	if elapsedRatio > 1 {
		elapsedRatio = 1
	}

	progressRatio := 0.0
	if campaign.GoalAmount > 0 {
		progressRatio = campaign.RaisedAmount / campaign.GoalAmount
	}

	pace := progressRatio / elapsedRatio
	switch {
	case pace >= paceWellAhead:
		return successWellAheadScore
	case pace >= paceOnTrack:
		return successOnTrackScore
	case pace >= paceBehind:
		return successBehindScore
	default:
		return successStalledScore
	}
}
