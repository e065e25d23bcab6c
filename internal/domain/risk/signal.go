// Package risk implements the fraud/anomaly heuristics pass.
//
// Risk assessment runs independently of the ranking pipeline: different
// inputs, different output shape, and a failure here never blocks or alters
// search results.
package risk

import (
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// CampaignSignal detects one class of suspicious campaign submission
//
// This follows the strategy pattern: each heuristic is independently
// developed and tested, and contributes an additive weight to the aggregate
// risk score when triggered.
type CampaignSignal interface {
	// Evaluate returns a RiskFlag if the heuristic triggers, nil otherwise
	Evaluate(campaign domain.Campaign, creator *domain.Donor, ctx *Context) *domain.RiskFlag

	// Name returns the human-readable name of this signal
	Name() string
}

// DonationSignal detects one class of suspicious donation activity.
// recent holds the same donor's donations ordered newest first.
type DonationSignal interface {
	Evaluate(donation domain.Donation, recent []domain.Donation, ctx *Context) *domain.RiskFlag
	Name() string
}

// Context provides shared data campaign signals may need
type Context struct {
	// Now anchors account-age and rolling-window arithmetic
	Now time.Time

	// CreatorRecent holds campaigns the same creator submitted inside the
	// rapid-creation window, newest first, excluding the one under review
	CreatorRecent []domain.Campaign

	// CreatorTotal is the creator's lifetime campaign count, excluding the
	// one under review
	CreatorTotal int

	// Existing holds recently active campaigns used for duplicate-text
	// matching. A bounded sample, not the whole store.
	Existing []domain.Campaign
}

// NewContext creates a risk evaluation context
func NewContext(now time.Time) *Context {
	return &Context{Now: now}
}
