package risk

import (
	"fmt"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Donation-side anomaly thresholds
const (
	identicalAmountRun    = 5 // consecutive identical amounts from one donor
	identicalAmountWeight = 20.0

	rapidDonationWindow = 10 * time.Minute
	rapidDonationCount  = 10
	rapidDonationWeight = 30.0

	donationAbsoluteCeiling = 500000.0
	oversizeDonationWeight  = 25.0
)

// IdenticalAmountSignal flags runs of identical donation amounts from one
// donor, a pattern typical of card-testing bots
type IdenticalAmountSignal struct{}

// NewIdenticalAmountSignal creates the identical-amount heuristic
func NewIdenticalAmountSignal() *IdenticalAmountSignal {
	return &IdenticalAmountSignal{}
}

// Name returns the signal name
func (s *IdenticalAmountSignal) Name() string {
	return "Identical Amounts"
}

// Evaluate counts how many of the donor's most recent donations carry the
// same amount as the candidate; recent is ordered newest first.
func (s *IdenticalAmountSignal) Evaluate(donation domain.Donation, recent []domain.Donation, _ *Context) *domain.RiskFlag {
	run := 1
	for _, prior := range recent {
		if prior.ID == donation.ID {
			continue
		}
		if prior.Amount != donation.Amount {
			break
		}
		run++
	}
	if run < identicalAmountRun {
		return nil
	}
	return &domain.RiskFlag{
		Type:     "IDENTICAL_DONATION_AMOUNTS",
		Weight:   identicalAmountWeight,
		Evidence: fmt.Sprintf("%d consecutive donations of %.2f from one donor", run, donation.Amount),
	}
}

// RapidDonationSignal flags bursts of donations from one donor
type RapidDonationSignal struct{}

// NewRapidDonationSignal creates the rapid-donation heuristic
func NewRapidDonationSignal() *RapidDonationSignal {
	return &RapidDonationSignal{}
}

// Name returns the signal name
func (s *RapidDonationSignal) Name() string {
	return "Rapid Donations"
}

// Evaluate counts the donor's donations inside the rolling window
func (s *RapidDonationSignal) Evaluate(donation domain.Donation, recent []domain.Donation, ctx *Context) *domain.RiskFlag {
	cutoff := ctx.Now.Add(-rapidDonationWindow)
	inWindow := 1
	for _, prior := range recent {
		if prior.ID == donation.ID {
			continue
		}
		if prior.CreatedAt.After(cutoff) {
			inWindow++
		}
	}
	if inWindow < rapidDonationCount {
		return nil
	}
	return &domain.RiskFlag{
		Type:     "RAPID_REPEATED_DONATIONS",
		Weight:   rapidDonationWeight,
		Evidence: fmt.Sprintf("%d donations from one donor within %s", inWindow, rapidDonationWindow),
	}
}

// OversizeDonationSignal flags single donations above the absolute ceiling
type OversizeDonationSignal struct{}

// NewOversizeDonationSignal creates the oversize-donation heuristic
func NewOversizeDonationSignal() *OversizeDonationSignal {
	return &OversizeDonationSignal{}
}

// Name returns the signal name
func (s *OversizeDonationSignal) Name() string {
	return "Oversize Donation"
}

// Evaluate flags amounts above the platform's absolute per-donation ceiling
func (s *OversizeDonationSignal) Evaluate(donation domain.Donation, _ []domain.Donation, _ *Context) *domain.RiskFlag {
	if donation.Amount <= donationAbsoluteCeiling {
		return nil
	}
	return &domain.RiskFlag{
		Type:     "DONATION_EXCEEDS_CEILING",
		Weight:   oversizeDonationWeight,
		Evidence: fmt.Sprintf("single donation of %.2f exceeds ceiling %.0f", donation.Amount, donationAbsoluteCeiling),
	}
}
