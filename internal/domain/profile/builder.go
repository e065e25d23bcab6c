// Package profile builds donor preference profiles from donation history.
//
// Profiles are derived, ephemeral values: built fresh per personalized
// request (or served from an injected cache keyed by donor), never persisted.
package profile

import (
	"strings"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
)

// Build aggregates a donor's donation history into a preference profile.
//
// Only completed donations should be passed in; the stores filter on status.
// An empty history yields an explicitly empty profile (TotalDonations == 0)
// so downstream features fall back to their neutral defaults instead of
// dividing by zero.
func Build(donorID uuid.UUID, home domain.Location, history []domain.DonationRecord) *domain.DonorProfile {
	p := &domain.DonorProfile{
		DonorID:              donorID,
		CategoryDistribution: make(map[domain.Category]float64),
		PreferredRegions:     make(map[string]int),
		Location:             home,
	}
	if len(history) == 0 {
		return p
	}

	var (
		total    float64
		first    = history[0].CreatedAt
		last     = history[0].CreatedAt
		catCount = make(map[domain.Category]int)
	)

	for _, record := range history {
		total += record.Amount
		catCount[record.Category]++

		if city := strings.ToLower(strings.TrimSpace(record.Location.City)); city != "" {
			p.PreferredRegions[city]++
		}
		if state := strings.ToLower(strings.TrimSpace(record.Location.State)); state != "" {
			p.PreferredRegions[state]++
		}

		if record.CreatedAt.Before(first) {
			first = record.CreatedAt
		}
		if record.CreatedAt.After(last) {
			last = record.CreatedAt
		}
	}

	count := len(history)
	p.TotalDonations = count
	p.AverageDonationAmount = total / float64(count)

	for category, n := range catCount {
		p.CategoryDistribution[category] = float64(n) / float64(count)
	}

	// Frequency over the active span, floored at one day so a single
	// donation still produces a finite rate.
	spanDays := last.Sub(first).Hours() / 24
	if spanDays < 1 {
		spanDays = 1
	}
	p.DonationsPerDay = float64(count) / spanDays

	return p
}

// Span is a convenience for tests and diagnostics: days between the first
// and last donation in the history, zero for empty input.
func Span(history []domain.DonationRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	first, last := history[0].CreatedAt, history[0].CreatedAt
	for _, record := range history {
		if record.CreatedAt.Before(first) {
			first = record.CreatedAt
		}
		if record.CreatedAt.After(last) {
			last = record.CreatedAt
		}
	}
	return last.Sub(first).Hours() / 24
}
