package risk

import (
	"fmt"
	"strings"

	"github.com/givehub/campaign-discovery/internal/domain"
)

const (
	duplicateTextWeight = 30.0

	// Minimum normalized length before containment counts as a duplicate;
	// short titles collide constantly ("help my family")
	duplicateMinLength = 20
)

// DuplicateTextSignal flags near-duplicate titles or descriptions against
// existing campaigns. Containment after normalization is a cheap
// approximation, not true similarity search; it catches copy-paste scams,
// which is the common case.
type DuplicateTextSignal struct{}

// NewDuplicateTextSignal creates the duplicate-text heuristic
func NewDuplicateTextSignal() *DuplicateTextSignal {
	return &DuplicateTextSignal{}
}

// Name returns the signal name
func (s *DuplicateTextSignal) Name() string {
	return "Duplicate Text"
}

// Evaluate checks the candidate's normalized title and description for
// containment against the sampled existing campaigns
func (s *DuplicateTextSignal) Evaluate(campaign domain.Campaign, _ *domain.Donor, ctx *Context) *domain.RiskFlag {
	title := normalizeText(campaign.Title)
	description := normalizeText(campaign.Description)

	for _, existing := range ctx.Existing {
		if existing.ID == campaign.ID {
			continue
		}
		if textMatches(title, normalizeText(existing.Title)) {
			return &domain.RiskFlag{
				Type:     "DUPLICATE_TITLE",
				Weight:   duplicateTextWeight,
				Evidence: fmt.Sprintf("title duplicates campaign %s", existing.ID),
			}
		}
		if textMatches(description, normalizeText(existing.Description)) {
			return &domain.RiskFlag{
				Type:     "DUPLICATE_DESCRIPTION",
				Weight:   duplicateTextWeight,
				Evidence: fmt.Sprintf("description duplicates campaign %s", existing.ID),
			}
		}
	}
	return nil
}

// normalizeText lowercases and collapses whitespace
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// textMatches reports whether either normalized string contains the other,
// subject to the minimum-length guard
func textMatches(a, b string) bool {
	if len(a) < duplicateMinLength || len(b) < duplicateMinLength {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
