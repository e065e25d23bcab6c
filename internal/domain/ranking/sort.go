package ranking

import (
	"sort"
	"strings"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Strategy names the ordering applied to a result set
type Strategy string

const (
	SortRelevance Strategy = "relevance"
	SortNewest    Strategy = "newest"
	SortOldest    Strategy = "oldest"
	SortGoalHigh  Strategy = "goal_high"
	SortGoalLow   Strategy = "goal_low"
	SortProgress  Strategy = "progress"
	SortPopular   Strategy = "popular"
	SortUrgent    Strategy = "urgent"
	SortTrending  Strategy = "trending"
)

// ParseStrategy maps caller input to a known strategy, defaulting to
// relevance for anything unrecognized (permissive input policy).
func ParseStrategy(raw string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case SortNewest:
		return SortNewest
	case SortOldest:
		return SortOldest
	case SortGoalHigh:
		return SortGoalHigh
	case SortGoalLow:
		return SortGoalLow
	case SortProgress:
		return SortProgress
	case SortPopular:
		return SortPopular
	case SortUrgent:
		return SortUrgent
	case SortTrending:
		return SortTrending
	default:
		return SortRelevance
	}
}

// Sort orders items under the given strategy. Every strategy's tie-break
// chain ends on campaign ID so the ordering is a total order: repeated calls
// with identical inputs produce identical output, which pagination depends
// on (no item skipped or duplicated across pages).
func Sort(items []domain.RankedCampaign, strategy Strategy) {
	less := comparator(strategy)
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

type lessFunc func(a, b domain.RankedCampaign) bool

func comparator(strategy Strategy) lessFunc {
	switch strategy {
	case SortNewest:
		return func(a, b domain.RankedCampaign) bool {
			if !a.Campaign.CreatedAt.Equal(b.Campaign.CreatedAt) {
				return a.Campaign.CreatedAt.After(b.Campaign.CreatedAt)
			}
			return idLess(a, b)
		}
	case SortOldest:
		return func(a, b domain.RankedCampaign) bool {
			if !a.Campaign.CreatedAt.Equal(b.Campaign.CreatedAt) {
				return a.Campaign.CreatedAt.Before(b.Campaign.CreatedAt)
			}
			return idLess(a, b)
		}
	case SortGoalHigh:
		return func(a, b domain.RankedCampaign) bool {
			if a.Campaign.GoalAmount != b.Campaign.GoalAmount {
				return a.Campaign.GoalAmount > b.Campaign.GoalAmount
			}
			return idLess(a, b)
		}
	case SortGoalLow:
		return func(a, b domain.RankedCampaign) bool {
			if a.Campaign.GoalAmount != b.Campaign.GoalAmount {
				return a.Campaign.GoalAmount < b.Campaign.GoalAmount
			}
			return idLess(a, b)
		}
	case SortProgress:
		return func(a, b domain.RankedCampaign) bool {
			pa, pb := a.Campaign.CompletionRatio(), b.Campaign.CompletionRatio()
			if pa != pb {
				return pa > pb
			}
			return idLess(a, b)
		}
	case SortPopular:
		return func(a, b domain.RankedCampaign) bool {
			if a.Campaign.DonorCount != b.Campaign.DonorCount {
				return a.Campaign.DonorCount > b.Campaign.DonorCount
			}
			if a.Campaign.RaisedAmount != b.Campaign.RaisedAmount {
				return a.Campaign.RaisedAmount > b.Campaign.RaisedAmount
			}
			return idLess(a, b)
		}
	case SortUrgent:
		return func(a, b domain.RankedCampaign) bool {
			if a.Features.Urgency != b.Features.Urgency {
				return a.Features.Urgency > b.Features.Urgency
			}
			return idLess(a, b)
		}
	case SortTrending:
		return func(a, b domain.RankedCampaign) bool {
			if a.Features.Trending != b.Features.Trending {
				return a.Features.Trending > b.Features.Trending
			}
			return idLess(a, b)
		}
	default: // SortRelevance
		return func(a, b domain.RankedCampaign) bool {
			if a.RelevanceScore != b.RelevanceScore {
				return a.RelevanceScore > b.RelevanceScore
			}
			if a.TextMatchScore != b.TextMatchScore {
				return a.TextMatchScore > b.TextMatchScore
			}
			return idLess(a, b)
		}
	}
}

// idLess is the terminal tie-break shared by every strategy
func idLess(a, b domain.RankedCampaign) bool {
	return a.Campaign.ID.String() < b.Campaign.ID.String()
}
