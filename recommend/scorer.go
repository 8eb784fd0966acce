package recommend

import (
	"sort"
	"time"

	"freshmart/api/models"
)

// Scoring constants.
const (
	freshnessNewBonus     = 10.0 // products younger than 7 days
	freshnessRecentBonus  = 5.0  // products younger than 14 days
	freshnessNewDays      = 7
	freshnessRecentDays   = 14
	jitterMax             = 5.0 // uniform random addend in [0, jitterMax)
	purchaseExclusionDays = 14  // recent purchases are hard-excluded
)

// Reason tags attached to scored products for diagnostics.
const (
	ReasonCategoryAffinity = "category_affinity"
	ReasonRecentlyViewed   = "recently_viewed"
	ReasonTrending         = "trending"
	ReasonFreshArrival     = "fresh_arrival"
	ReasonRecentPurchase   = "recently_purchased"
)

// RecentPurchases collects the product IDs the user bought within the
// exclusion window. Orders are expected to already be status-qualified.
func RecentPurchases(orders []models.OrderEvent, now time.Time) map[int64]struct{} {
	cutoff := now.Add(-purchaseExclusionDays * 24 * time.Hour)
	purchased := make(map[int64]struct{})
	for _, order := range orders {
		if order.CreatedAt.Before(cutoff) {
			continue
		}
		for _, item := range order.LineItems {
			purchased[item.ProductID] = struct{}{}
		}
	}
	return purchased
}

// ScoreProducts computes the composite score for every in-stock product.
// Products purchased within the exclusion window get the sentinel score and
// are expected to be filtered out before diversity selection.
func ScoreProducts(catalog []models.Product, aff Affinity, trending map[int64]float64, excluded map[int64]struct{}, jitter JitterSource, now time.Time) []models.ScoredProduct {
	scored := make([]models.ScoredProduct, 0, len(catalog))
	for _, p := range catalog {
		if p.StockQuantity <= 0 {
			continue
		}

		if _, ok := excluded[p.ID]; ok {
			scored = append(scored, models.ScoredProduct{
				Product: p,
				Score:   models.ExcludedScore,
				Reasons: []string{ReasonRecentPurchase},
			})
			continue
		}

		var score float64
		var reasons []string

		bucket := uncategorized
		if p.CategoryID != nil {
			bucket = *p.CategoryID
		}
		if s := aff.CategoryScores[bucket]; s > 0 {
			score += s
			reasons = append(reasons, ReasonCategoryAffinity)
		}
		if s := aff.ViewScores[p.ID]; s > 0 {
			score += s
			reasons = append(reasons, ReasonRecentlyViewed)
		}
		if s := trending[p.ID]; s > 0 {
			score += s
			reasons = append(reasons, ReasonTrending)
		}
		if bonus := freshnessBonus(p.CreatedAt, now); bonus > 0 {
			score += bonus
			reasons = append(reasons, ReasonFreshArrival)
		}
		score += jitter.Float64() * jitterMax

		scored = append(scored, models.ScoredProduct{Product: p, Score: score, Reasons: reasons})
	}
	return scored
}

func freshnessBonus(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	switch {
	case age < freshnessNewDays*24*time.Hour:
		return freshnessNewBonus
	case age < freshnessRecentDays*24*time.Hour:
		return freshnessRecentBonus
	default:
		return 0
	}
}

// EligibleByScore drops excluded products and returns the rest sorted
// descending by score, ready for the diversity pass.
func EligibleByScore(scored []models.ScoredProduct) []models.ScoredProduct {
	eligible := make([]models.ScoredProduct, 0, len(scored))
	for _, s := range scored {
		if !s.Excluded() {
			eligible = append(eligible, s)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].Score > eligible[j].Score })
	return eligible
}
