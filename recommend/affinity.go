package recommend

import (
	"math"
	"time"

	"freshmart/api/models"
)

// Affinity weights and decay constants.
const (
	orderAffinityWeight = 35.0 // per qualifying line item, before decay
	orderDecayDays      = 30.0 // exponential decay horizon for order age
	viewCategoryWeight  = 2.0  // per view count, category contribution
	viewProductWeight   = 5.0  // per view count, direct product contribution
	viewRankDecay       = 20.0 // exponential decay horizon for view recency rank
	viewScoreCap        = 25.0 // ceiling for the direct per-product view score
	categoryScoreMax    = 35.0 // category scores are rescaled so the max hits this
)

// uncategorized is the shared category bucket for products without one.
const uncategorized int64 = 0

// Affinity holds a user's derived preferences: per-category scores capped
// at 35 and direct per-product view scores capped at 25.
type Affinity struct {
	CategoryScores map[int64]float64
	ViewScores     map[int64]float64
}

// BuildAffinity derives category and view scores from a user's qualifying
// order history (newest first) and recent view history (newest first).
// categoryOf maps product IDs to category buckets and comes from the
// catalog; products missing from it fall into the uncategorized bucket.
func BuildAffinity(orders []models.OrderEvent, views []models.ViewEvent, categoryOf map[int64]int64, now time.Time) Affinity {
	aff := Affinity{
		CategoryScores: make(map[int64]float64),
		ViewScores:     make(map[int64]float64),
	}

	for _, order := range orders {
		ageDays := now.Sub(order.CreatedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		decay := math.Exp(-ageDays / orderDecayDays)
		for _, item := range order.LineItems {
			bucket := uncategorized
			if item.CategoryID != nil {
				bucket = *item.CategoryID
			}
			aff.CategoryScores[bucket] += orderAffinityWeight * decay
		}
	}

	for i, view := range views {
		decay := math.Exp(-float64(i) / viewRankDecay)
		count := float64(view.ViewCount)

		bucket, ok := categoryOf[view.ProductID]
		if !ok {
			bucket = uncategorized
		}
		aff.CategoryScores[bucket] += count * viewCategoryWeight * decay

		viewScore := count * viewProductWeight * decay
		if viewScore > viewScoreCap {
			viewScore = viewScoreCap
		}
		aff.ViewScores[view.ProductID] = viewScore
	}

	// Rescale so the strongest category lands exactly on the cap. The
	// denominator is floored at 1 so an all-zero accumulation stays zero.
	var maxScore float64
	for _, score := range aff.CategoryScores {
		if score > maxScore {
			maxScore = score
		}
	}
	denom := math.Max(maxScore, 1)
	for bucket, score := range aff.CategoryScores {
		aff.CategoryScores[bucket] = score / denom * categoryScoreMax
	}

	return aff
}
