package recommend

// trendingScoreMax is the ceiling of the normalized trending score.
const trendingScoreMax = 20.0

// TrendingScores normalizes the raw aggregate (summed quantity sold per
// product over the trending window) into scores in [0, 20]. The product
// with the highest aggregate lands exactly on 20; everything else scales
// linearly against it. An empty aggregate yields an empty map.
func TrendingScores(aggregate map[int64]int64) map[int64]float64 {
	scores := make(map[int64]float64, len(aggregate))
	if len(aggregate) == 0 {
		return scores
	}

	var maxQty int64
	for _, qty := range aggregate {
		if qty > maxQty {
			maxQty = qty
		}
	}
	if maxQty < 1 {
		maxQty = 1
	}

	for productID, qty := range aggregate {
		scores[productID] = float64(qty) / float64(maxQty) * trendingScoreMax
	}
	return scores
}
