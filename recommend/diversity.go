package recommend

import "freshmart/api/models"

// DiversityFilter greedily picks up to target products from the
// score-sorted input while capping each category at maxPerCategory.
// A product whose category is already full is skipped for good; the pass
// never backtracks or re-ranks, so a skipped slot is filled by the next
// product in score order. Uncategorized products share one bucket under
// the same cap.
func DiversityFilter(sorted []models.ScoredProduct, target, maxPerCategory int) []models.Product {
	if target <= 0 {
		return []models.Product{}
	}

	selected := make([]models.Product, 0, target)
	perCategory := make(map[int64]int)

	for _, s := range sorted {
		if len(selected) >= target {
			break
		}
		bucket := uncategorized
		if s.Product.CategoryID != nil {
			bucket = *s.Product.CategoryID
		}
		if maxPerCategory > 0 && perCategory[bucket] >= maxPerCategory {
			continue
		}
		perCategory[bucket]++
		selected = append(selected, s.Product)
	}
	return selected
}
