package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/api/models"
)

func scoredWithCategory(id int64, category *int64, score float64) models.ScoredProduct {
	return models.ScoredProduct{
		Product: models.Product{ID: id, CategoryID: category, StockQuantity: 1},
		Score:   score,
	}
}

func TestDiversityFilterCapsCategory(t *testing.T) {
	// 10 of the 12 highest-scored products share one category; only 4 of
	// them may survive, and the cap binds every other category the same
	// way. With two more categories in reserve the output still fills up.
	var sorted []models.ScoredProduct
	for i := 0; i < 10; i++ {
		sorted = append(sorted, scoredWithCategory(int64(i+1), catID(1), float64(100-i)))
	}
	for i := 0; i < 8; i++ {
		sorted = append(sorted, scoredWithCategory(int64(50+i), catID(2), float64(50-i)))
	}
	for i := 0; i < 8; i++ {
		sorted = append(sorted, scoredWithCategory(int64(80+i), catID(3), float64(30-i)))
	}

	selected := DiversityFilter(sorted, 12, 4)

	require.Len(t, selected, 12)
	counts := map[int64]int{}
	for _, p := range selected {
		counts[*p.CategoryID]++
	}
	assert.Equal(t, 4, counts[1])
	assert.Equal(t, 4, counts[2])
	assert.Equal(t, 4, counts[3])
}

func TestDiversityFilterCapBindsEveryCategory(t *testing.T) {
	// When only two categories exist, the cap leaves the output short of
	// the target rather than overfilling either bucket.
	var sorted []models.ScoredProduct
	for i := 0; i < 10; i++ {
		sorted = append(sorted, scoredWithCategory(int64(i+1), catID(1), float64(100-i)))
	}
	for i := 0; i < 8; i++ {
		sorted = append(sorted, scoredWithCategory(int64(50+i), catID(2), float64(50-i)))
	}

	selected := DiversityFilter(sorted, 12, 4)

	require.Len(t, selected, 8)
	counts := map[int64]int{}
	for _, p := range selected {
		counts[*p.CategoryID]++
	}
	assert.Equal(t, 4, counts[1])
	assert.Equal(t, 4, counts[2])
}

func TestDiversityFilterGreedyNeverRequeues(t *testing.T) {
	sorted := []models.ScoredProduct{
		scoredWithCategory(1, catID(1), 90),
		scoredWithCategory(2, catID(1), 80), // skipped: category full
		scoredWithCategory(3, catID(2), 70),
	}

	selected := DiversityFilter(sorted, 3, 1)

	// Product 2 was skipped and is never reconsidered even though a slot
	// stays open.
	require.Len(t, selected, 2)
	assert.Equal(t, int64(1), selected[0].ID)
	assert.Equal(t, int64(3), selected[1].ID)
}

func TestDiversityFilterUncategorizedSharesBucket(t *testing.T) {
	sorted := []models.ScoredProduct{
		scoredWithCategory(1, nil, 90),
		scoredWithCategory(2, nil, 80),
		scoredWithCategory(3, nil, 70),
		scoredWithCategory(4, catID(9), 60),
	}

	selected := DiversityFilter(sorted, 4, 2)

	require.Len(t, selected, 3)
	assert.Equal(t, int64(1), selected[0].ID)
	assert.Equal(t, int64(2), selected[1].ID)
	assert.Equal(t, int64(4), selected[2].ID)
}

func TestDiversityFilterStopsAtTarget(t *testing.T) {
	var sorted []models.ScoredProduct
	for i := 0; i < 20; i++ {
		sorted = append(sorted, scoredWithCategory(int64(i+1), catID(int64(i+1)), float64(100-i)))
	}

	selected := DiversityFilter(sorted, 12, 4)

	require.Len(t, selected, 12)
	// Stable score order preserved.
	assert.Equal(t, int64(1), selected[0].ID)
	assert.Equal(t, int64(12), selected[11].ID)
}

func TestDiversityFilterEmptyInput(t *testing.T) {
	assert.Empty(t, DiversityFilter(nil, 12, 4))
}

func TestDiversityFilterAlwaysReturnsSlice(t *testing.T) {
	// The display layer serializes the result; it must see [] rather
	// than null whatever the inputs.
	assert.NotNil(t, DiversityFilter(nil, 0, 4))
	assert.NotNil(t, DiversityFilter(nil, 12, 4))
}
