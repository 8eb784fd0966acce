package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/api/models"
)

func product(id int64, category *int64, stock int, age time.Duration, now time.Time) models.Product {
	return models.Product{
		ID:            id,
		Name:          "product",
		Price:         10,
		CategoryID:    category,
		StockQuantity: stock,
		CreatedAt:     now.Add(-age),
	}
}

func TestScoreProductsExclusionSentinel(t *testing.T) {
	now := time.Now().UTC()
	catalog := []models.Product{
		product(1, nil, 5, 30*24*time.Hour, now),
		product(2, nil, 5, 30*24*time.Hour, now),
	}
	excluded := map[int64]struct{}{1: {}}

	scored := ScoreProducts(catalog, Affinity{}, nil, excluded, ZeroJitter{}, now)

	require.Len(t, scored, 2)
	byID := map[int64]models.ScoredProduct{}
	for _, s := range scored {
		byID[s.Product.ID] = s
	}
	assert.Equal(t, float64(models.ExcludedScore), byID[1].Score)
	assert.Contains(t, byID[1].Reasons, ReasonRecentPurchase)
	assert.GreaterOrEqual(t, byID[2].Score, 0.0)
}

func TestScoreProductsSkipsOutOfStock(t *testing.T) {
	now := time.Now().UTC()
	catalog := []models.Product{
		product(1, nil, 0, time.Hour, now),
		product(2, nil, 3, time.Hour, now),
	}

	scored := ScoreProducts(catalog, Affinity{}, nil, nil, ZeroJitter{}, now)

	require.Len(t, scored, 1)
	assert.Equal(t, int64(2), scored[0].Product.ID)
}

func TestScoreProductsFreshnessMonotonicity(t *testing.T) {
	now := time.Now().UTC()
	catalog := []models.Product{
		product(1, nil, 5, 2*24*time.Hour, now),  // fresh: +10
		product(2, nil, 5, 20*24*time.Hour, now), // stale: +0
	}

	scored := ScoreProducts(catalog, Affinity{}, nil, nil, ZeroJitter{}, now)

	require.Len(t, scored, 2)
	assert.InDelta(t, 10.0, scored[0].Score-scored[1].Score, 1e-9)
	assert.Contains(t, scored[0].Reasons, ReasonFreshArrival)
	assert.NotContains(t, scored[1].Reasons, ReasonFreshArrival)
}

func TestScoreProductsMidFreshnessBonus(t *testing.T) {
	now := time.Now().UTC()
	catalog := []models.Product{
		product(1, nil, 5, 10*24*time.Hour, now), // between 7 and 14 days: +5
	}

	scored := ScoreProducts(catalog, Affinity{}, nil, nil, ZeroJitter{}, now)

	require.Len(t, scored, 1)
	assert.InDelta(t, 5.0, scored[0].Score, 1e-9)
}

func TestScoreProductsAdditiveSignals(t *testing.T) {
	now := time.Now().UTC()
	catalog := []models.Product{
		product(1, catID(3), 5, 30*24*time.Hour, now),
	}
	aff := Affinity{
		CategoryScores: map[int64]float64{3: 35},
		ViewScores:     map[int64]float64{1: 25},
	}
	trending := map[int64]float64{1: 20}

	scored := ScoreProducts(catalog, aff, trending, nil, ZeroJitter{}, now)

	require.Len(t, scored, 1)
	assert.InDelta(t, 80.0, scored[0].Score, 1e-9)
	assert.ElementsMatch(t, []string{ReasonCategoryAffinity, ReasonRecentlyViewed, ReasonTrending}, scored[0].Reasons)
}

func TestScoreProductsJitterBounded(t *testing.T) {
	now := time.Now().UTC()
	catalog := []models.Product{
		product(1, nil, 5, 30*24*time.Hour, now),
	}

	for i := 0; i < 50; i++ {
		scored := ScoreProducts(catalog, Affinity{}, nil, nil, NewSeededJitter(int64(i)), now)
		require.Len(t, scored, 1)
		assert.GreaterOrEqual(t, scored[0].Score, 0.0)
		assert.Less(t, scored[0].Score, jitterMax)
	}
}

func TestRecentPurchasesWindow(t *testing.T) {
	now := time.Now().UTC()
	orders := []models.OrderEvent{
		{
			CreatedAt: now.Add(-5 * 24 * time.Hour),
			Status:    models.OrderStatusDelivered,
			LineItems: []models.LineItem{{ProductID: 1, Quantity: 1}},
		},
		{
			CreatedAt: now.Add(-20 * 24 * time.Hour),
			Status:    models.OrderStatusDelivered,
			LineItems: []models.LineItem{{ProductID: 2, Quantity: 1}},
		},
	}

	purchased := RecentPurchases(orders, now)

	assert.Contains(t, purchased, int64(1))
	assert.NotContains(t, purchased, int64(2))
}

func TestEligibleByScoreDropsExcludedAndSorts(t *testing.T) {
	scored := []models.ScoredProduct{
		{Product: models.Product{ID: 1}, Score: 10},
		{Product: models.Product{ID: 2}, Score: models.ExcludedScore, Reasons: []string{ReasonRecentPurchase}},
		{Product: models.Product{ID: 3}, Score: 42},
	}

	eligible := EligibleByScore(scored)

	require.Len(t, eligible, 2)
	assert.Equal(t, int64(3), eligible[0].Product.ID)
	assert.Equal(t, int64(1), eligible[1].Product.ID)
}
