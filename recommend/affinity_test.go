package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/api/models"
)

func catID(id int64) *int64 { return &id }

func TestBuildAffinityTopCategoryHitsCap(t *testing.T) {
	now := time.Now().UTC()
	orders := []models.OrderEvent{
		{
			OrderID:   1,
			CreatedAt: now.Add(-24 * time.Hour),
			Status:    models.OrderStatusDelivered,
			LineItems: []models.LineItem{
				{ProductID: 10, CategoryID: catID(5), Quantity: 1},
				{ProductID: 11, CategoryID: catID(5), Quantity: 2},
			},
		},
		{
			OrderID:   2,
			CreatedAt: now.Add(-48 * time.Hour),
			Status:    models.OrderStatusConfirmed,
			LineItems: []models.LineItem{
				{ProductID: 12, CategoryID: catID(7), Quantity: 1},
			},
		},
	}

	aff := BuildAffinity(orders, nil, nil, now)

	require.Contains(t, aff.CategoryScores, int64(5))
	require.Contains(t, aff.CategoryScores, int64(7))
	assert.InDelta(t, 35.0, aff.CategoryScores[5], 1e-9)
	assert.Less(t, aff.CategoryScores[7], aff.CategoryScores[5])
}

func TestBuildAffinityOrderRecencyDecay(t *testing.T) {
	now := time.Now().UTC()
	fresh := []models.OrderEvent{{
		CreatedAt: now.Add(-24 * time.Hour),
		LineItems: []models.LineItem{{ProductID: 1, CategoryID: catID(1)}},
	}}
	stale := []models.OrderEvent{{
		CreatedAt: now.Add(-29 * 24 * time.Hour),
		LineItems: []models.LineItem{{ProductID: 2, CategoryID: catID(2)}},
	}}

	// Both normalize to their max, so compare the raw decayed weight via a
	// shared category: the stale order must contribute strictly less.
	combined := append(append([]models.OrderEvent{}, fresh...), stale...)
	aff := BuildAffinity(combined, nil, nil, now)
	assert.Less(t, aff.CategoryScores[2], aff.CategoryScores[1])
}

func TestBuildAffinityViewScoreCap(t *testing.T) {
	now := time.Now().UTC()
	views := []models.ViewEvent{
		{ProductID: 42, ViewCount: 100, LastViewedAt: now},
	}

	aff := BuildAffinity(nil, views, map[int64]int64{42: 3}, now)

	// 100 * 5 would blow far past the cap.
	assert.InDelta(t, 25.0, aff.ViewScores[42], 1e-9)
}

func TestBuildAffinityViewRankDecay(t *testing.T) {
	now := time.Now().UTC()
	views := []models.ViewEvent{
		{ProductID: 1, ViewCount: 1, LastViewedAt: now},
		{ProductID: 2, ViewCount: 1, LastViewedAt: now.Add(-time.Hour)},
	}

	aff := BuildAffinity(nil, views, map[int64]int64{1: 1, 2: 2}, now)

	expectedFirst := 1 * 5 * math.Exp(0)
	expectedSecond := 1 * 5 * math.Exp(-1.0/20)
	assert.InDelta(t, expectedFirst, aff.ViewScores[1], 1e-9)
	assert.InDelta(t, expectedSecond, aff.ViewScores[2], 1e-9)
	assert.Greater(t, aff.ViewScores[1], aff.ViewScores[2])
}

func TestBuildAffinityUnknownCategoryGoesUncategorized(t *testing.T) {
	now := time.Now().UTC()
	views := []models.ViewEvent{
		{ProductID: 99, ViewCount: 2, LastViewedAt: now},
	}

	// Product 99 is missing from the catalog index.
	aff := BuildAffinity(nil, views, map[int64]int64{}, now)

	require.Contains(t, aff.CategoryScores, uncategorized)
	assert.Greater(t, aff.CategoryScores[uncategorized], 0.0)
}

func TestBuildAffinityEmptyInputs(t *testing.T) {
	aff := BuildAffinity(nil, nil, nil, time.Now().UTC())
	assert.Empty(t, aff.CategoryScores)
	assert.Empty(t, aff.ViewScores)
}
