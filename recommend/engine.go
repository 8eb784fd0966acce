package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"freshmart/api/metrics"
	"freshmart/api/models"
)

// Provider contracts for the four read-side signals and the write-side
// view recorder. All of them are owned by external collaborators; the
// engine only ever reads.
type CatalogProvider interface {
	FetchInStock(ctx context.Context) ([]models.Product, error)
}

type OrderHistoryProvider interface {
	FetchQualifying(ctx context.Context, userID, limit int) ([]models.OrderEvent, error)
}

type ViewHistoryProvider interface {
	FetchRecent(ctx context.Context, userID, limit int) ([]models.ViewEvent, error)
}

type TrendingProvider interface {
	FetchAggregate(ctx context.Context, windowDays int) (map[int64]int64, error)
}

type ViewRecorder interface {
	RecordView(ctx context.Context, userID int, productID int64) error
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	OrderHistoryLimit  int
	ViewHistoryLimit   int
	TrendingWindowDays int
	RecommendedSize    int
	TrendingSize       int
	FallbackSize       int
	MaxPerCategory     int
	Jitter             JitterSource
	Now                func() time.Time
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		OrderHistoryLimit:  30,
		ViewHistoryLimit:   50,
		TrendingWindowDays: 7,
		RecommendedSize:    12,
		TrendingSize:       8,
		FallbackSize:       10,
		MaxPerCategory:     4,
		Jitter:             DefaultJitter(),
		Now:                time.Now,
	}
}

// Engine is the stateless recommendation pipeline. One invocation fans out
// the four signal reads, scores the catalog, applies the diversity cap and
// assembles the two output lists. It never returns an error: any failed or
// empty signal degrades the result instead of breaking the page.
type Engine struct {
	catalog  CatalogProvider
	orders   OrderHistoryProvider
	views    ViewHistoryProvider
	trending TrendingProvider
	opts     Options
}

// NewEngine wires the providers into an engine.
func NewEngine(catalog CatalogProvider, orders OrderHistoryProvider, views ViewHistoryProvider, trending TrendingProvider, opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.OrderHistoryLimit <= 0 {
		opts.OrderHistoryLimit = defaults.OrderHistoryLimit
	}
	if opts.ViewHistoryLimit <= 0 {
		opts.ViewHistoryLimit = defaults.ViewHistoryLimit
	}
	if opts.TrendingWindowDays <= 0 {
		opts.TrendingWindowDays = defaults.TrendingWindowDays
	}
	if opts.RecommendedSize <= 0 {
		opts.RecommendedSize = defaults.RecommendedSize
	}
	if opts.TrendingSize <= 0 {
		opts.TrendingSize = defaults.TrendingSize
	}
	if opts.FallbackSize <= 0 {
		opts.FallbackSize = defaults.FallbackSize
	}
	if opts.MaxPerCategory <= 0 {
		opts.MaxPerCategory = defaults.MaxPerCategory
	}
	if opts.Jitter == nil {
		opts.Jitter = defaults.Jitter
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	return &Engine{catalog: catalog, orders: orders, views: views, trending: trending, opts: opts}
}

// Recommend produces the personalized result for userID, or the
// trending-only fallback when userID is not positive (anonymous) or the
// user has no behavioral signal at all.
func (e *Engine) Recommend(ctx context.Context, userID int) models.RecommendationResult {
	metrics.RecommendationRequests.Inc()
	timer := time.Now()
	defer func() {
		metrics.RecommendationBuildSeconds.Observe(time.Since(timer).Seconds())
	}()

	catalog, orders, views, aggregate := e.fetchSignals(ctx, userID)
	trendingScores := TrendingScores(aggregate)
	now := e.opts.Now().UTC()

	if userID <= 0 || (len(orders) == 0 && len(views) == 0) {
		metrics.RecommendationFallbacks.Inc()
		return models.RecommendationResult{
			Recommended: []models.Product{},
			Trending:    topByTrending(catalog, trendingScores, nil, e.opts.FallbackSize),
		}
	}

	excluded := RecentPurchases(orders, now)
	aff := BuildAffinity(orders, views, categoryIndex(catalog), now)
	scored := ScoreProducts(catalog, aff, trendingScores, excluded, e.opts.Jitter, now)
	eligible := EligibleByScore(scored)

	return models.RecommendationResult{
		Recommended: DiversityFilter(eligible, e.opts.RecommendedSize, e.opts.MaxPerCategory),
		Trending:    topByTrending(catalog, trendingScores, excluded, e.opts.TrendingSize),
	}
}

// fetchSignals issues the independent reads concurrently and joins them.
// A failed read degrades to its empty value; nothing propagates.
func (e *Engine) fetchSignals(ctx context.Context, userID int) ([]models.Product, []models.OrderEvent, []models.ViewEvent, map[int64]int64) {
	var (
		catalog   []models.Product
		orders    []models.OrderEvent
		views     []models.ViewEvent
		aggregate map[int64]int64
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if catalog, err = e.catalog.FetchInStock(ctx); err != nil {
			metrics.SignalReadErrors.WithLabelValues("catalog").Inc()
			log.Debug().Err(err).Msg("catalog read failed, degrading to empty")
			catalog = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if aggregate, err = e.trending.FetchAggregate(ctx, e.opts.TrendingWindowDays); err != nil {
			metrics.SignalReadErrors.WithLabelValues("trending").Inc()
			log.Debug().Err(err).Msg("trending aggregate read failed, degrading to empty")
			aggregate = nil
		}
	}()

	if userID > 0 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			var err error
			if orders, err = e.orders.FetchQualifying(ctx, userID, e.opts.OrderHistoryLimit); err != nil {
				metrics.SignalReadErrors.WithLabelValues("orders").Inc()
				log.Debug().Err(err).Int("user_id", userID).Msg("order history read failed, degrading to empty")
				orders = nil
			}
		}()
		go func() {
			defer wg.Done()
			var err error
			if views, err = e.views.FetchRecent(ctx, userID, e.opts.ViewHistoryLimit); err != nil {
				metrics.SignalReadErrors.WithLabelValues("views").Inc()
				log.Debug().Err(err).Int("user_id", userID).Msg("view history read failed, degrading to empty")
				views = nil
			}
		}()
	}

	wg.Wait()
	return catalog, orders, views, aggregate
}

// categoryIndex maps product IDs to their category bucket.
func categoryIndex(catalog []models.Product) map[int64]int64 {
	index := make(map[int64]int64, len(catalog))
	for _, p := range catalog {
		bucket := uncategorized
		if p.CategoryID != nil {
			bucket = *p.CategoryID
		}
		index[p.ID] = bucket
	}
	return index
}

// topByTrending ranks in-stock products by trending score alone, skipping
// excluded ones, and returns the top limit.
func topByTrending(catalog []models.Product, trendingScores map[int64]float64, excluded map[int64]struct{}, limit int) []models.Product {
	ranked := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.StockQuantity <= 0 {
			continue
		}
		if _, ok := excluded[p.ID]; ok {
			continue
		}
		ranked = append(ranked, p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return trendingScores[ranked[i].ID] > trendingScores[ranked[j].ID]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
