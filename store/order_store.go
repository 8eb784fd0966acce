package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"freshmart/api/models"
)

// OrderStore reads order history and cross-user demand from Postgres.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// FetchQualifying returns the user's most recent orders with a qualifying
// status, newest first, each with its line items and their category IDs.
func (s *OrderStore) FetchQualifying(ctx context.Context, userID, limit int) ([]models.OrderEvent, error) {
	query := `
		SELECT id, created_at, status
		FROM orders
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := s.db.QueryContext(ctx, query, userID, pq.Array(models.QualifyingOrderStatuses), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query qualifying orders: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderEvent
	var orderIDs []int64
	byID := make(map[int64]int)
	for rows.Next() {
		var o models.OrderEvent
		if err := rows.Scan(&o.OrderID, &o.CreatedAt, &o.Status); err != nil {
			log.Error().Err(err).Msg("Error scanning order row")
			continue
		}
		o.UserID = userID
		byID[o.OrderID] = len(orders)
		orders = append(orders, o)
		orderIDs = append(orderIDs, o.OrderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during qualifying order query: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	itemsQuery := `
		SELECT oi.order_id, oi.product_id, p.category_id, oi.quantity
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1);
	`
	itemRows, err := s.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID    int64
			item       models.LineItem
			categoryID sql.NullInt64
		)
		if err := itemRows.Scan(&orderID, &item.ProductID, &categoryID, &item.Quantity); err != nil {
			log.Error().Err(err).Msg("Error scanning order item row")
			continue
		}
		if categoryID.Valid {
			item.CategoryID = &categoryID.Int64
		}
		if idx, ok := byID[orderID]; ok {
			orders[idx].LineItems = append(orders[idx].LineItems, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("row error during order item query: %w", err)
	}

	return orders, nil
}

// FetchAggregate sums quantities sold per product across all users within
// the trailing window. Cancelled and rejected orders never represented
// demand and are left out.
func (s *OrderStore) FetchAggregate(ctx context.Context, windowDays int) (map[int64]int64, error) {
	query := `
		SELECT oi.product_id, SUM(oi.quantity) AS total_qty
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at > NOW() - ($1 * INTERVAL '1 day')
		  AND o.status <> ALL($2)
		GROUP BY oi.product_id;
	`
	excludedStatuses := []string{models.OrderStatusCancelled, models.OrderStatusRejected}
	rows, err := s.db.QueryContext(ctx, query, windowDays, pq.Array(excludedStatuses))
	if err != nil {
		return nil, fmt.Errorf("failed to query trending aggregate: %w", err)
	}
	defer rows.Close()

	aggregate := make(map[int64]int64)
	for rows.Next() {
		var productID, qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			log.Error().Err(err).Msg("Error scanning trending aggregate row")
			continue
		}
		aggregate[productID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during trending aggregate query: %w", err)
	}

	return aggregate, nil
}
