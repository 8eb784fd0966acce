package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"freshmart/api/database"
	"freshmart/api/models"
)

// ViewStore reads and records product view events against the ClickHouse
// event stream. View counts are derived by aggregating the append-only
// stream, so a recorded view can only ever increment them.
type ViewStore struct {
	DB *database.ClickHouseClient
}

func NewViewStore(chClient *database.ClickHouseClient) *ViewStore {
	return &ViewStore{DB: chClient}
}

// FetchRecent returns the user's most recently viewed distinct products,
// newest first, with their accumulated view counts.
func (s *ViewStore) FetchRecent(ctx context.Context, userID, limit int) ([]models.ViewEvent, error) {
	query := `
		SELECT product_id, count() AS view_count, max(viewed_at) AS last_viewed
		FROM product_view_events
		WHERE user_id = ?
		GROUP BY product_id
		ORDER BY last_viewed DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent views: %w", err)
	}
	defer rows.Close()

	var views []models.ViewEvent
	for rows.Next() {
		var (
			productID  int64
			viewCount  uint64
			lastViewed time.Time
		)
		if err := rows.Scan(&productID, &viewCount, &lastViewed); err != nil {
			log.Error().Err(err).Msg("Error scanning view history row")
			continue
		}
		views = append(views, models.ViewEvent{
			UserID:       userID,
			ProductID:    productID,
			ViewCount:    int(viewCount),
			LastViewedAt: lastViewed,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during recent view query: %w", err)
	}

	return views, nil
}

// RecordView appends one view event for the (user, product) pair.
func (s *ViewStore) RecordView(ctx context.Context, userID int, productID int64) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO product_view_events (event_id, user_id, product_id, viewed_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare view event insert: %w", err)
	}

	if err := batch.Append(uuid.New().String(), userID, productID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to append view event: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send view event: %w", err)
	}

	return nil
}
