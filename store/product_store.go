package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"freshmart/api/models"
)

// ProductStore reads the catalog from Postgres.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// FetchInStock returns every product with stock on hand, including its
// default variant price/mrp override when one exists.
func (s *ProductStore) FetchInStock(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT p.id, p.name, p.price, p.category_id, p.stock_quantity, p.created_at, p.discount_percent,
		       v.price, v.mrp
		FROM products p
		LEFT JOIN product_variants v ON v.product_id = p.id AND v.is_default
		WHERE p.stock_quantity > 0;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query in-stock products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			p            models.Product
			categoryID   sql.NullInt64
			discount     sql.NullFloat64
			variantPrice sql.NullFloat64
			variantMRP   sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &categoryID, &p.StockQuantity, &p.CreatedAt, &discount, &variantPrice, &variantMRP); err != nil {
			log.Error().Err(err).Msg("Error scanning product row")
			continue
		}
		if categoryID.Valid {
			p.CategoryID = &categoryID.Int64
		}
		if discount.Valid {
			p.DiscountPercent = &discount.Float64
		}
		if variantPrice.Valid {
			p.DefaultVariant = &models.Variant{
				Price: variantPrice.Float64,
				MRP:   variantMRP.Float64,
			}
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during in-stock product query: %w", err)
	}

	return products, nil
}
