package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// UpsertProduct inserts a catalog product or replaces the existing row with
// the same product code.
func (s *Store) UpsertProduct(ctx context.Context, product *Product) (*Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.Code == "" {
		return nil, errors.New("product code is required")
	}
	if product.Name == "" {
		return nil, errors.New("product name is required")
	}

	currency := product.Currency
	if currency == "" {
		currency = "TRY"
	}
	var specsJSON any
	if len(product.Specs) > 0 {
		data, err := json.Marshal(product.Specs)
		if err != nil {
			return nil, fmt.Errorf("marshal specs: %w", err)
		}
		specsJSON = string(data)
	}

	err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO products (
            product_code, name, category, price, currency, specs, is_active
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(product_code) DO UPDATE SET
            name = excluded.name,
            category = excluded.category,
            price = excluded.price,
            currency = excluded.currency,
            specs = excluded.specs,
            is_active = excluded.is_active`,
		product.Code,
		product.Name,
		product.Category,
		product.Price,
		currency,
		specsJSON,
		boolToInt(product.IsActive),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert product: %w", err)
	}

	return s.GetProductByCode(ctx, product.Code)
}

// GetProductByCode fetches a product by its catalog code.
func (s *Store) GetProductByCode(ctx context.Context, code string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE product_code = ?`, code)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ActiveProducts returns all active catalog products in insertion order.
// The catalog indexer derives retrieval documents from this set.
func (s *Store) ActiveProducts(ctx context.Context) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// CountProducts returns the total number of catalog rows.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}
