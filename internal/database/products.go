package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prokat/internal/models"
	"prokat/internal/pricing"
)

const productColumns = `id, name, stock_quantity, base_price_minor, discount_type, discount_value,
	is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p            models.Product
		basePrice    int64
		discountType string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.StockQuantity, &basePrice, &discountType, &p.DiscountValue,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.BasePrice = pricing.Money(basePrice)
	p.DiscountType = pricing.DiscountType(discountType)
	return &p, nil
}

// CreateProduct inserts p and sets its ID.
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	now := time.Now()
	result, err := db.ExecContext(ctx, `
		INSERT INTO products (name, stock_quantity, base_price_minor, discount_type, discount_value,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.StockQuantity, int64(p.BasePrice), string(p.DiscountType), p.DiscountValue,
		p.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// UpsertProduct inserts or replaces the product with p.ID, keeping its bookings.
func (db *DB) UpsertProduct(ctx context.Context, p *models.Product) error {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO products (id, name, stock_quantity, base_price_minor, discount_type, discount_value,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			stock_quantity = excluded.stock_quantity,
			base_price_minor = excluded.base_price_minor,
			discount_type = excluded.discount_type,
			discount_value = excluded.discount_value,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.StockQuantity, int64(p.BasePrice), string(p.DiscountType), p.DiscountValue,
		p.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", p.ID, err)
	}
	return nil
}

// GetProduct returns the product or ErrProductNotFound.
func (db *DB) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// ListProducts returns products ordered by id; activeOnly filters out disabled ones.
func (db *DB) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// SetStock updates the stock quantity of a product.
func (db *DB) SetStock(ctx context.Context, productID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative: %d", quantity)
	}

	result, err := db.ExecContext(ctx, `
		UPDATE products SET stock_quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, time.Now(), productID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
