package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prokat/internal/dateutil"
	"prokat/internal/models"
)

const bookingColumns = `id, product_id, start_date, end_date, status, COALESCE(external_order_id, ''),
	created_at, updated_at`

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b          models.Booking
		start, end string
	)
	if err := row.Scan(&b.ID, &b.ProductID, &start, &end, &b.Status, &b.ExternalOrderID,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if b.StartDate, err = dateutil.ParseISO(start); err != nil {
		return nil, fmt.Errorf("booking %d start: %w", b.ID, err)
	}
	if b.EndDate, err = dateutil.ParseISO(end); err != nil {
		return nil, fmt.Errorf("booking %d end: %w", b.ID, err)
	}
	return &b, nil
}

// AddBooking stores an active booking and sets its ID. A repeated external order id
// returns the existing booking's ID instead of inserting a duplicate.
func (db *DB) AddBooking(ctx context.Context, b *models.Booking) error {
	if b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("%w: %s - %s", ErrInvalidRange, b.StartDate, b.EndDate)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if b.ExternalOrderID != "" {
		var existingID int64
		err = tx.QueryRowContext(ctx,
			"SELECT id FROM bookings WHERE external_order_id = ?",
			b.ExternalOrderID,
		).Scan(&existingID)
		if err == nil {
			b.ID = existingID
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check existing: %w", err)
		}
	}

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM products WHERE id = ?", b.ProductID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}

	now := time.Now()
	if b.Status == "" {
		b.Status = models.StatusActive
	}
	var external any
	if b.ExternalOrderID != "" {
		external = b.ExternalOrderID
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (product_id, start_date, end_date, status, external_order_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ProductID, b.StartDate.ISO(), b.EndDate.ISO(), b.Status, external, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// CancelBooking cancels a booking by external order id and returns its product id.
func (db *DB) CancelBooking(ctx context.Context, externalOrderID string) (int64, error) {
	b, err := db.GetBookingByExternalID(ctx, externalOrderID)
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, updated_at = ?
		WHERE id = ? AND status != ?`,
		models.StatusCanceled, time.Now(), b.ID, models.StatusCanceled,
	)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		return 0, ErrBookingNotFound
	}
	return b.ProductID, nil
}

// GetBookingByExternalID returns booking by external order id.
func (db *DB) GetBookingByExternalID(ctx context.Context, externalOrderID string) (*models.Booking, error) {
	b, err := scanBooking(db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE external_order_id = ?`, externalOrderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ListBookings returns the active bookings of a product that end on or after since, ordered by start.
func (db *DB) ListBookings(ctx context.Context, productID int64, since dateutil.Date) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE product_id = ? AND status != ? AND end_date >= ?
		ORDER BY start_date, id`,
		productID, models.StatusCanceled, since.ISO(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// BookedRanges returns the "DD.MM.YYYY - DD.MM.YYYY" ranges of active bookings ending on or after since.
func (db *DB) BookedRanges(ctx context.Context, productID int64, since dateutil.Date) ([]string, error) {
	bookings, err := db.ListBookings(ctx, productID, since)
	if err != nil {
		return nil, fmt.Errorf("list bookings for product %d: %w", productID, err)
	}

	ranges := make([]string, 0, len(bookings))
	for i := range bookings {
		ranges = append(ranges, bookings[i].RentalDates())
	}
	return ranges, nil
}
