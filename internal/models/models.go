package models

import (
	"time"

	"prokat/internal/dateutil"
	"prokat/internal/pricing"
)

const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
)

// Product is a rentable item with its stock and price data.
type Product struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	StockQuantity int                  `json:"stock_quantity"`
	BasePrice     pricing.Money        `json:"base_price"` // minor units per billable day
	DiscountType  pricing.DiscountType `json:"discount_type"`
	DiscountValue float64              `json:"discount_value"`
	IsActive      bool                 `json:"is_active"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Discount returns the product's long-rental discount.
func (p *Product) Discount() pricing.Discount {
	return pricing.Discount{Type: p.DiscountType, Value: p.DiscountValue}
}

// Booking is a rental of one product unit for an inclusive date range.
type Booking struct {
	ID              int64         `json:"id"`
	ProductID       int64         `json:"product_id"`
	StartDate       dateutil.Date `json:"-"`
	EndDate         dateutil.Date `json:"-"`
	Status          string        `json:"status"`
	ExternalOrderID string        `json:"external_order_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Range returns the booked range.
func (b *Booking) Range() dateutil.Range {
	return dateutil.NewRange(b.StartDate, b.EndDate)
}

// RentalDates returns the booked range in "DD.MM.YYYY - DD.MM.YYYY" form.
func (b *Booking) RentalDates() string {
	return b.Range().String()
}

// IsActive reports whether the booking still occupies the product.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCanceled
}

// OverlapsWith checks if the two bookings share at least one day. Ends are inclusive.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.Range().Overlaps(other.Range())
}

// ContainsDate checks if the booking covers a specific date.
func (b *Booking) ContainsDate(d dateutil.Date) bool {
	return b.Range().Contains(d)
}
