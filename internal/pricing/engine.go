// Package pricing computes billable rental days and prices.
package pricing

import (
	"fmt"
	"strings"
)

// DefaultThresholdDays is the rental length (one week) from which the product discount applies.
const DefaultThresholdDays = 7

// DiscountType selects how Discount.Value is interpreted.
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// ParseDiscountType accepts "percentage", "fixed" or an empty string.
func ParseDiscountType(s string) (DiscountType, error) {
	switch t := DiscountType(strings.ToLower(strings.TrimSpace(s))); t {
	case DiscountNone, DiscountPercentage, DiscountFixed:
		return t, nil
	default:
		return DiscountNone, fmt.Errorf("unknown discount type %q", s)
	}
}

// Discount is a product's long-rental discount. Value is a percent for DiscountPercentage
// and an amount in major units for DiscountFixed.
type Discount struct {
	Type  DiscountType
	Value float64
}

// Quote is the derived price of an accepted rental range.
type Quote struct {
	BillableDays int
	Subtotal     Money
	Discount     Money
	Total        Money
}

// Engine prices rentals.
type Engine struct {
	ThresholdDays int
}

// NewEngine creates an engine; thresholdDays <= 0 selects DefaultThresholdDays.
func NewEngine(thresholdDays int) *Engine {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return &Engine{ThresholdDays: thresholdDays}
}

// Price computes subtotal, discount and total for billableDays at basePrice per day.
func (e *Engine) Price(billableDays int, basePrice Money, discount Discount) Quote {
	q := Quote{
		BillableDays: billableDays,
		Subtotal:     basePrice.Multiply(int64(billableDays)),
	}

	if billableDays >= e.threshold() && discount.Value > 0 {
		switch discount.Type {
		case DiscountPercentage:
			q.Discount = q.Subtotal.Percent(discount.Value)
		case DiscountFixed:
			q.Discount = FromFloat(discount.Value)
		}
	}

	q.Total = q.Subtotal - q.Discount
	if q.Total < 0 {
		q.Total = 0
	}
	return q
}

func (e *Engine) threshold() int {
	if e == nil || e.ThresholdDays <= 0 {
		return DefaultThresholdDays
	}
	return e.ThresholdDays
}
