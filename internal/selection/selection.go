// Package selection implements the click-driven rental range picker.
package selection

import (
	"prokat/internal/dateutil"
	"prokat/internal/pricing"
)

// State of a selection.
type State string

const (
	StateEmpty        State = "empty"
	StatePartialStart State = "partial_start"
	StateComplete     State = "complete"
)

// Selection is the range picked so far. In StatePartialStart only Start is set.
// Invalid marks a selection whose last click was rejected; Reason holds the error.
type Selection struct {
	State   State
	Start   dateutil.Date
	End     dateutil.Date
	Invalid bool
	Reason  error
}

// Range returns the selected range; ok is false unless the selection is complete.
func (s Selection) Range() (dateutil.Range, bool) {
	if s.State != StateComplete {
		return dateutil.Range{}, false
	}
	return dateutil.NewRange(s.Start, s.End), true
}

// Pricing is the product price data a controller quotes with.
type Pricing struct {
	BasePrice pricing.Money
	Discount  pricing.Discount
}

// Publisher receives selection results, e.g. the add-to-cart form and the price display.
type Publisher interface {
	Publish(sel Selection, quote pricing.Quote)
	Reject(sel Selection, reason error)
	Clear()
}

type nopPublisher struct{}

func (nopPublisher) Publish(Selection, pricing.Quote) {}
func (nopPublisher) Reject(Selection, error)          {}
func (nopPublisher) Clear()                           {}

// Outcome is the result of one click.
type Outcome struct {
	Selection Selection
	Quote     *pricing.Quote
	Err       error
}
