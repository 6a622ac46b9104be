package selection

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"prokat/internal/calendar"
	"prokat/internal/dateutil"
	"prokat/internal/metrics"
	"prokat/internal/pricing"
	"prokat/internal/validation"
)

// Controller owns one product page's selection and its published quote.
type Controller struct {
	mu        sync.Mutex
	cal       *calendar.Calendar
	validator *validation.Validator
	engine    *pricing.Engine
	price     Pricing
	pub       Publisher
	logger    *zerolog.Logger

	sel   Selection
	quote *pricing.Quote
}

// NewController creates a controller in StateEmpty. pub and logger may be nil.
func NewController(cal *calendar.Calendar, engine *pricing.Engine, price Pricing, pub Publisher, logger *zerolog.Logger) *Controller {
	if pub == nil {
		pub = nopPublisher{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if engine == nil {
		engine = pricing.NewEngine(0)
	}
	return &Controller{
		cal:       cal,
		validator: validation.NewValidator(cal, logger),
		engine:    engine,
		price:     price,
		pub:       pub,
		logger:    logger,
		sel:       Selection{State: StateEmpty},
	}
}

// OnDateClick applies one click:
// empty -> partial start, partial start -> complete (validated and priced),
// complete -> partial start with the clicked date.
func (c *Controller) OnDateClick(d dateutil.Date) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.sel.State {
	case StatePartialStart:
		return c.complete(d)
	case StateComplete:
		c.clear()
		return c.begin(d)
	default:
		return c.begin(d)
	}
}

func (c *Controller) begin(d dateutil.Date) Outcome {
	if err := c.startable(d); err != nil {
		c.sel = Selection{State: StateEmpty, Invalid: true, Reason: err}
		c.pub.Reject(c.sel, err)
		return Outcome{Selection: c.sel, Err: err}
	}
	c.sel = Selection{State: StatePartialStart, Start: d}
	return Outcome{Selection: c.sel}
}

// startable rejects a first click on a date no range could start or end on.
// A booked date that is also a return or early return day may still anchor an
// early-return-to-return range, so the reservation check is left to the second click.
func (c *Controller) startable(d dateutil.Date) error {
	err := c.validator.Validate(d, d)
	if errors.Is(err, validation.ErrReservedConflict) {
		class := c.cal.Classify(d)
		if class.Has(calendar.EarlyReturnDay) || class.Has(calendar.ReturnDay) {
			return nil
		}
	}
	return err
}

func (c *Controller) complete(d dateutil.Date) Outcome {
	r := dateutil.NewRange(c.sel.Start, d)
	c.sel = Selection{State: StateComplete, Start: r.Start, End: r.End}

	if err := c.validator.Validate(r.Start, r.End); err != nil {
		c.sel.Invalid = true
		c.sel.Reason = err
		c.quote = nil
		c.pub.Reject(c.sel, err)
		return Outcome{Selection: c.sel, Err: err}
	}

	days := pricing.CountDays(r.Start, r.End)
	q := c.engine.Price(days, c.price.BasePrice, c.price.Discount)
	c.quote = &q
	metrics.ObserveBillableDays(days)

	c.logger.Debug().
		Str("range", r.String()).
		Int("billable_days", days).
		Str("total", q.Total.String()).
		Msg("rental range selected")

	c.pub.Publish(c.sel, q)
	quote := q
	return Outcome{Selection: c.sel, Quote: &quote}
}

func (c *Controller) clear() {
	c.sel = Selection{State: StateEmpty}
	c.quote = nil
	c.pub.Clear()
}

// Reset returns to StateEmpty and withdraws any published quote.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

// Rebuild swaps in a freshly built calendar. The in-progress selection is dropped,
// its classification may be stale.
func (c *Controller) Rebuild(cal *calendar.Calendar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cal = cal
	c.validator = validation.NewValidator(cal, c.logger)
	c.clear()
}

// SetPricing replaces the product price data. A published quote is withdrawn.
func (c *Controller) SetPricing(p Pricing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.price = p
	c.clear()
}

// IsComplete gates the add-to-cart action: true only for a complete, valid selection.
func (c *Controller) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.State == StateComplete && !c.sel.Invalid
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// Quote returns the published quote, nil when there is none.
func (c *Controller) Quote() *pricing.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quote == nil {
		return nil
	}
	q := *c.quote
	return &q
}

// RentalDates returns the "DD.MM.YYYY - DD.MM.YYYY" value for the cart form,
// empty unless the selection is complete and valid.
func (c *Controller) RentalDates() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sel.State != StateComplete || c.sel.Invalid {
		return ""
	}
	return dateutil.NewRange(c.sel.Start, c.sel.End).String()
}

// Calendar returns the calendar the controller validates against.
func (c *Controller) Calendar() *calendar.Calendar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cal
}
