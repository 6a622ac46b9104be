// Package calendar turns a product's booked ranges into per-day availability classes.
package calendar

import (
	"github.com/rs/zerolog"

	"prokat/internal/dateutil"
	"prokat/internal/metrics"
)

const (
	DefaultHorizonDays     = 90
	DefaultMinLeadDays     = 3
	DefaultReturnHour      = 12
	DefaultEarlyReturnHour = 9
)

// Options controls how a Calendar is built.
type Options struct {
	Today       dateutil.Date
	HorizonDays int
	Stock       int
	// MinLeadDays is how far ahead a zero-stock product may still be booked (restock assumed).
	MinLeadDays     int
	ReturnHour      int
	EarlyReturnHour int
	Logger          *zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.MinLeadDays <= 0 {
		o.MinLeadDays = DefaultMinLeadDays
	}
	if o.ReturnHour <= 0 {
		o.ReturnHour = DefaultReturnHour
	}
	if o.EarlyReturnHour <= 0 {
		o.EarlyReturnHour = DefaultEarlyReturnHour
	}
	if o.Stock < 0 {
		o.Stock = 0
	}
}

// Calendar is an immutable day-classification table covering [today, today+horizon].
type Calendar struct {
	opts    Options
	last    dateutil.Date
	days    map[dateutil.Date]Class
	ranges  []dateutil.Range
	dropped int
}

// DayInfo is the per-day view handed to rendering collaborators.
type DayInfo struct {
	Date       dateutil.Date
	Class      Class
	Selectable bool
	// PickupFrom is the hour a ReturnDay becomes available for pickup (0 if not a ReturnDay).
	PickupFrom int
	// ReturnBy is the hour an EarlyReturnDay return is due (0 if not an EarlyReturnDay).
	ReturnBy int
}

// Build classifies every day in the horizon from the raw "DD.MM.YYYY - DD.MM.YYYY" booked ranges.
// Malformed entries are logged and skipped.
func Build(opts Options, bookedRanges []string) *Calendar {
	opts.applyDefaults()
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	c := &Calendar{
		opts: opts,
		last: opts.Today.AddDays(opts.HorizonDays),
		days: make(map[dateutil.Date]Class),
	}

	for _, raw := range bookedRanges {
		r, err := dateutil.ParseRange(raw)
		if err != nil {
			logger.Warn().Err(err).Str("range", raw).Msg("dropping malformed booked range")
			c.dropped++
			continue
		}
		c.ranges = append(c.ranges, r)
	}

	// Reserved covers [start, end) of every booking: the end date belongs to the renter only
	// until the return hour, so it stays sellable as a start date.
	if opts.Stock <= 1 {
		for _, r := range c.ranges {
			c.markSpan(r.Start, r.End.AddDays(-1), Reserved)
		}
	}
	for _, r := range c.ranges {
		c.mark(r.End, ReturnDay)
		c.mark(earlyReturnDate(r.Start), EarlyReturnDay)
	}

	metrics.IncCalendarBuild()
	metrics.AddRangesDropped(c.dropped)
	logger.Debug().
		Int("ranges", len(c.ranges)).
		Int("dropped", c.dropped).
		Int("stock", opts.Stock).
		Str("today", opts.Today.String()).
		Msg("booking calendar built")

	return c
}

// earlyReturnDate is the day before start; Saturdays are closed, so the obligation moves to the Sunday.
func earlyReturnDate(start dateutil.Date) dateutil.Date {
	d := start.AddDays(-1)
	if d.IsSaturday() {
		d = d.AddDays(1)
	}
	return d
}

func (c *Calendar) markSpan(from, to dateutil.Date, flag Class) {
	from = dateutil.MaxDate(from, c.opts.Today)
	to = dateutil.MinDate(to, c.last)
	for d := from; !d.After(to); d = d.AddDays(1) {
		c.days[d] |= flag
	}
}

func (c *Calendar) mark(d dateutil.Date, flag Class) {
	if d.Before(c.opts.Today) || d.After(c.last) {
		return
	}
	c.days[d] |= flag
}

// Classify returns the classes of d. Saturdays always carry Weekend, inside the horizon or not.
func (c *Calendar) Classify(d dateutil.Date) Class {
	class := c.days[d]
	if d.IsSaturday() {
		class |= Weekend
	}
	return class
}

// Selectable reports whether d may be picked as a rental endpoint on its own.
func (c *Calendar) Selectable(d dateutil.Date) bool {
	if d.Before(c.opts.Today) || d.After(c.last) {
		return false
	}
	if c.opts.Stock == 0 && c.WithinLeadTime(d) {
		return false
	}
	class := c.Classify(d)
	return !class.Has(Weekend) && !class.Has(Reserved)
}

// WithinLeadTime reports whether d is closer to today than the minimum lead time.
func (c *Calendar) WithinLeadTime(d dateutil.Date) bool {
	return c.opts.Today.DaysUntil(d) < c.opts.MinLeadDays
}

// InHorizon reports whether d lies inside [today, today+horizon].
func (c *Calendar) InHorizon(d dateutil.Date) bool {
	return !d.Before(c.opts.Today) && !d.After(c.last)
}

// Days returns the day views for [from, to], clipped to the horizon.
func (c *Calendar) Days(from, to dateutil.Date) []DayInfo {
	from = dateutil.MaxDate(from, c.opts.Today)
	to = dateutil.MinDate(to, c.last)

	days := make([]DayInfo, 0, max(from.DaysUntil(to)+1, 0))
	for d := from; !d.After(to); d = d.AddDays(1) {
		class := c.Classify(d)
		info := DayInfo{Date: d, Class: class, Selectable: c.Selectable(d)}
		if class.Has(ReturnDay) {
			info.PickupFrom = c.opts.ReturnHour
		}
		if class.Has(EarlyReturnDay) {
			info.ReturnBy = c.opts.EarlyReturnHour
		}
		days = append(days, info)
	}
	return days
}

func (c *Calendar) Today() dateutil.Date { return c.opts.Today }

// Horizon returns the last classified date.
func (c *Calendar) Horizon() dateutil.Date { return c.last }

func (c *Calendar) Stock() int { return c.opts.Stock }

func (c *Calendar) MinLeadDays() int { return c.opts.MinLeadDays }

// Ranges returns the parsed booked ranges.
func (c *Calendar) Ranges() []dateutil.Range {
	return append([]dateutil.Range(nil), c.ranges...)
}

// Dropped returns how many booked ranges were skipped as malformed.
func (c *Calendar) Dropped() int { return c.dropped }
