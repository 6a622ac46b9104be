// Package validation decides whether a selected rental range can be booked.
package validation

import (
	"fmt"

	"github.com/rs/zerolog"

	"prokat/internal/calendar"
	"prokat/internal/dateutil"
	"prokat/internal/metrics"
)

// Validator checks (start, end) selections against a built calendar.
type Validator struct {
	cal    *calendar.Calendar
	logger *zerolog.Logger
}

// NewValidator creates a validator. A nil logger disables logging.
func NewValidator(cal *calendar.Calendar, logger *zerolog.Logger) *Validator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Validator{cal: cal, logger: logger}
}

// rule inspects an ordered range. done=true ends evaluation with err (nil means accept).
type rule func(v *Validator, r dateutil.Range) (done bool, err error)

// rules run top to bottom; the first one that decides wins.
var rules = []rule{
	checkPast,
	checkWeekendStart,
	checkWeekendEnd,
	checkHorizon,
	checkStock,
	acceptEarlyReturnToReturn,
	checkReserved,
}

// Validate returns nil if the range may be booked. The endpoints may be given in any order.
func (v *Validator) Validate(first, second dateutil.Date) error {
	r := dateutil.NewRange(first, second)

	var err error
	for _, check := range rules {
		var done bool
		if done, err = check(v, r); done {
			break
		}
	}

	metrics.IncValidation(err == nil, string(Kind(err)))
	if err != nil {
		v.logger.Debug().Err(err).Str("range", r.String()).Msg("rental range rejected")
	}
	return err
}

func checkPast(v *Validator, r dateutil.Range) (bool, error) {
	if r.Start.Before(v.cal.Today()) {
		return true, fmt.Errorf("%w: %s", ErrPastDate, r.Start)
	}
	return false, nil
}

func checkWeekendStart(v *Validator, r dateutil.Range) (bool, error) {
	if v.cal.Classify(r.Start).Has(calendar.Weekend) {
		return true, fmt.Errorf("%w: start %s", ErrWeekend, r.Start)
	}
	return false, nil
}

func checkWeekendEnd(v *Validator, r dateutil.Range) (bool, error) {
	if v.cal.Classify(r.End).Has(calendar.Weekend) {
		return true, fmt.Errorf("%w: end %s", ErrWeekend, r.End)
	}
	return false, nil
}

func checkHorizon(v *Validator, r dateutil.Range) (bool, error) {
	if !v.cal.InHorizon(r.End) {
		return true, fmt.Errorf("%w: %s is after %s", ErrDateTooFar, r.End, v.cal.Horizon())
	}
	return false, nil
}

// checkStock blocks zero-stock products inside the lead time; beyond it restocking is assumed.
func checkStock(v *Validator, r dateutil.Range) (bool, error) {
	if v.cal.Stock() == 0 && v.cal.WithinLeadTime(r.Start) {
		return true, fmt.Errorf("%w: %s is less than %d days ahead", ErrStockExhausted, r.Start, v.cal.MinLeadDays())
	}
	return false, nil
}

// acceptEarlyReturnToReturn lets a renter pick up right after an early return and bring the item
// back on another booking's return day, whatever lies between.
func acceptEarlyReturnToReturn(v *Validator, r dateutil.Range) (bool, error) {
	if v.cal.Classify(r.Start).Has(calendar.EarlyReturnDay) && v.cal.Classify(r.End).Has(calendar.ReturnDay) {
		return true, nil
	}
	return false, nil
}

// checkReserved rejects ranges touching a Reserved day. Reserved is only present when stock <= 1.
func checkReserved(v *Validator, r dateutil.Range) (bool, error) {
	var conflict dateutil.Date
	r.Each(func(d dateutil.Date) bool {
		if v.cal.Classify(d).Has(calendar.Reserved) {
			conflict = d
			return false
		}
		return true
	})
	if !conflict.IsZero() {
		return true, fmt.Errorf("%w: %s is booked", ErrReservedConflict, conflict)
	}
	return true, nil
}
