// Package dateutil provides calendar-date primitives used by the rental calendar.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the storefront date format (DD.MM.YYYY).
	Layout = "02.01.2006"
	// ISOLayout is used by the JSON API and the database.
	ISOLayout = "2006-01-02"
	// RangeSeparator joins the two dates of a rental period.
	RangeSeparator = " - "
)

var ErrParse = errors.New("unparseable date")

// Date is a calendar date without a time component.
// The zero value is not a valid date; use IsZero to detect it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date, normalizing overflowing values (e.g. 32 January).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the date of now in loc. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

// Parse parses a DD.MM.YYYY date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: expected DD.MM.YYYY", ErrParse, s)
	}
	return FromTime(t), nil
}

// ParseISO parses a YYYY-MM-DD date.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(ISOLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrParse, s)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC of the date. UTC keeps day arithmetic free of DST jumps.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Compare returns -1, 0 or +1 ordering by (year, month, day).
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) IsSaturday() bool { return d.Weekday() == time.Saturday }

func (d Date) IsFriday() bool { return d.Weekday() == time.Friday }

// String formats the date as DD.MM.YYYY.
func (d Date) String() string {
	return d.Time().Format(Layout)
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time().Format(ISOLayout)
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
