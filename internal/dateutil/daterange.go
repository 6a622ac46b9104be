package dateutil

import (
	"fmt"
	"strings"
)

// Range is an inclusive date interval [Start, End].
type Range struct {
	Start Date
	End   Date
}

// NewRange orders a and b so that Start <= End.
func NewRange(a, b Date) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// ParseRange parses "DD.MM.YYYY - DD.MM.YYYY". A range whose start is after its end is rejected.
func ParseRange(s string) (Range, error) {
	left, right, ok := strings.Cut(s, "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: range %q has no separator", ErrParse, s)
	}
	start, err := Parse(left)
	if err != nil {
		return Range{}, err
	}
	end, err := Parse(right)
	if err != nil {
		return Range{}, err
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: range %q ends before it starts", ErrParse, s)
	}
	return Range{Start: start, End: end}, nil
}

// String formats the range in the storefront wire format.
func (r Range) String() string {
	return r.Start.String() + RangeSeparator + r.End.String()
}

// Days returns the inclusive number of calendar days.
func (r Range) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d lies within the range, endpoints included.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.End.Before(other.Start) && !other.End.Before(r.Start)
}

// Each calls fn for every date of the range in order; returning false stops the walk.
func (r Range) Each(fn func(Date) bool) {
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}
