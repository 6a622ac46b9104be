package calendar

import "strings"

// Class is the set of classifications attached to a single day.
// A day may carry several at once (e.g. ReturnDay and EarlyReturnDay between two bookings).
type Class uint8

const (
	// Weekend marks Saturdays; they are never selectable.
	Weekend Class = 1 << iota
	// Reserved marks days covered by a booking when stock does not allow parallel rentals.
	Reserved
	// ReturnDay marks the last day of a booking; the item is back by the return hour.
	ReturnDay
	// EarlyReturnDay marks the day before a booking starts; the previous renter returns early.
	EarlyReturnDay
)

// Free is the empty set.
const Free Class = 0

var classNames = []struct {
	flag Class
	name string
}{
	{Weekend, "weekend"},
	{Reserved, "reserved"},
	{ReturnDay, "return_day"},
	{EarlyReturnDay, "early_return_day"},
}

// Has reports whether all bits of flag are present.
func (c Class) Has(flag Class) bool {
	return c&flag == flag
}

func (c Class) IsFree() bool {
	return c == Free
}

// Names lists the members in a stable order; a free day yields ["free"].
func (c Class) Names() []string {
	if c == Free {
		return []string{"free"}
	}
	names := make([]string, 0, len(classNames))
	for _, cn := range classNames {
		if c.Has(cn.flag) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (c Class) String() string {
	return strings.Join(c.Names(), "|")
}
