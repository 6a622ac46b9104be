package pricing

import "prokat/internal/dateutil"

// CountDays returns the billable days of an inclusive rental range.
// The shop is closed on Saturdays, so every Friday followed by a Saturday inside the range
// is billed together with it as one day.
func CountDays(start, end dateutil.Date) int {
	r := dateutil.NewRange(start, end)
	days := r.Days()
	r.Each(func(d dateutil.Date) bool {
		if d.IsFriday() && r.Contains(d.AddDays(1)) {
			days--
		}
		return true
	})
	return days
}
