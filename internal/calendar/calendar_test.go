package calendar

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prokat/internal/dateutil"
)

func day(year int, month time.Month, d int) dateutil.Date {
	return dateutil.New(year, month, d)
}

var today = day(2025, time.May, 1)

func build(stock int, ranges ...string) *Calendar {
	return Build(Options{Today: today, Stock: stock}, ranges)
}

func TestBuild_SingleBooking(t *testing.T) {
	cal := build(1, "02.06.2025 - 05.06.2025")

	assert.Equal(t, EarlyReturnDay, cal.Classify(day(2025, time.June, 1)))
	for d := 2; d <= 4; d++ {
		assert.Equal(t, Reserved, cal.Classify(day(2025, time.June, d)), "June %d", d)
	}
	assert.Equal(t, ReturnDay, cal.Classify(day(2025, time.June, 5)))
	assert.Equal(t, Free, cal.Classify(day(2025, time.June, 6)))
	assert.Equal(t, Weekend, cal.Classify(day(2025, time.June, 7)))
}

func TestBuild_EarlyReturnSkipsSaturday(t *testing.T) {
	// Booking starts on Sunday 1 June; the day before is a Saturday.
	cal := build(1, "01.06.2025 - 05.06.2025")

	assert.Equal(t, Weekend, cal.Classify(day(2025, time.May, 31)))
	sunday := cal.Classify(day(2025, time.June, 1))
	assert.True(t, sunday.Has(EarlyReturnDay))
	assert.True(t, sunday.Has(Reserved))
}

func TestBuild_AdjacentBookings(t *testing.T) {
	cal := build(1, "05.06.2025 - 10.06.2025", "12.06.2025 - 14.06.2025")

	assert.Equal(t, ReturnDay, cal.Classify(day(2025, time.June, 10)))
	assert.Equal(t, EarlyReturnDay, cal.Classify(day(2025, time.June, 11)))
	assert.Equal(t, Reserved, cal.Classify(day(2025, time.June, 12)))
	assert.Equal(t, Reserved, cal.Classify(day(2025, time.June, 13)))
	assert.Equal(t, Weekend|ReturnDay, cal.Classify(day(2025, time.June, 14)))
}

func TestBuild_SameDayTurnover(t *testing.T) {
	cal := build(1, "05.06.2025 - 10.06.2025", "10.06.2025 - 12.06.2025")

	turnover := cal.Classify(day(2025, time.June, 10))
	assert.True(t, turnover.Has(ReturnDay))
	assert.True(t, turnover.Has(Reserved))
	assert.False(t, cal.Selectable(day(2025, time.June, 10)))

	dayBefore := cal.Classify(day(2025, time.June, 9))
	assert.True(t, dayBefore.Has(EarlyReturnDay))
	assert.True(t, dayBefore.Has(Reserved))
}

func TestBuild_ReturnAndEarlyReturnOnSameDay(t *testing.T) {
	cal := build(1, "02.06.2025 - 04.06.2025", "06.06.2025 - 06.06.2025")

	assert.Equal(t, ReturnDay, cal.Classify(day(2025, time.June, 4)))
	assert.Equal(t, EarlyReturnDay, cal.Classify(day(2025, time.June, 5)))

	cal = build(1, "02.06.2025 - 04.06.2025", "05.06.2025 - 06.06.2025")
	boundary := cal.Classify(day(2025, time.June, 4))
	assert.True(t, boundary.Has(ReturnDay))
	assert.True(t, boundary.Has(EarlyReturnDay))
	assert.False(t, boundary.Has(Reserved))
	assert.Equal(t, []string{"return_day", "early_return_day"}, boundary.Names())
}

func TestBuild_StockAboveOneNeverReserves(t *testing.T) {
	ranges := []string{
		"01.06.2025 - 05.06.2025",
		"03.06.2025 - 20.06.2025",
		"10.05.2025 - 10.05.2025",
		"25.07.2025 - 15.09.2025",
	}
	cal := Build(Options{Today: today, Stock: 2}, ranges)

	for d := today; !d.After(cal.Horizon()); d = d.AddDays(1) {
		class := cal.Classify(d)
		assert.False(t, class.Has(Reserved), "date %s", d)
		if !d.IsSaturday() {
			assert.True(t, cal.Selectable(d), "date %s", d)
		}
	}
	assert.True(t, cal.Classify(day(2025, time.June, 5)).Has(ReturnDay))
	assert.True(t, cal.Classify(day(2025, time.June, 2)).Has(EarlyReturnDay))
}

func TestBuild_DropsMalformedRanges(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	cal := Build(Options{Today: today, Stock: 1, Logger: &logger}, []string{
		"not a range",
		"10.06.2025 - 01.06.2025",
		"02.06.2025 - 04.06.2025",
	})

	assert.Equal(t, 2, cal.Dropped())
	require.Len(t, cal.Ranges(), 1)
	assert.True(t, cal.Classify(day(2025, time.June, 3)).Has(Reserved))
	assert.Contains(t, buf.String(), "dropping malformed booked range")
}

func TestSelectable(t *testing.T) {
	cal := build(1, "02.06.2025 - 05.06.2025")

	assert.False(t, cal.Selectable(day(2025, time.April, 30)), "past")
	assert.True(t, cal.Selectable(today))
	assert.False(t, cal.Selectable(day(2025, time.June, 7)), "saturday")
	assert.False(t, cal.Selectable(day(2025, time.June, 3)), "reserved")
	assert.True(t, cal.Selectable(day(2025, time.June, 5)), "return day")
	assert.True(t, cal.Selectable(day(2025, time.June, 1)), "early return day")
	assert.False(t, cal.Selectable(today.AddDays(DefaultHorizonDays+1)), "beyond horizon")
}

func TestSelectable_ZeroStockLeadTime(t *testing.T) {
	cal := build(0)

	assert.False(t, cal.Selectable(today))
	assert.False(t, cal.Selectable(today.AddDays(2)))
	assert.True(t, cal.Selectable(today.AddDays(3)))
}

func TestDays_Hints(t *testing.T) {
	cal := Build(Options{Today: today, Stock: 1, ReturnHour: 11, EarlyReturnHour: 8},
		[]string{"02.06.2025 - 05.06.2025"})

	days := cal.Days(day(2025, time.June, 1), day(2025, time.June, 6))
	require.Len(t, days, 6)

	assert.Equal(t, 8, days[0].ReturnBy)
	assert.Equal(t, 0, days[0].PickupFrom)
	assert.Equal(t, 11, days[4].PickupFrom)
	assert.True(t, days[4].Selectable)
	assert.False(t, days[2].Selectable)
}

func TestDays_ClippedToHorizon(t *testing.T) {
	cal := build(1)

	days := cal.Days(today.AddDays(-10), today.AddDays(200))
	assert.Len(t, days, DefaultHorizonDays+1)
	assert.Equal(t, today, days[0].Date)
	assert.Equal(t, cal.Horizon(), days[len(days)-1].Date)
}

func TestBuild_OneDayBookingReservesNothing(t *testing.T) {
	cal := build(1, "10.06.2025 - 10.06.2025")

	assert.Equal(t, EarlyReturnDay, cal.Classify(day(2025, time.June, 9)))
	assert.Equal(t, ReturnDay, cal.Classify(day(2025, time.June, 10)))
	assert.True(t, cal.Selectable(day(2025, time.June, 10)))
	for _, d := range cal.Days(day(2025, time.June, 1), day(2025, time.June, 30)) {
		assert.False(t, d.Class.Has(Reserved), d.Date.String())
	}
}
