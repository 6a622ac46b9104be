package validation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"prokat/internal/calendar"
	"prokat/internal/dateutil"
)

func day(year int, month time.Month, d int) dateutil.Date {
	return dateutil.New(year, month, d)
}

var today = day(2025, time.May, 1)

func newValidator(stock int, ranges ...string) *Validator {
	cal := calendar.Build(calendar.Options{Today: today, Stock: stock}, ranges)
	return NewValidator(cal, nil)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		stock   int
		ranges  []string
		first   dateutil.Date
		second  dateutil.Date
		wantErr error
	}{
		{
			name:   "free single day",
			stock:  1,
			ranges: []string{"01.06.2025 - 05.06.2025"},
			first:  day(2025, time.June, 6),
			second: day(2025, time.June, 6),
		},
		{
			name:   "early return day next to return day",
			stock:  1,
			ranges: []string{"01.06.2025 - 10.06.2025", "12.06.2025 - 14.06.2025"},
			first:  day(2025, time.June, 11),
			second: day(2025, time.June, 10),
		},
		{
			name:   "early return to return day ignores the interior",
			stock:  1,
			ranges: []string{"10.06.2025 - 12.06.2025"},
			first:  day(2025, time.June, 9),
			second: day(2025, time.June, 12),
		},
		{
			name:   "return day as start",
			stock:  1,
			ranges: []string{"02.06.2025 - 05.06.2025"},
			first:  day(2025, time.June, 5),
			second: day(2025, time.June, 6),
		},
		{
			name:   "early return day as end with a Saturday inside",
			stock:  1,
			ranges: []string{"10.06.2025 - 12.06.2025"},
			first:  day(2025, time.June, 5),
			second: day(2025, time.June, 9),
		},
		{
			name:    "interior reserved",
			stock:   1,
			ranges:  []string{"10.06.2025 - 12.06.2025"},
			first:   day(2025, time.June, 5),
			second:  day(2025, time.June, 16),
			wantErr: ErrReservedConflict,
		},
		{
			name:    "start inside a booking",
			stock:   1,
			ranges:  []string{"10.06.2025 - 13.06.2025"},
			first:   day(2025, time.June, 11),
			second:  day(2025, time.June, 11),
			wantErr: ErrReservedConflict,
		},
		{
			name:    "same day turnover is taken",
			stock:   1,
			ranges:  []string{"02.06.2025 - 05.06.2025", "05.06.2025 - 06.06.2025"},
			first:   day(2025, time.June, 5),
			second:  day(2025, time.June, 5),
			wantErr: ErrReservedConflict,
		},
		{
			name:   "parallel bookings with stock above one",
			stock:  2,
			ranges: []string{"02.06.2025 - 05.06.2025"},
			first:  day(2025, time.June, 2),
			second: day(2025, time.June, 5),
		},
		{
			name:    "start in the past",
			stock:   1,
			first:   day(2025, time.April, 30),
			second:  day(2025, time.May, 2),
			wantErr: ErrPastDate,
		},
		{
			name:    "zero stock inside lead time",
			stock:   0,
			first:   day(2025, time.May, 2),
			second:  day(2025, time.May, 5),
			wantErr: ErrStockExhausted,
		},
		{
			name:   "zero stock beyond lead time",
			stock:  0,
			first:  day(2025, time.May, 6),
			second: day(2025, time.May, 8),
		},
		{
			name:    "zero stock beyond lead time still respects bookings",
			stock:   0,
			ranges:  []string{"12.05.2025 - 14.05.2025"},
			first:   day(2025, time.May, 6),
			second:  day(2025, time.May, 15),
			wantErr: ErrReservedConflict,
		},
		{
			name:    "end beyond horizon",
			stock:   1,
			first:   day(2025, time.July, 25),
			second:  day(2025, time.July, 31),
			wantErr: ErrDateTooFar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newValidator(tt.stock, tt.ranges...).Validate(tt.first, tt.second)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidate_SaturdayEndpointsAlwaysRejected(t *testing.T) {
	for _, stock := range []int{0, 1, 3} {
		v := newValidator(stock, "01.06.2025 - 05.06.2025")
		for d := today; !d.After(today.AddDays(calendar.DefaultHorizonDays + 14)); d = d.AddDays(1) {
			if !d.IsSaturday() {
				continue
			}
			t.Run(fmt.Sprintf("stock %d %s", stock, d), func(t *testing.T) {
				assert.ErrorIs(t, v.Validate(d, d.AddDays(2)), ErrWeekend)
				assert.ErrorIs(t, v.Validate(d.AddDays(-1), d), ErrWeekend)
				assert.ErrorIs(t, v.Validate(d, d), ErrWeekend)
			})
		}
	}
}

func TestValidate_OrderIndependent(t *testing.T) {
	v := newValidator(1, "10.06.2025 - 12.06.2025")

	assert.NoError(t, v.Validate(day(2025, time.June, 9), day(2025, time.June, 12)))
	assert.NoError(t, v.Validate(day(2025, time.June, 12), day(2025, time.June, 9)))
}

func TestKind(t *testing.T) {
	_, parseErr := dateutil.ParseRange("nope")

	assert.Equal(t, KindNone, Kind(nil))
	assert.Equal(t, KindParse, Kind(parseErr))
	assert.Equal(t, KindPastDate, Kind(fmt.Errorf("%w: x", ErrPastDate)))
	assert.Equal(t, KindWeekend, Kind(ErrWeekend))
	assert.Equal(t, KindReservedConflict, Kind(ErrReservedConflict))
	assert.Equal(t, KindStockExhausted, Kind(ErrStockExhausted))
	assert.Equal(t, KindDateTooFar, Kind(ErrDateTooFar))
	assert.Equal(t, KindUnknown, Kind(errors.New("boom")))
}

// A one-day booking only tags its day as a return day, so the same day can be booked again.
func TestValidate_OneDayBookingLeavesDayOpen(t *testing.T) {
	v := newValidator(1, "10.06.2025 - 10.06.2025")

	assert.NoError(t, v.Validate(day(2025, time.June, 10), day(2025, time.June, 10)))
	assert.NoError(t, v.Validate(day(2025, time.June, 9), day(2025, time.June, 11)))
}
