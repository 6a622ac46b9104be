package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prokat/internal/dateutil"
)

func day(year int, month time.Month, d int) dateutil.Date {
	return dateutil.New(year, month, d)
}

func TestCountDays(t *testing.T) {
	tests := []struct {
		name  string
		start dateutil.Date
		end   dateutil.Date
		want  int
	}{
		{name: "single weekday", start: day(2025, time.June, 4), end: day(2025, time.June, 4), want: 1},
		{name: "single friday", start: day(2025, time.June, 6), end: day(2025, time.June, 6), want: 1},
		{name: "single saturday", start: day(2025, time.June, 7), end: day(2025, time.June, 7), want: 1},
		{name: "friday and saturday", start: day(2025, time.June, 6), end: day(2025, time.June, 7), want: 1},
		{name: "saturday to sunday", start: day(2025, time.June, 7), end: day(2025, time.June, 8), want: 2},
		{name: "thursday to friday", start: day(2025, time.June, 5), end: day(2025, time.June, 6), want: 2},
		{name: "sunday to next sunday", start: day(2025, time.June, 1), end: day(2025, time.June, 8), want: 7},
		{name: "two weekends", start: day(2025, time.June, 2), end: day(2025, time.June, 16), want: 13},
		{name: "reversed endpoints", start: day(2025, time.June, 8), end: day(2025, time.June, 1), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountDays(tt.start, tt.end))
		})
	}
}

func TestCountDays_Invariant(t *testing.T) {
	start := day(2025, time.May, 1)
	for offset := 0; offset < 60; offset++ {
		for length := 0; length < 40; length++ {
			s := start.AddDays(offset)
			e := s.AddDays(length)

			pairs := 0
			for d := s; !d.After(e); d = d.AddDays(1) {
				if d.IsFriday() && !d.AddDays(1).After(e) {
					pairs++
				}
			}

			got := CountDays(s, e)
			require.GreaterOrEqual(t, got, 1)
			require.Equal(t, length+1-pairs, got, "%s - %s", s, e)
		}
	}
}

func TestEngine_Price(t *testing.T) {
	engine := NewEngine(0)
	hundred := FromUnits(100)

	tests := []struct {
		name     string
		days     int
		base     Money
		discount Discount
		want     Quote
	}{
		{
			name:     "below threshold",
			days:     6,
			base:     hundred,
			discount: Discount{Type: DiscountPercentage, Value: 10},
			want:     Quote{BillableDays: 6, Subtotal: FromUnits(600), Total: FromUnits(600)},
		},
		{
			name:     "percentage at threshold",
			days:     7,
			base:     hundred,
			discount: Discount{Type: DiscountPercentage, Value: 10},
			want:     Quote{BillableDays: 7, Subtotal: FromUnits(700), Discount: FromUnits(70), Total: FromUnits(630)},
		},
		{
			name:     "fixed is not scaled by days",
			days:     10,
			base:     hundred,
			discount: Discount{Type: DiscountFixed, Value: 150},
			want:     Quote{BillableDays: 10, Subtotal: FromUnits(1000), Discount: FromUnits(150), Total: FromUnits(850)},
		},
		{
			name:     "fixed larger than subtotal clamps to zero",
			days:     7,
			base:     FromUnits(10),
			discount: Discount{Type: DiscountFixed, Value: 500},
			want:     Quote{BillableDays: 7, Subtotal: FromUnits(70), Discount: FromUnits(500), Total: 0},
		},
		{
			name: "no discount type",
			days: 9,
			base: hundred,
			want: Quote{BillableDays: 9, Subtotal: FromUnits(900), Total: FromUnits(900)},
		},
		{
			name:     "fractional percent rounds to kopecks",
			days:     7,
			base:     FromFloat(19.99),
			discount: Discount{Type: DiscountPercentage, Value: 12.5},
			want:     Quote{BillableDays: 7, Subtotal: Money(13993), Discount: Money(1749), Total: Money(12244)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Price(tt.days, tt.base, tt.discount))
		})
	}
}

func TestEngine_CustomThreshold(t *testing.T) {
	engine := NewEngine(3)
	q := engine.Price(3, FromUnits(100), Discount{Type: DiscountPercentage, Value: 50})
	assert.Equal(t, FromUnits(150), q.Total)
}

func TestParseDiscountType(t *testing.T) {
	for in, want := range map[string]DiscountType{
		"percentage": DiscountPercentage,
		" Fixed ":    DiscountFixed,
		"":           DiscountNone,
	} {
		got, err := ParseDiscountType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDiscountType("bogo")
	assert.Error(t, err)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "100.00", FromUnits(100).String())
	assert.Equal(t, "19.99", FromFloat(19.99).String())
	assert.Equal(t, "-0.05", Money(-5).String())
	assert.InDelta(t, 19.99, FromFloat(19.99).Float(), 0.0001)
}
