package dateutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "regular date", input: "05.06.2025", want: Date{2025, time.June, 5}},
		{name: "surrounding spaces", input: "  31.12.2024 ", want: Date{2024, time.December, 31}},
		{name: "leap day", input: "29.02.2024", want: Date{2024, time.February, 29}},
		{name: "not a leap year", input: "29.02.2025", wantErr: true},
		{name: "single digit day", input: "5.06.2025", wantErr: true},
		{name: "iso format", input: "2025-06-05", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := New(2025, time.February, 27)

	assert.Equal(t, New(2025, time.March, 1), d.AddDays(2))
	assert.Equal(t, New(2025, time.February, 20), d.AddDays(-7))
	assert.Equal(t, 2, d.DaysUntil(New(2025, time.March, 1)))
	assert.Equal(t, -27, d.DaysUntil(New(2025, time.January, 31)))
	assert.Equal(t, New(2025, time.March, 31), New(2025, time.March, 30).AddDays(1))
}

func TestDate_Compare(t *testing.T) {
	a := New(2025, time.June, 10)
	b := New(2025, time.June, 11)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(New(2025, time.June, 10)))
	assert.True(t, New(2024, time.December, 31).Before(New(2025, time.January, 1)))
	assert.Equal(t, a, MinDate(b, a))
	assert.Equal(t, b, MaxDate(b, a))
}

func TestToday_IgnoresTimeOfDay(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	late := time.Date(2025, time.May, 1, 22, 30, 0, 0, time.UTC) // 01:30 on 2 May in MSK

	assert.Equal(t, New(2025, time.May, 2), Today(late, msk))
	assert.Equal(t, New(2025, time.May, 1), Today(late, time.UTC))
}

func TestDate_Weekdays(t *testing.T) {
	assert.True(t, New(2025, time.June, 7).IsSaturday())
	assert.True(t, New(2025, time.June, 6).IsFriday())
	assert.False(t, New(2025, time.June, 8).IsSaturday())
}

func TestDate_Formats(t *testing.T) {
	d := New(2025, time.June, 5)
	assert.Equal(t, "05.06.2025", d.String())
	assert.Equal(t, "2025-06-05", d.ISO())

	iso, err := ParseISO("2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, d, iso)
}
