package dateutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange_RoundTrip(t *testing.T) {
	inputs := []string{
		"01.06.2025 - 05.06.2025",
		"31.12.2024 - 02.01.2025",
		"07.06.2025 - 07.06.2025",
		"28.02.2024 - 01.03.2024",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			r, err := ParseRange(s)
			require.NoError(t, err)
			assert.Equal(t, s, r.String())
		})
	}
}

func TestParseRange_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"01.06.2025",
		"05.06.2025 - 01.06.2025",
		"01.06.2025 - 32.06.2025",
		"2025-06-01 - 2025-06-05",
		"garbage - 05.06.2025",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			_, err := ParseRange(s)
			assert.True(t, errors.Is(err, ErrParse), "got %v", err)
		})
	}
}

func TestParseRange_TolerantSpacing(t *testing.T) {
	r, err := ParseRange("01.06.2025-05.06.2025")
	require.NoError(t, err)
	assert.Equal(t, "01.06.2025 - 05.06.2025", r.String())
}

func TestRange_Queries(t *testing.T) {
	r := NewRange(New(2025, time.June, 5), New(2025, time.June, 1))

	assert.Equal(t, New(2025, time.June, 1), r.Start)
	assert.Equal(t, 5, r.Days())
	assert.True(t, r.Contains(New(2025, time.June, 1)))
	assert.True(t, r.Contains(New(2025, time.June, 5)))
	assert.False(t, r.Contains(New(2025, time.June, 6)))

	assert.True(t, r.Overlaps(NewRange(New(2025, time.June, 5), New(2025, time.June, 9))))
	assert.False(t, r.Overlaps(NewRange(New(2025, time.June, 6), New(2025, time.June, 9))))

	var visited []Date
	r.Each(func(d Date) bool {
		visited = append(visited, d)
		return len(visited) < 3
	})
	assert.Len(t, visited, 3)
}
