package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestContains(t *testing.T) {
	outer := New(day(1), day(10))

	tests := []struct {
		name     string
		inner    Interval
		expected bool
	}{
		{"fully inside", New(day(2), day(5)), true},
		{"equal", New(day(1), day(10)), true},
		{"touches left edge only", New(day(1), day(2)), true},
		{"spills past the right edge", New(day(9), day(11)), false},
		{"disjoint", New(day(11), day(12)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Contains(outer, tt.inner))
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := New(day(1), day(5))

	tests := []struct {
		name     string
		b        Interval
		expected bool
	}{
		{"overlapping", New(day(3), day(7)), true},
		{"adjacent, not overlapping", New(day(5), day(7)), false},
		{"contained", New(day(2), day(3)), true},
		{"disjoint", New(day(6), day(7)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(a, tt.b))
			assert.Equal(t, tt.expected, Overlaps(tt.b, a))
		})
	}
}

func TestUmbrella(t *testing.T) {
	got := Umbrella([]Interval{
		New(day(3), day(5)),
		New(day(1), day(2)),
		New(day(8), day(9)),
	})
	assert.True(t, got.Start.Equal(day(1)))
	assert.True(t, got.End.Equal(day(9)))
}

func TestUmbrellaPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { Umbrella(nil) })
}

func TestNewPanicsOnBackwardsInterval(t *testing.T) {
	assert.Panics(t, func() { New(day(5), day(1)) })
}

func TestSubtractSkips(t *testing.T) {
	total := New(day(1), day(10))

	tests := []struct {
		name     string
		skips    []Interval
		expected []Interval
	}{
		{
			name:     "no skips",
			skips:    nil,
			expected: []Interval{total},
		},
		{
			name:     "skip in the middle splits into two",
			skips:    []Interval{New(day(4), day(6))},
			expected: []Interval{New(day(1), day(4)), New(day(6), day(10))},
		},
		{
			name:     "skip trims the left edge",
			skips:    []Interval{New(day(1), day(3))},
			expected: []Interval{New(day(3), day(10))},
		},
		{
			name:     "skip trims the right edge",
			skips:    []Interval{New(day(8), day(10))},
			expected: []Interval{New(day(1), day(8))},
		},
		{
			name:     "skip covers everything",
			skips:    []Interval{New(day(1), day(10))},
			expected: nil,
		},
		{
			name: "two disjoint skips",
			skips: []Interval{
				New(day(2), day(3)),
				New(day(7), day(8)),
			},
			expected: []Interval{
				New(day(1), day(2)),
				New(day(3), day(7)),
				New(day(8), day(10)),
			},
		},
		{
			name:     "skip outside the total range is ignored",
			skips:    []Interval{New(day(20), day(21))},
			expected: []Interval{total},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtractSkips(total, tt.skips)
			require.Equal(t, len(tt.expected), len(got))
			for i := range tt.expected {
				assert.True(t, tt.expected[i].Start.Equal(got[i].Start), "start %d", i)
				assert.True(t, tt.expected[i].End.Equal(got[i].End), "end %d", i)
			}
		})
	}
}

func TestSortByStartThenEnd(t *testing.T) {
	is := []Interval{
		New(day(5), day(6)),
		New(day(1), day(3)),
		New(day(1), day(2)),
	}
	SortByStartThenEnd(is)

	assert.True(t, is[0].Start.Equal(day(1)))
	assert.True(t, is[0].End.Equal(day(2)))
	assert.True(t, is[1].Start.Equal(day(1)))
	assert.True(t, is[1].End.Equal(day(3)))
	assert.True(t, is[2].Start.Equal(day(5)))
}
