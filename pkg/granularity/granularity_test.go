package granularity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentdb/compactionplanner/pkg/interval"
)

func TestDurationBucketStart(t *testing.T) {
	got := Day.BucketStart(time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), got)
}

func TestDurationIterable(t *testing.T) {
	i := interval.New(
		time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 6, 0, 0, 0, time.UTC),
	)
	buckets := Day.Iterable(i)
	require.Len(t, buckets, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), buckets[1].Start)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), buckets[2].Start)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), buckets[2].End)
}

func TestDurationIsAligned(t *testing.T) {
	aligned := interval.New(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	)
	assert.True(t, Day.IsAligned(aligned))

	unaligned := interval.New(
		time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	)
	assert.False(t, Day.IsAligned(unaligned))
}

func TestCalendarMonthBucketStart(t *testing.T) {
	m := Month(time.UTC)
	got := m.BucketStart(time.Date(2024, 2, 17, 3, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestCalendarMonthIterableWeekCrossingMonthBoundary(t *testing.T) {
	m := Month(time.UTC)

	// a week spanning the January/February boundary
	i := interval.New(
		time.Date(2020, 1, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC),
	)
	buckets := m.Iterable(i)
	require.Len(t, buckets, 2)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), buckets[1].Start)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), buckets[1].End)
}

func TestCalendarMonthIsAligned(t *testing.T) {
	m := Month(time.UTC)
	assert.True(t, m.IsAligned(interval.New(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	)))
	assert.False(t, m.IsAligned(interval.New(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	)))
}

func TestCalendarYearNext(t *testing.T) {
	y := Year(time.UTC)
	buckets := y.Iterable(interval.New(
		time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	))
	require.Len(t, buckets, 3)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), buckets[1].Start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), buckets[2].Start)
}
