package granularity

import (
	"time"

	"github.com/segmentdb/compactionplanner/pkg/interval"
)

// Duration is a fixed-width granularity (seconds through weeks).
// time.Time.Truncate aligns relative to the absolute zero time (midnight
// UTC, Monday January 1 of year 1), so for widths up to a day the buckets
// line up with the Unix epoch; WEEK buckets start on Mondays rather than
// on the epoch's Thursday.
type Duration struct {
	Period time.Duration
	Name   string
}

var (
	Second = Duration{Period: time.Second, Name: "SECOND"}
	Minute = Duration{Period: time.Minute, Name: "MINUTE"}
	Hour   = Duration{Period: time.Hour, Name: "HOUR"}
	SixHour = Duration{Period: 6 * time.Hour, Name: "SIX_HOUR"}
	Day    = Duration{Period: 24 * time.Hour, Name: "DAY"}
	Week   = Duration{Period: 7 * 24 * time.Hour, Name: "WEEK"}
)

func (d Duration) String() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Period.String()
}

func (d Duration) BucketStart(t time.Time) time.Time {
	return t.Truncate(d.Period).In(t.Location())
}

func (d Duration) Iterable(i interval.Interval) []interval.Interval {
	var out []interval.Interval
	start := d.BucketStart(i.Start)
	for start.Before(i.End) {
		end := start.Add(d.Period)
		out = append(out, interval.Interval{Start: start, End: end})
		start = end
	}
	return out
}

func (d Duration) IsAligned(i interval.Interval) bool {
	if !i.Start.Equal(d.BucketStart(i.Start)) {
		return false
	}
	return i.End.Equal(i.Start.Add(d.Period))
}
