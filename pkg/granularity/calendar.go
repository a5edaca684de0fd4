package granularity

import (
	"time"

	"github.com/segmentdb/compactionplanner/pkg/interval"
)

// CalendarUnit is a variable-width bucket unit: calendar months and years
// don't have a fixed duration, so they can't be expressed as a Duration.
type CalendarUnit int

const (
	UnitMonth CalendarUnit = iota
	UnitQuarter
	UnitYear
)

// Calendar is a granularity bucketed on calendar boundaries in a fixed
// location (UTC by convention, but any *time.Location the caller supplies
// is honored).
type Calendar struct {
	Unit CalendarUnit
	Loc  *time.Location
}

func Month(loc *time.Location) Calendar  { return Calendar{Unit: UnitMonth, Loc: loc} }
func Quarter(loc *time.Location) Calendar { return Calendar{Unit: UnitQuarter, Loc: loc} }
func Year(loc *time.Location) Calendar   { return Calendar{Unit: UnitYear, Loc: loc} }

func (c Calendar) String() string {
	switch c.Unit {
	case UnitMonth:
		return "MONTH"
	case UnitQuarter:
		return "QUARTER"
	case UnitYear:
		return "YEAR"
	default:
		return "CALENDAR"
	}
}

func (c Calendar) loc() *time.Location {
	if c.Loc != nil {
		return c.Loc
	}
	return time.UTC
}

func (c Calendar) BucketStart(t time.Time) time.Time {
	t = t.In(c.loc())
	switch c.Unit {
	case UnitMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.loc())
	case UnitQuarter:
		q := ((int(t.Month()) - 1) / 3) * 3
		return time.Date(t.Year(), time.Month(q+1), 1, 0, 0, 0, 0, c.loc())
	case UnitYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, c.loc())
	default:
		return t
	}
}

// next returns the start of the bucket immediately following the one
// starting at s.
func (c Calendar) next(s time.Time) time.Time {
	switch c.Unit {
	case UnitMonth:
		return s.AddDate(0, 1, 0)
	case UnitQuarter:
		return s.AddDate(0, 3, 0)
	case UnitYear:
		return s.AddDate(1, 0, 0)
	default:
		return s
	}
}

func (c Calendar) Iterable(i interval.Interval) []interval.Interval {
	var out []interval.Interval
	start := c.BucketStart(i.Start)
	for start.Before(i.End) {
		end := c.next(start)
		out = append(out, interval.Interval{Start: start, End: end})
		start = end
	}
	return out
}

func (c Calendar) IsAligned(i interval.Interval) bool {
	start := c.BucketStart(i.Start)
	if !i.Start.Equal(start) {
		return false
	}
	return i.End.Equal(c.next(start))
}
