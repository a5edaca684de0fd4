package planner

import (
	"time"

	"github.com/segmentdb/compactionplanner/pkg/granularity"
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
	"github.com/segmentdb/compactionplanner/pkg/timeline"
)

// BuildSearchWindow computes the ordered, tightened candidate intervals a
// HolderCursor should be built from: the timeline's full span with the
// skip-latest tail and the operator's skip intervals subtracted, then
// narrowed per-candidate down to the span actually occupied by segments.
//
// skipped accumulates the size of every segment that falls entirely
// inside an effective skip interval.
func BuildSearchWindow(tl timeline.Timeline, skipOffsetFromLatest time.Duration, target granularity.Granularity, skipIntervals []interval.Interval, skipped *Statistics) []interval.Interval {
	first, ok := tl.First()
	if !ok {
		return nil
	}
	last, ok := tl.Last()
	if !ok {
		return nil
	}

	latest := last.Interval.End

	var tail interval.Interval
	if target != nil {
		tail = interval.Interval{Start: target.BucketStart(latest.Add(-skipOffsetFromLatest)), End: latest}
	} else {
		tail = interval.Interval{Start: latest.Add(-skipOffsetFromLatest), End: latest}
	}

	effectiveSkips := mergeSkipsWithTail(tail, skipIntervals)

	totalInterval := interval.Interval{Start: first.Interval.Start, End: latest}
	candidates := interval.SubtractSkips(totalInterval, effectiveSkips)

	accumulateSkippedStatistics(tl, effectiveSkips, skipped)

	var out []interval.Interval
	for _, c := range candidates {
		segs := tl.FindNonOvershadowed(c, true)
		var inside []segment.Segment
		for _, s := range segs {
			if interval.Contains(c, s.Interval) {
				inside = append(inside, s)
			}
		}
		if len(inside) == 0 {
			continue
		}
		out = append(out, segment.Umbrella(inside))
	}

	interval.SortByStartThenEnd(out)
	return out
}

// mergeSkipsWithTail sorts skipIntervals, then merges every one that
// overlaps tail into a single combined tail via umbrella, keeping the
// rest disjoint and untouched.
func mergeSkipsWithTail(tail interval.Interval, skipIntervals []interval.Interval) []interval.Interval {
	sorted := make([]interval.Interval, len(skipIntervals))
	copy(sorted, skipIntervals)
	interval.SortByStartThenEnd(sorted)

	combined := tail
	var disjoint []interval.Interval
	for _, s := range sorted {
		if interval.Overlaps(combined, s) {
			combined = interval.Umbrella([]interval.Interval{combined, s})
		} else {
			disjoint = append(disjoint, s)
		}
	}

	effective := append(disjoint, combined)
	interval.SortByStartThenEnd(effective)
	return effective
}

// accumulateSkippedStatistics sums the size of every segment wholly
// contained in one of the effective skip intervals into skipped.
func accumulateSkippedStatistics(tl timeline.Timeline, effectiveSkips []interval.Interval, skipped *Statistics) {
	if skipped == nil {
		return
	}
	for _, skip := range effectiveSkips {
		for _, s := range tl.FindNonOvershadowed(skip, false) {
			if interval.Contains(skip, s.Interval) {
				skipped.addSegment(s)
			}
		}
	}
}
