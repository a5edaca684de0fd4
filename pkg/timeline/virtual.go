package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/segmentdb/compactionplanner/pkg/granularity"
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// BuildVirtual builds the shadow timeline used to drive iteration when
// the operator has reconfigured the target segment granularity to g.
// Every non-overshadowed, complete segment of original is re-bucketed
// into g's buckets; a segment crossing bucket boundaries appears in
// every bucket it touches. Each bucket gets synthetic partition numbers
// 0..P-1 and a single version string shared across the whole
// construction (now, formatted to nanosecond precision so two
// back-to-back constructions never collide).
//
// The synthetic version must never leak past iteration: callers resolve
// a yielded virtual batch back against original before acting on it (see
// pkg/planner's HolderCursor).
func BuildVirtual(original Timeline, g granularity.Granularity, now time.Time) Timeline {
	nonOvershadowed := original.FindNonOvershadowed(Eternity, true)

	type bucketEntry struct {
		interval interval.Interval
		segments []segment.Segment
	}
	buckets := make(map[chunkKey]*bucketEntry)
	var order []chunkKey

	for _, s := range nonOvershadowed {
		for _, b := range g.Iterable(s.Interval) {
			k := keyOf(b)
			be, ok := buckets[k]
			if !ok {
				be = &bucketEntry{interval: b}
				buckets[k] = be
				order = append(order, k)
			}
			be.segments = append(be.segments, s)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := buckets[order[i]].interval, buckets[order[j]].interval
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.End.Before(b.End)
	})

	version := fmt.Sprintf("__virtual_%d", now.UnixNano())

	var synthetic []segment.Segment
	for _, k := range order {
		be := buckets[k]
		p := len(be.segments)
		for i, s := range be.segments {
			synthetic = append(synthetic, segment.Segment{
				Datasource: s.Datasource,
				Interval:   be.interval,
				Version:    version,
				Shard:      segment.ShardSpec{Partition: i, NumPartitions: p},
				SizeBytes:  s.SizeBytes,
			})
		}
	}

	return New(synthetic)
}
