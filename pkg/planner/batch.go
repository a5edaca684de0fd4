// Package planner orchestrates per-datasource holder cursors through a
// single global priority queue to yield compaction batches newest-first,
// the way §4.7 of the planner design describes.
package planner

import (
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// SegmentBatch is an ordered list of segments sharing a datasource, with
// cached totalSize/umbrella/distinct-interval-count. Non-empty batches
// always satisfy totalSize == sum of segment sizes.
type SegmentBatch struct {
	Datasource string
	Segments   []segment.Segment

	totalSize         int64
	umbrella          interval.Interval
	distinctIntervals int
}

// NewSegmentBatch builds a batch from a non-empty segment set sharing ds.
// Per the open question in the design notes, a segment's own stored
// Interval is authoritative for umbrella/containment computations; no
// id-derived interval is ever consulted.
func NewSegmentBatch(ds string, segments []segment.Segment) SegmentBatch {
	b := SegmentBatch{Datasource: ds, Segments: segments}
	if len(segments) == 0 {
		return b
	}

	b.totalSize = segment.TotalSize(segments)
	b.umbrella = segment.Umbrella(segments)

	type key struct{ startNano, endNano int64 }
	seen := make(map[key]struct{}, len(segments))
	for _, s := range segments {
		seen[key{s.Interval.Start.UnixNano(), s.Interval.End.UnixNano()}] = struct{}{}
	}
	b.distinctIntervals = len(seen)

	return b
}

func (b SegmentBatch) TotalSize() int64                      { return b.totalSize }
func (b SegmentBatch) Umbrella() interval.Interval            { return b.umbrella }
func (b SegmentBatch) DistinctIntervalCount() int              { return b.distinctIntervals }
func (b SegmentBatch) Empty() bool                             { return len(b.Segments) == 0 }
