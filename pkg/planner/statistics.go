package planner

import "github.com/segmentdb/compactionplanner/pkg/segment"

// Statistics are per-datasource running counters. The zero value is
// ready to use.
type Statistics struct {
	Bytes         int64
	SegmentCount  int
	IntervalCount int
}

func (s *Statistics) addBatch(b SegmentBatch) {
	s.Bytes += b.TotalSize()
	s.SegmentCount += len(b.Segments)
	s.IntervalCount += b.DistinctIntervalCount()
}

func (s *Statistics) addSegment(seg segment.Segment) {
	s.Bytes += seg.SizeBytes
	s.SegmentCount++
	s.IntervalCount++
}
