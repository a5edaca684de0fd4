// Package segment defines the immutable data model the planner operates
// over: segments, their shard specs, and the opaque compaction-state
// documents attached to already-compacted segments.
package segment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/segmentdb/compactionplanner/pkg/interval"
)

// ShardSpec locates a segment within its version's time-chunk: Partition
// of NumPartitions, 0 <= Partition < NumPartitions.
type ShardSpec struct {
	Partition     int
	NumPartitions int
}

// Segment is an immutable data file covering a half-open time interval
// within a datasource at a given version.
type Segment struct {
	// UUID is the storage layer's opaque handle for this data file, the
	// same role uuid.UUID plays for BlockID in a block store. The
	// planner never parses or derives anything from it; it only ever
	// consults Interval/Version/Shard.
	UUID uuid.UUID

	Datasource string
	Interval   interval.Interval
	Version    string
	Shard      ShardSpec
	SizeBytes  int64

	// LastCompactionState is nil when the segment has never been
	// compacted.
	LastCompactionState *LastCompactionState
}

// ID is the composite identity of a segment: two segments with the same
// (datasource, interval, version, partition) are identical. Used in log
// lines and error messages, never for equality of Go values directly
// (compare fields instead).
func (s Segment) ID() string {
	return fmt.Sprintf("%s_%s_%s_%d", s.Datasource, s.Interval, s.Version, s.Shard.Partition)
}

// TotalSize sums SizeBytes across segments.
func TotalSize(segments []Segment) int64 {
	var total int64
	for _, s := range segments {
		total += s.SizeBytes
	}
	return total
}

// Umbrella returns the smallest interval containing every segment's
// interval. Panics on an empty slice, same as interval.Umbrella.
func Umbrella(segments []Segment) interval.Interval {
	is := make([]interval.Interval, len(segments))
	for i, s := range segments {
		is[i] = s.Interval
	}
	return interval.Umbrella(is)
}
