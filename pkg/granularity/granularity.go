// Package granularity defines aligned time-bucket schemes used to drive
// both the physical and virtual regranulated timelines.
package granularity

import (
	"fmt"
	"time"

	"github.com/segmentdb/compactionplanner/pkg/interval"
)

// Granularity maps the absolute timeline onto a sequence of aligned,
// contiguous buckets.
type Granularity interface {
	// BucketStart aligns t down to the start of the bucket containing it.
	BucketStart(t time.Time) time.Time

	// Iterable enumerates, in increasing order, every aligned bucket that
	// intersects i. A caller-supplied interval spanning several buckets
	// yields one entry per bucket touched.
	Iterable(i interval.Interval) []interval.Interval

	// IsAligned reports whether both endpoints of i are bucket boundaries
	// and are adjacent boundaries of the very same bucket.
	IsAligned(i interval.Interval) bool

	fmt.Stringer
}
