package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentdb/compactionplanner/pkg/granularity"
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

func TestBuildVirtualRegranulatesWeeklyIntoMonths(t *testing.T) {
	// two weekly segments, the first straddling the Jan/Feb boundary.
	original := New([]segment.Segment{
		{
			Datasource: "ds",
			Interval: interval.New(
				time.Date(2020, 1, 28, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC),
			),
			Version:   "v1",
			Shard:     segment.ShardSpec{Partition: 0, NumPartitions: 1},
			SizeBytes: 10,
		},
		{
			Datasource: "ds",
			Interval: interval.New(
				time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC),
			),
			Version:   "v1",
			Shard:     segment.ShardSpec{Partition: 0, NumPartitions: 1},
			SizeBytes: 20,
		},
	})

	virtual := BuildVirtual(original, granularity.Month(time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	jan := virtual.Lookup(interval.New(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, jan, 1)
	assert.Len(t, jan[0].Chunks, 1)

	feb := virtual.Lookup(interval.New(time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, feb, 1)
	assert.Len(t, feb[0].Chunks, 2) // both weekly segments touch February

	// synthetic version is shared and distinct from the originals.
	assert.Equal(t, jan[0].Version, feb[0].Version)
	assert.NotEqual(t, "v1", jan[0].Version)
}
