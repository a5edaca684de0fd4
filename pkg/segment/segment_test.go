package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmentdb/compactionplanner/pkg/interval"
)

func mkSegment(ds string, startDay, endDay int, size int64) Segment {
	return Segment{
		Datasource: ds,
		Interval: interval.New(
			time.Date(2024, 1, startDay, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, endDay, 0, 0, 0, 0, time.UTC),
		),
		Version:   "v1",
		Shard:     ShardSpec{Partition: 0, NumPartitions: 1},
		SizeBytes: size,
	}
}

func TestTotalSize(t *testing.T) {
	segs := []Segment{mkSegment("ds", 1, 2, 100), mkSegment("ds", 2, 3, 250)}
	assert.Equal(t, int64(350), TotalSize(segs))
}

func TestUmbrella(t *testing.T) {
	segs := []Segment{mkSegment("ds", 3, 4, 1), mkSegment("ds", 1, 2, 1)}
	u := Umbrella(segs)
	assert.True(t, u.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, u.End.Equal(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
}

func TestMapstructureDecoderDecodesGranularitySpec(t *testing.T) {
	d := NewMapstructureDecoder()

	raw := RawDoc{
		"segmentGranularity": "DAY",
		"queryGranularity":   "HOUR",
		"rollup":             true,
	}

	var out GranularitySpecState
	require.NoError(t, d.Decode(raw, &out))
	assert.Equal(t, "DAY", out.SegmentGranularity)
	assert.Equal(t, "HOUR", out.QueryGranularity)
	require.NotNil(t, out.Rollup)
	assert.True(t, *out.Rollup)
}

func TestMapstructureDecoderNilRawIsNoop(t *testing.T) {
	d := NewMapstructureDecoder()
	var out GranularitySpecState
	require.NoError(t, d.Decode(nil, &out))
	assert.Equal(t, GranularitySpecState{}, out)
}

func TestMapstructureDecoderOrderedMetrics(t *testing.T) {
	d := NewMapstructureDecoder()
	raw := RawDoc{
		"metrics": []interface{}{
			map[string]interface{}{"name": "count", "type": "count"},
			map[string]interface{}{"name": "sum_bytes", "type": "longSum", "fieldName": "bytes"},
		},
	}

	var out MetricsSpecState
	require.NoError(t, d.Decode(raw, &out))
	require.Len(t, out.Metrics, 2)
	assert.Equal(t, "count", out.Metrics[0].Name)
	assert.Equal(t, "sum_bytes", out.Metrics[1].Name)
	assert.Equal(t, "bytes", out.Metrics[1].FieldName)
}
