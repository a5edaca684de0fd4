package compaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/segmentdb/compactionplanner/pkg/segment"
)

func TestEffectivePartitionsSpecDefaultsToDynamic(t *testing.T) {
	cfg := &Config{MaxRowsPerSegment: 1_000_000}
	got := cfg.EffectivePartitionsSpec()

	assert.Equal(t, "dynamic", got.Type)
	assert.Equal(t, int64(1_000_000), *got.MaxRowsPerSegment)
	assert.Nil(t, got.MaxTotalRows)
}

func TestEffectivePartitionsSpecUsesExplicitOverride(t *testing.T) {
	explicit := segment.PartitionsSpecState{Type: "hashed", NumShards: intPtr(4)}
	cfg := &Config{PartitionsSpec: &explicit}

	got := cfg.EffectivePartitionsSpec()
	assert.Equal(t, "hashed", got.Type)
	assert.Equal(t, 4, *got.NumShards)
}

func TestNormalizePartitionsSpecTreatsNonPositiveMaxTotalRowsAsUnbounded(t *testing.T) {
	zero := int64(0)
	got := normalizePartitionsSpec(segment.PartitionsSpecState{Type: "dynamic", MaxTotalRows: &zero})
	assert.Nil(t, got.MaxTotalRows)
}

func intPtr(i int) *int { return &i }
