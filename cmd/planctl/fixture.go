package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/segmentdb/compactionplanner/pkg/compaction"
	"github.com/segmentdb/compactionplanner/pkg/granularity"
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/planner"
	"github.com/segmentdb/compactionplanner/pkg/segment"
	"github.com/segmentdb/compactionplanner/pkg/timeline"
)

// fixtureFile is the top-level shape of a planctl JSON fixture: one
// entry per datasource, each carrying its segments, compaction config,
// and operator skip intervals.
type fixtureFile struct {
	Datasources map[string]fixtureDatasource `json:"datasources"`
}

type fixtureDatasource struct {
	Segments      []fixtureSegment    `json:"segments"`
	Config        fixtureConfig       `json:"config"`
	SkipIntervals []fixtureInterval   `json:"skipIntervals"`
}

type fixtureInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (fi fixtureInterval) toInterval() interval.Interval {
	return interval.New(fi.Start, fi.End)
}

type fixtureSegment struct {
	// ID is optional; a fixture author omits it for a synthetic segment
	// and planctl assigns a fresh one, the same way a real ingestion
	// pipeline mints a block ID at write time.
	ID                  string                    `json:"id"`
	Interval            fixtureInterval           `json:"interval"`
	Version             string                    `json:"version"`
	Partition           int                       `json:"partition"`
	NumPartitions       int                       `json:"numPartitions"`
	SizeBytes           int64                     `json:"sizeBytes"`
	LastCompactionState *fixtureCompactionState   `json:"lastCompactionState"`
}

type fixtureCompactionState struct {
	PartitionsSpec  segment.RawDoc `json:"partitionsSpec"`
	IndexSpec       segment.RawDoc `json:"indexSpec"`
	GranularitySpec segment.RawDoc `json:"granularitySpec"`
	DimensionsSpec  segment.RawDoc `json:"dimensionsSpec"`
	TransformSpec   segment.RawDoc `json:"transformSpec"`
	MetricsSpec     segment.RawDoc `json:"metricsSpec"`
}

type fixtureConfig struct {
	InputSegmentSizeBytes int64                  `json:"inputSegmentSizeBytes"`
	SkipOffsetFromLatest  string                 `json:"skipOffsetFromLatest"`
	SegmentGranularity    string                 `json:"segmentGranularity"`
	QueryGranularity      *string                `json:"queryGranularity"`
	Rollup                *bool                  `json:"rollup"`
	DimensionsSpec        []string               `json:"dimensionsSpec"`
	TransformFilter       segment.RawDoc         `json:"transformFilter"`
	MetricsSpec           []segment.MetricSpec   `json:"metricsSpec"`
	IndexSpec             *segment.IndexSpecState `json:"indexSpec"`
	MaxRowsPerSegment     int64                  `json:"maxRowsPerSegment"`
	MaxTotalRows          *int64                 `json:"maxTotalRows"`
}

// namedGranularities maps a fixture's segmentGranularity string onto the
// concrete implementation, covering every preset pkg/granularity ships.
var namedGranularities = map[string]granularity.Granularity{
	"SECOND":   granularity.Second,
	"MINUTE":   granularity.Minute,
	"HOUR":     granularity.Hour,
	"SIX_HOUR": granularity.SixHour,
	"DAY":      granularity.Day,
	"WEEK":     granularity.Week,
	"MONTH":    granularity.Month(time.UTC),
	"QUARTER":  granularity.Quarter(time.UTC),
	"YEAR":     granularity.Year(time.UTC),
}

// loadFixture reads and converts a fixture file into planner.Input per
// datasource, ready to hand to planner.New.
func loadFixture(path string) (map[string]planner.Input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var f fixtureFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	inputs := make(map[string]planner.Input, len(f.Datasources))
	for ds, fd := range f.Datasources {
		segments := make([]segment.Segment, 0, len(fd.Segments))
		for _, fs := range fd.Segments {
			id := uuid.New()
			if fs.ID != "" {
				parsed, err := uuid.Parse(fs.ID)
				if err != nil {
					return nil, fmt.Errorf("datasource %s: segment id %q: %w", ds, fs.ID, err)
				}
				id = parsed
			}

			s := segment.Segment{
				UUID:       id,
				Datasource: ds,
				Interval:   fs.Interval.toInterval(),
				Version:    fs.Version,
				Shard:      segment.ShardSpec{Partition: fs.Partition, NumPartitions: fs.NumPartitions},
				SizeBytes:  fs.SizeBytes,
			}
			if fs.LastCompactionState != nil {
				s.LastCompactionState = &segment.LastCompactionState{
					PartitionsSpec:  fs.LastCompactionState.PartitionsSpec,
					IndexSpec:       fs.LastCompactionState.IndexSpec,
					GranularitySpec: fs.LastCompactionState.GranularitySpec,
					DimensionsSpec:  fs.LastCompactionState.DimensionsSpec,
					TransformSpec:   fs.LastCompactionState.TransformSpec,
					MetricsSpec:     fs.LastCompactionState.MetricsSpec,
				}
			}
			segments = append(segments, s)
		}

		cfg, err := fd.Config.toCompactionConfig(ds)
		if err != nil {
			return nil, err
		}

		skips := make([]interval.Interval, 0, len(fd.SkipIntervals))
		for _, si := range fd.SkipIntervals {
			skips = append(skips, si.toInterval())
		}

		inputs[ds] = planner.Input{
			Timeline:      timeline.New(segments),
			Config:        cfg,
			SkipIntervals: skips,
		}
	}

	return inputs, nil
}

func (fc fixtureConfig) toCompactionConfig(ds string) (*compaction.Config, error) {
	cfg := &compaction.Config{
		InputSegmentSizeBytes: fc.InputSegmentSizeBytes,
		DimensionsSpec:        fc.DimensionsSpec,
		TransformFilter:       fc.TransformFilter,
		MetricsSpec:           fc.MetricsSpec,
		IndexSpec:             fc.IndexSpec,
		MaxRowsPerSegment:     fc.MaxRowsPerSegment,
		MaxTotalRows:          fc.MaxTotalRows,
	}

	if fc.SkipOffsetFromLatest != "" {
		d, err := time.ParseDuration(fc.SkipOffsetFromLatest)
		if err != nil {
			return nil, fmt.Errorf("datasource %s: invalid skipOffsetFromLatest: %w", ds, err)
		}
		cfg.SkipOffsetFromLatest = d
	}

	if fc.SegmentGranularity != "" || fc.QueryGranularity != nil || fc.Rollup != nil {
		gs := &compaction.GranularitySpec{
			QueryGranularity: fc.QueryGranularity,
			Rollup:           fc.Rollup,
		}
		if fc.SegmentGranularity != "" {
			g, ok := namedGranularities[fc.SegmentGranularity]
			if !ok {
				return nil, fmt.Errorf("datasource %s: unknown segmentGranularity %q", ds, fc.SegmentGranularity)
			}
			gs.SegmentGranularity = g
			gs.SegmentGranularityName = fc.SegmentGranularity
		}
		cfg.GranularitySpec = gs
	}

	return cfg, nil
}
