package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/go-kit/log"

	"github.com/segmentdb/compactionplanner/pkg/planner"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// run drives the planner to exhaustion against the fixture at path and
// prints the batches it yields plus final statistics. When datasource is
// non-empty, batches for other datasources are still consumed (so
// statistics stay globally accurate) but only the requested one is
// printed.
func run(path, onlyDatasource string) error {
	inputs, err := loadFixture(path)
	if err != nil {
		return err
	}

	logger := log.NewLogfmtLogger(os.Stderr)

	p, err := planner.New(logger, nil, inputs)
	if err != nil {
		return fmt.Errorf("constructing planner: %w", err)
	}
	defer p.Close()

	var batchRows [][]string
	for p.HasNext() {
		batch, err := p.Next()
		if err != nil {
			return fmt.Errorf("iterating: %w", err)
		}
		if onlyDatasource != "" && batch[0].Datasource != onlyDatasource {
			continue
		}
		batchRows = append(batchRows, batchRow(batch))
	}
	if err := p.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: iteration halted early for one or more datasources: %v\n", err)
	}

	fmt.Println("Batches planned for compaction:")
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"datasource", "interval", "segments", "size"})
	w.AppendBulk(batchRows)
	w.Render()

	fmt.Println()
	printStatistics(inputs, p)

	return nil
}

func batchRow(batch []segment.Segment) []string {
	s := segment.Umbrella(batch)
	return []string{
		batch[0].Datasource,
		s.String(),
		fmt.Sprint(len(batch)),
		humanize.Bytes(uint64(segment.TotalSize(batch))),
	}
}

func printStatistics(inputs map[string]planner.Input, p *planner.Planner) {
	datasources := make([]string, 0, len(inputs))
	for ds := range inputs {
		datasources = append(datasources, ds)
	}
	sort.Strings(datasources)

	fmt.Println("Per-datasource statistics:")
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"datasource", "compacted segments", "compacted size", "skipped segments", "skipped size"})

	for _, ds := range datasources {
		compacted := p.CompactedStatistics(ds)
		skipped := p.SkippedStatistics(ds)
		w.Append([]string{
			ds,
			fmt.Sprint(compacted.SegmentCount),
			humanize.Bytes(uint64(compacted.Bytes)),
			fmt.Sprint(skipped.SegmentCount),
			humanize.Bytes(uint64(skipped.Bytes)),
		})
	}
	w.Render()
}
