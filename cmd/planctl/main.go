// Command planctl is a read-only, offline dry-run driver for
// pkg/planner: it loads a JSON fixture describing one or more
// datasources' timelines, compaction configs, and skip intervals, runs
// the planner to exhaustion, and reports the batches it would emit
// alongside final compacted/skipped statistics.
package main

import (
	"github.com/alecthomas/kong"
)

type globalOptions struct {
	Fixture string `arg:"" help:"path to a planctl JSON fixture file"`
}

var cli struct {
	globalOptions
	Datasource string `help:"restrict the batch listing to a single datasource" optional:""`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("planctl"),
		kong.Description("Dry-run the compaction planner against a JSON fixture."),
	)
	ctx.FatalIfErrorf(run(cli.Fixture, cli.Datasource))
}
