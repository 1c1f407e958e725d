package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/qnadesk/gephi-export/internal/app"
	"github.com/qnadesk/gephi-export/internal/gephi"
	"github.com/qnadesk/gephi-export/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgPath string
		dryRun  bool
		replace bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to a YAML config file (optional)")
	flag.BoolVar(&dryRun, "dry-run", false, "pull and restructure but write nothing")
	flag.BoolVar(&replace, "replace", false, "clear the destination tables inside the export transaction before inserting")
	flag.Parse()

	application, err := app.New(cfgPath, gephi.Options{DryRun: dryRun, Replace: replace})
	if err != nil {
		fmt.Printf("init: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx := context.Background()
	if shutdown := observability.InitOTel(ctx, application.Log, observability.OtelConfig{
		ServiceName: "gephi-export",
	}); shutdown != nil {
		defer func() { _ = shutdown(context.Background()) }()
	}

	stats, err := application.Pipeline.Run(ctx)
	if err != nil {
		application.Log.Error("export failed", "run_id", stats.RunID.String(), "error", err)
		return 1
	}

	suffix := ""
	if stats.DryRun {
		suffix = " (dry run, nothing written)"
	}
	fmt.Printf("export complete: run=%s mode=%s rows=%d nodes=%d edges=%d in %s%s\n",
		stats.RunID, stats.Mode, stats.RowsPulled, stats.Nodes, stats.Edges,
		stats.Duration.Round(time.Millisecond), suffix)
	return 0
}
