// Command covid builds a per-region time series from the public daily
// report files and renders a comparison chart of daily confirmed cases,
// aligned on each region's 100th case. By default it writes an SVG and
// exits; with -serve it serves the chart over HTTP instead.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/enzet/COVID-19/chart"
	"github.com/enzet/COVID-19/config"
	"github.com/enzet/COVID-19/series"
	"github.com/enzet/COVID-19/sources"
)

func main() {
	var (
		flagConfig = flag.String("config", "", "read settings from this YAML `file`")
		flagServe  = flag.Bool("serve", false, "serve the chart over HTTP instead of writing a file")
	)
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("config: failed to load:%s", err)
	}

	// Positional arguments keep the historical invocation working:
	// covid [region [input-dir]].
	if args := flag.Args(); len(args) > 0 {
		cfg.Region = args[0]
		if len(args) > 1 {
			cfg.InputDir = args[1]
		}
	}

	if *flagServe {
		serve(cfg)
		return
	}

	dataset, err := buildDataset(cfg)
	if err != nil {
		log.Fatalf("data: failed to load dataset:%s", err)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		log.Fatalf("chart: failed to create output file:%s", err)
	}
	defer f.Close()

	if err := chart.Render(f, dataset, renderOptions(cfg)); err != nil {
		log.Fatalf("chart: failed to render:%s", err)
	}
	log.Printf("chart: wrote %s regions:%d", cfg.Output, dataset.Len())
}

// buildDataset ingests the full input batch and applies the seed
// backfill, returning a dataset ready for querying. The dataset is
// rebuilt from scratch on every call - there is no incremental state.
func buildDataset(cfg *config.Config) (*series.Dataset, error) {
	start := time.Now().UTC()
	defer func() {
		log.Printf("data: loaded dataset in %s", time.Now().UTC().Sub(start))
	}()

	rows, _, err := sources.LoadDir(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	dataset := series.NewDataset(cfg.Aliases)
	if err := dataset.Ingest(rows); err != nil {
		return nil, err
	}
	if err := dataset.ApplySeedBackfill(); err != nil {
		return nil, err
	}
	return dataset, nil
}

// renderOptions maps the configuration onto chart presentation options.
func renderOptions(cfg *config.Config) chart.Options {
	return chart.Options{
		Focus:           cfg.Region,
		Window:          cfg.Window,
		BackgroundBelow: cfg.BackgroundBelow,
		LogScale:        cfg.LogScale,
	}
}
