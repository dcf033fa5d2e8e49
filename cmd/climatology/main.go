package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/source"
	"github.com/lmittmann/tint"
)

// Writes the monthly climatology of every scenario, the table behind the
// climate lab charts.
func main() {
	in := flag.String("in", "data/data.js", "raw climatology, json or the SOCAL_DATA script")
	out := flag.String("out", "data/climate_lab_transformed.json", "output file")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339,
	}))

	input, err := source.NewLoader(logger, *in, "").Load()
	if err != nil {
		panic(err)
	}

	clim := climate.AggregateAll(input.Historical, input.Future)
	data, err := json.MarshalIndent(clim, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		panic(err)
	}
	logger.Info("climatology written", slog.String("path", *out))
}
