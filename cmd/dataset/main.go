package main

import (
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/source"
	"github.com/lmittmann/tint"
)

func main() {
	in := flag.String("in", "data/data.js", "raw climatology, json or the SOCAL_DATA script")
	obs := flag.String("observations", "", "optional real cloud observations")
	out := flag.String("out", "-", "output file, - for stdout")
	seed := flag.Int64("seed", 0, "seed for reproducible synthesis")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339,
	}))

	input, err := source.NewLoader(logger, *in, *obs).Load()
	if err != nil {
		panic(err)
	}

	var seedPtr *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedPtr = seed
		}
	})

	ds := climate.NewBuilder(logger, climate.WithRandomSource(climate.NewRandomSource(seedPtr))).Build(input)

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		panic(err)
	}
}
