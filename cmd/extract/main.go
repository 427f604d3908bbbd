// Command extract computes feature vectors for a file of labelled trips and
// writes them as CSV, one row per trip.
//
//	extract -in synthetic_trips.json -out features.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jengzang/triprisk-backend-go/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		logging.Fatal().Err(err).Msg("Extraction failed")
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	in := fs.String("in", "synthetic_trips.json", "input trips JSON file")
	out := fs.String("out", "features.csv", "output CSV file")
	workers := fs.Int("workers", 0, "parallel workers (0 = all CPUs)")
	verbose := fs.Bool("v", false, "log progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := "warn"
	if *verbose {
		level = "info"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})

	trips, labels, err := loadTrips(*in)
	if err != nil {
		return err
	}

	rows, err := extract(ctx, trips, *workers)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	if err := writeCSV(f, rows, labels); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", *out, err)
	}

	fmt.Fprintf(stdout, "Extracted %d trips → %s\n", len(rows), *out)
	return nil
}
