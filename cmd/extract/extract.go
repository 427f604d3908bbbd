package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/jengzang/triprisk-backend-go/internal/analysis"
	"github.com/jengzang/triprisk-backend-go/internal/logging"
	"github.com/jengzang/triprisk-backend-go/internal/models"
)

type labelledTrip struct {
	Points []models.PointRequest `json:"points"`
	Label  int                   `json:"label"`
}

// loadTrips reads a JSON array of {points, label}. A missing label is 0.
func loadTrips(path string) ([]models.Trip, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw []labelledTrip
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	trips := make([]models.Trip, len(raw))
	labels := make([]int, len(raw))
	for i, r := range raw {
		trip, err := models.ParseTrip(models.TripRequest{Points: r.Points})
		if err != nil {
			return nil, nil, fmt.Errorf("trip %d: %w", i, err)
		}
		trips[i] = trip
		labels[i] = r.Label
	}
	return trips, labels, nil
}

func extract(ctx context.Context, trips []models.Trip, workers int) ([]models.FeatureVector, error) {
	engine := analysis.NewEngine(analysis.DefaultConfig())

	results, err := analysis.AnalyzeBatch(ctx, engine, trips, analysis.BatchOptions{
		Workers: workers,
		OnProgress: func(p analysis.Progress) {
			if p.Processed%1000 == 0 || p.Processed == p.Total {
				logging.Info().Int("processed", p.Processed).Int("total", p.Total).Msg("Extracting")
			}
		},
	})
	if err != nil {
		return nil, err
	}

	rows := make([]models.FeatureVector, len(results))
	for i, r := range results {
		rows[i] = r.Features
	}
	return rows, nil
}

// writeCSV writes a header of the feature names plus label, then one row per trip
func writeCSV(w io.Writer, rows []models.FeatureVector, labels []int) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, models.FeatureNames...), "label")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for i, fv := range rows {
		for j, v := range fv.Values() {
			record[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		record[len(record)-1] = strconv.Itoa(labels[i])
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
