package analysis

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/triprisk-backend-go/internal/analysis/features"
	"github.com/jengzang/triprisk-backend-go/internal/analysis/rules"
	"github.com/jengzang/triprisk-backend-go/internal/models"
)

// Analyzer is the interface implemented by trip analyzers
type Analyzer interface {
	// Analyze derives features and alerts for one trip
	Analyze(trip models.Trip) Result
}

// Result is the outcome of analyzing one trip
type Result struct {
	Features models.FeatureVector
	Alerts   []models.Alert
}

// Config holds the thresholds of the feature extractor and the rule engine
type Config struct {
	Features features.Options
	Rules    rules.Config
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		Features: features.DefaultOptions(),
		Rules:    rules.DefaultConfig(),
	}
}

// Engine runs feature extraction and rule evaluation. It keeps no state across
// trips, so a single Engine may serve concurrent callers.
type Engine struct {
	extractor *features.Extractor
	rules     *rules.Engine
}

// NewEngine creates an engine
func NewEngine(config Config) *Engine {
	return &Engine{
		extractor: features.NewExtractor(config.Features),
		rules:     rules.NewEngine(config.Rules),
	}
}

// Analyze derives features and alerts for one trip
func (e *Engine) Analyze(trip models.Trip) Result {
	return Result{
		Features: e.extractor.Extract(trip),
		Alerts:   e.rules.Evaluate(trip),
	}
}

// Progress represents the progress of a batch
type Progress struct {
	Processed int     // Number of trips analyzed
	Total     int     // Total number of trips
	Percent   float64 // Progress percentage (0-100)
}

// BatchOptions configures AnalyzeBatch
type BatchOptions struct {
	// Workers bounds the number of trips analyzed in parallel, default GOMAXPROCS
	Workers int

	// OnProgress, when set, is called after each trip completes. It may be
	// called from multiple goroutines.
	OnProgress func(Progress)
}

// AnalyzeBatch analyzes trips in parallel, one goroutine per trip up to the
// worker limit. Results keep the input order. It stops early when ctx is done.
func AnalyzeBatch(ctx context.Context, a Analyzer, trips []models.Trip, opts BatchOptions) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(trips))
	total := len(trips)
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, trip := range trips {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(trip)

			if opts.OnProgress != nil {
				n := int(processed.Add(1))
				opts.OnProgress(Progress{
					Processed: n,
					Total:     total,
					Percent:   float64(n) / float64(total) * 100.0,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
