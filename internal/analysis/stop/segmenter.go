// Package stop detects stops: contiguous runs of consecutive points that each
// lie within a small distance of their predecessor.
package stop

import (
	"time"

	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/spatial"
)

// Default thresholds
const (
	DefaultThresholdMeters = 10.0
	DefaultMinStopSeconds  = 120.0
)

// Options configures the segmenter
type Options struct {
	ThresholdMeters float64 // max displacement between consecutive points to count as not moving
	MinStopSeconds  float64 // min duration for a closed run to count as a stop
}

// DefaultOptions returns the default thresholds (10 m, 120 s)
func DefaultOptions() Options {
	return Options{
		ThresholdMeters: DefaultThresholdMeters,
		MinStopSeconds:  DefaultMinStopSeconds,
	}
}

// State is the segmenter's state between two consecutive points
type State int

const (
	Moving State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "moving"
}

// run is the active stop while Stopped
type run struct {
	start time.Time
	last  time.Time
}

// Summary is the outcome of one segmentation pass
type Summary struct {
	MaxStopDurationSeconds float64
	StopCount              int
}

// Segmenter is a single-use state machine over one trip. Feed points in order
// with Step, then read Summary.
type Segmenter struct {
	opts    Options
	state   State
	current run
	prev    *models.Point
	summary Summary
}

// NewSegmenter creates a segmenter in the Moving state
func NewSegmenter(opts Options) *Segmenter {
	return &Segmenter{opts: opts, state: Moving}
}

// State returns the current state
func (s *Segmenter) State() State {
	return s.state
}

// OpenRun returns the bounds of the active run while Stopped
func (s *Segmenter) OpenRun() (start, last time.Time, ok bool) {
	if s.state != Stopped {
		return time.Time{}, time.Time{}, false
	}
	return s.current.start, s.current.last, true
}

// Step consumes the next point of the trip
func (s *Segmenter) Step(p models.Point) {
	if s.prev == nil {
		s.prev = &p
		return
	}
	prev := *s.prev
	s.prev = &p

	d := spatial.HaversineDistance(prev.Coord(), p.Coord())
	if d <= s.opts.ThresholdMeters {
		s.enterOrStay(prev, p)
		return
	}
	s.leave(prev)
}

// enterOrStay handles a stationary segment prev -> p
func (s *Segmenter) enterOrStay(prev, p models.Point) {
	if s.state == Moving {
		s.state = Stopped
		s.current = run{start: prev.Timestamp}
	}
	s.current.last = p.Timestamp

	// Not guarded against out-of-order timestamps; a negative duration never wins the max
	duration := p.Timestamp.Sub(s.current.start).Seconds()
	if duration > s.summary.MaxStopDurationSeconds {
		s.summary.MaxStopDurationSeconds = duration
	}
}

// leave handles a moving segment starting at prev. A run closes at prev, the
// last stationary point.
func (s *Segmenter) leave(prev models.Point) {
	if s.state == Stopped {
		if prev.Timestamp.Sub(s.current.start).Seconds() >= s.opts.MinStopSeconds {
			s.summary.StopCount++
		}
	}
	s.state = Moving
	s.current = run{}
}

// Summary returns the results so far. A still-open trailing run has already
// contributed to the max duration but is not counted as a stop.
func (s *Segmenter) Summary() Summary {
	return s.summary
}

// Segment runs a full pass over the trip
func Segment(trip models.Trip, opts Options) Summary {
	s := NewSegmenter(opts)
	for _, p := range trip {
		s.Step(p)
	}
	return s.Summary()
}
