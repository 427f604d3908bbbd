package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/triprisk-backend-go/internal/spatial"
)

// Point represents one timestamped GPS sample of a trip
type Point struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Timestamp time.Time `json:"ts"`
}

// Coord returns the point's position for geometric calculations
func (p Point) Coord() spatial.Point {
	return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
}

// Trip is an ordered sequence of points describing one continuous movement trace.
// Timestamps are expected to be non-decreasing but this is not enforced.
type Trip []Point

// Coords returns the positions of all points in order
func (t Trip) Coords() []spatial.Point {
	coords := make([]spatial.Point, len(t))
	for i, p := range t {
		coords[i] = p.Coord()
	}
	return coords
}

// PointRequest is a point as received over the wire. Coordinates are pointers so
// that a legitimate 0 is distinguishable from a missing field.
type PointRequest struct {
	Lat *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" binding:"required,min=-180,max=180"`
	TS  string   `json:"ts" binding:"required"`
}

// TripRequest is the body of the risk-score and features endpoints
type TripRequest struct {
	Points []PointRequest `json:"points" binding:"required,dive"`
}

// timestampLayouts are tried in order. Layouts without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp parses an RFC3339-like instant, keeping the offset it was given in
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedInput, value)
}

// ParseTrip converts a request into a Trip. It fails on the first point that
// cannot be parsed; coordinate ranges are the binding layer's responsibility.
func ParseTrip(req TripRequest) (Trip, error) {
	trip := make(Trip, 0, len(req.Points))
	for i, p := range req.Points {
		if p.Lat == nil || p.Lon == nil {
			return nil, fmt.Errorf("%w: point %d is missing coordinates", ErrMalformedInput, i)
		}

		ts, err := ParseTimestamp(p.TS)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}

		trip = append(trip, Point{
			Latitude:  *p.Lat,
			Longitude: *p.Lon,
			Timestamp: ts,
		})
	}
	return trip, nil
}
