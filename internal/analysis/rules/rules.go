// Package rules implements the threshold checks that flag specific risk
// patterns in a trip. Each rule reports at most one alert.
package rules

import (
	"github.com/jengzang/triprisk-backend-go/internal/analysis/stop"
	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/spatial"
)

// Rule is a single independent check over a trip
type Rule interface {
	// Kind returns the kind of alert the rule produces
	Kind() models.AlertKind

	// Check returns an alert, or nil when the trip passes
	Check(trip models.Trip) *models.Alert
}

// GeofenceConfig configures the geofence rule
type GeofenceConfig struct {
	CenterLat    float64 `json:"center_lat"`
	CenterLon    float64 `json:"center_lon"`
	RadiusMeters float64 `json:"radius_m"`
}

// DefaultGeofenceConfig returns a 5 km fence around the Bangalore city center
func DefaultGeofenceConfig() GeofenceConfig {
	return GeofenceConfig{
		CenterLat:    12.9716,
		CenterLon:    77.5946,
		RadiusMeters: 5000,
	}
}

// LongStopConfig configures the long-stop rule
type LongStopConfig struct {
	ThresholdMinutes float64 `json:"threshold_minutes"`
	ProximityMeters  float64 `json:"proximity_m"` // max displacement counted as not moving
}

// DefaultLongStopConfig returns the defaults (30 min, 10 m)
func DefaultLongStopConfig() LongStopConfig {
	return LongStopConfig{
		ThresholdMinutes: 30,
		ProximityMeters:  10,
	}
}

// MissingUpdateConfig configures the missing-update rule
type MissingUpdateConfig struct {
	ThresholdMinutes float64 `json:"threshold_minutes"`
}

// DefaultMissingUpdateConfig returns the default (5 min)
func DefaultMissingUpdateConfig() MissingUpdateConfig {
	return MissingUpdateConfig{ThresholdMinutes: 5}
}

// GeofenceRule flags the first point outside the fence
type GeofenceRule struct {
	config GeofenceConfig
}

// NewGeofenceRule creates a geofence rule
func NewGeofenceRule(config GeofenceConfig) *GeofenceRule {
	return &GeofenceRule{config: config}
}

// Kind returns the alert kind
func (r *GeofenceRule) Kind() models.AlertKind {
	return models.AlertGeofenceBreach
}

// Check scans points in order and stops at the first breach
func (r *GeofenceRule) Check(trip models.Trip) *models.Alert {
	center := spatial.Point{Lat: r.config.CenterLat, Lon: r.config.CenterLon}
	for _, p := range trip {
		d := spatial.HaversineDistance(p.Coord(), center)
		if d > r.config.RadiusMeters {
			alert := models.NewGeofenceBreach(r.config.RadiusMeters, d)
			return &alert
		}
	}
	return nil
}

// LongStopRule flags trips whose longest stop exceeds the threshold
type LongStopRule struct {
	config LongStopConfig
}

// NewLongStopRule creates a long-stop rule
func NewLongStopRule(config LongStopConfig) *LongStopRule {
	return &LongStopRule{config: config}
}

// Kind returns the alert kind
func (r *LongStopRule) Kind() models.AlertKind {
	return models.AlertLongStop
}

// Check runs stop segmentation and compares the longest run in minutes
func (r *LongStopRule) Check(trip models.Trip) *models.Alert {
	summary := stop.Segment(trip, stop.Options{
		ThresholdMeters: r.config.ProximityMeters,
		MinStopSeconds:  stop.DefaultMinStopSeconds,
	})

	minutes := summary.MaxStopDurationSeconds / 60
	if minutes > r.config.ThresholdMinutes {
		alert := models.NewLongStop(r.config.ThresholdMinutes, minutes)
		return &alert
	}
	return nil
}

// MissingUpdateRule flags the first gap between consecutive points longer than the threshold
type MissingUpdateRule struct {
	config MissingUpdateConfig
}

// NewMissingUpdateRule creates a missing-update rule
func NewMissingUpdateRule(config MissingUpdateConfig) *MissingUpdateRule {
	return &MissingUpdateRule{config: config}
}

// Kind returns the alert kind
func (r *MissingUpdateRule) Kind() models.AlertKind {
	return models.AlertMissingUpdate
}

// Check scans consecutive gaps and stops at the first one over the threshold
func (r *MissingUpdateRule) Check(trip models.Trip) *models.Alert {
	for i := 1; i < len(trip); i++ {
		gap := trip[i].Timestamp.Sub(trip[i-1].Timestamp).Minutes()
		if gap > r.config.ThresholdMinutes {
			alert := models.NewMissingUpdate(r.config.ThresholdMinutes, gap)
			return &alert
		}
	}
	return nil
}
