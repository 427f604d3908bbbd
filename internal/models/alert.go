package models

import "fmt"

// AlertKind identifies the rule that produced an alert
type AlertKind string

const (
	AlertGeofenceBreach AlertKind = "geofence_breach"
	AlertLongStop       AlertKind = "long_stop"
	AlertMissingUpdate  AlertKind = "missing_update"
)

// Alert is a rule-based risk flag for a trip.
// Threshold is the configured limit that was exceeded (radius in meters for
// geofence breaches, minutes otherwise); Observed is the measured value.
type Alert struct {
	Kind      AlertKind `json:"kind"`
	Threshold float64   `json:"threshold"`
	Observed  float64   `json:"observed"`
	Message   string    `json:"message"`
}

// NewGeofenceBreach builds a breach alert for a point distanceM from the center
func NewGeofenceBreach(radiusM, distanceM float64) Alert {
	return Alert{
		Kind:      AlertGeofenceBreach,
		Threshold: radiusM,
		Observed:  distanceM,
		Message:   "Geo-fence breach",
	}
}

// NewLongStop builds a long-stop alert
func NewLongStop(thresholdMin, stopMin float64) Alert {
	return Alert{
		Kind:      AlertLongStop,
		Threshold: thresholdMin,
		Observed:  stopMin,
		Message:   fmt.Sprintf("Long stop > %g min", thresholdMin),
	}
}

// NewMissingUpdate builds a missing-update alert
func NewMissingUpdate(thresholdMin, gapMin float64) Alert {
	return Alert{
		Kind:      AlertMissingUpdate,
		Threshold: thresholdMin,
		Observed:  gapMin,
		Message:   fmt.Sprintf("Missing location update > %g min", thresholdMin),
	}
}
