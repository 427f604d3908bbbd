package models

// FeatureVector summarizes a trip's geometry and kinematics. Every field is
// always present; degenerate trips produce zeros.
type FeatureVector struct {
	AvgDistanceFromRoute  float64 `json:"avg_distance_from_route"` // meters
	SpeedVariance         float64 `json:"speed_variance"`          // (m/s)^2
	MaxStopDuration       float64 `json:"max_stop_duration"`       // seconds
	NumMissingUpdates     float64 `json:"num_missing_updates"`
	TotalDistance         float64 `json:"total_distance"` // meters
	AvgSpeed              float64 `json:"avg_speed"`      // m/s
	MaxSpeed              float64 `json:"max_speed"`      // m/s
	TripDuration          float64 `json:"trip_duration"`  // seconds
	StraightnessRatio     float64 `json:"straightness_ratio"`
	StopCount             int     `json:"stop_count"`
	StartHour             int     `json:"start_hour"`
	EndHour               int     `json:"end_hour"`
	BearingChangeVariance float64 `json:"bearing_change_variance"` // degrees^2
}

// FeatureNames lists the vector's fields in wire order
var FeatureNames = []string{
	"avg_distance_from_route",
	"speed_variance",
	"max_stop_duration",
	"num_missing_updates",
	"total_distance",
	"avg_speed",
	"max_speed",
	"trip_duration",
	"straightness_ratio",
	"stop_count",
	"start_hour",
	"end_hour",
	"bearing_change_variance",
}

// Values returns the vector as floats in FeatureNames order
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.AvgDistanceFromRoute,
		f.SpeedVariance,
		f.MaxStopDuration,
		f.NumMissingUpdates,
		f.TotalDistance,
		f.AvgSpeed,
		f.MaxSpeed,
		f.TripDuration,
		f.StraightnessRatio,
		float64(f.StopCount),
		float64(f.StartHour),
		float64(f.EndHour),
		f.BearingChangeVariance,
	}
}
