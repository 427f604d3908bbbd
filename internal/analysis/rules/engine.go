package rules

import "github.com/jengzang/triprisk-backend-go/internal/models"

// Config groups the configuration of the three rules
type Config struct {
	Geofence      GeofenceConfig      `json:"geofence"`
	LongStop      LongStopConfig      `json:"long_stop"`
	MissingUpdate MissingUpdateConfig `json:"missing_update"`
}

// DefaultConfig returns the default configuration of every rule
func DefaultConfig() Config {
	return Config{
		Geofence:      DefaultGeofenceConfig(),
		LongStop:      DefaultLongStopConfig(),
		MissingUpdate: DefaultMissingUpdateConfig(),
	}
}

// Engine evaluates its rules in a fixed order: geofence, long stop, missing update.
// It holds no per-trip state and is safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the three standard rules
func NewEngine(config Config) *Engine {
	return &Engine{
		rules: []Rule{
			NewGeofenceRule(config.Geofence),
			NewLongStopRule(config.LongStop),
			NewMissingUpdateRule(config.MissingUpdate),
		},
	}
}

// Evaluate returns the alerts for a trip, omitting rules that passed.
// The result is never nil.
func (e *Engine) Evaluate(trip models.Trip) []models.Alert {
	alerts := make([]models.Alert, 0, len(e.rules))
	for _, rule := range e.rules {
		if alert := rule.Check(trip); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}
