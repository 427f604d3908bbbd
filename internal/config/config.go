package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/triprisk-backend-go/internal/analysis"
	"github.com/jengzang/triprisk-backend-go/internal/analysis/features"
	"github.com/jengzang/triprisk-backend-go/internal/analysis/rules"
	"github.com/jengzang/triprisk-backend-go/internal/analysis/stop"
	"github.com/jengzang/triprisk-backend-go/internal/logging"
	"github.com/jengzang/triprisk-backend-go/internal/scoring"
)

// Scoring modes
const (
	ScoringBaseline = "baseline"
	ScoringRemote   = "remote"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Features  FeaturesConfig  `koanf:"features"`
	Rules     RulesConfig     `koanf:"rules"`
	Scoring   ScoringConfig   `koanf:"scoring"`
	Events    EventsConfig    `koanf:"events"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxAgeDays int    `koanf:"max_age_days"`
	MaxBackups int    `koanf:"max_backups"`
}

// AuthConfig 认证配置，JWTSecret 为空时不启用认证
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

type FeaturesConfig struct {
	StopThresholdM          float64 `koanf:"stop_threshold_m"`
	MinStopSeconds          float64 `koanf:"min_stop_seconds"`
	ExpectedIntervalSeconds float64 `koanf:"expected_interval_seconds"`
	ToleranceSeconds        float64 `koanf:"tolerance_seconds"`
}

type RulesConfig struct {
	Geofence      GeofenceConfig      `koanf:"geofence"`
	LongStop      LongStopConfig      `koanf:"long_stop"`
	MissingUpdate MissingUpdateConfig `koanf:"missing_update"`
}

type GeofenceConfig struct {
	CenterLat float64 `koanf:"center_lat"`
	CenterLon float64 `koanf:"center_lon"`
	RadiusM   float64 `koanf:"radius_m"`
}

type LongStopConfig struct {
	ThresholdMinutes float64 `koanf:"threshold_minutes"`
	ProximityM       float64 `koanf:"proximity_m"`
}

type MissingUpdateConfig struct {
	ThresholdMinutes float64 `koanf:"threshold_minutes"`
}

// ScoringConfig 评分配置
type ScoringConfig struct {
	Mode string `koanf:"mode"` // baseline | remote

	RemoteURL        string        `koanf:"remote_url"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`

	BaselineModelFile string `koanf:"baseline_model_file"` // 为空时使用内置基线

	NormalizerMin float64 `koanf:"normalizer_min"`
	NormalizerMax float64 `koanf:"normalizer_max"`
}

// EventsConfig 事件发布配置，NATSURL 为空时不发布
type EventsConfig struct {
	NATSURL      string        `koanf:"nats_url"`
	Subject      string        `koanf:"subject"`
	FlushTimeout time.Duration `koanf:"flush_timeout"`
}

type AnalysisConfig struct {
	BatchWorkers int `koanf:"batch_workers"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "./data/triprisk.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxAgeDays: 30,
			MaxBackups: 10,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Features: FeaturesConfig{
			StopThresholdM:          10,
			MinStopSeconds:          120,
			ExpectedIntervalSeconds: 120,
			ToleranceSeconds:        30,
		},
		Rules: RulesConfig{
			Geofence: GeofenceConfig{
				CenterLat: 12.9716,
				CenterLon: 77.5946,
				RadiusM:   5000,
			},
			LongStop: LongStopConfig{
				ThresholdMinutes: 30,
				ProximityM:       10,
			},
			MissingUpdate: MissingUpdateConfig{
				ThresholdMinutes: 5,
			},
		},
		Scoring: ScoringConfig{
			Mode:             ScoringBaseline,
			Timeout:          2 * time.Second,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			NormalizerMin:    0,
			NormalizerMax:    3,
		},
		Events: EventsConfig{
			Subject:      "triprisk.assessments",
			FlushTimeout: 2 * time.Second,
		},
		Analysis: AnalysisConfig{
			BatchWorkers: 0, // 0 = runtime.NumCPU()
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("rate_limit.requests_per_second must be positive"))
		}
		if c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("rate_limit.burst must be positive"))
		}
	}

	f := c.Features
	if f.StopThresholdM <= 0 {
		errs = append(errs, errors.New("features.stop_threshold_m must be positive"))
	}
	if f.MinStopSeconds <= 0 {
		errs = append(errs, errors.New("features.min_stop_seconds must be positive"))
	}
	if f.ExpectedIntervalSeconds <= 0 {
		errs = append(errs, errors.New("features.expected_interval_seconds must be positive"))
	}
	if f.ToleranceSeconds < 0 {
		errs = append(errs, errors.New("features.tolerance_seconds must not be negative"))
	}

	g := c.Rules.Geofence
	if g.CenterLat < -90 || g.CenterLat > 90 {
		errs = append(errs, fmt.Errorf("rules.geofence.center_lat %v out of range", g.CenterLat))
	}
	if g.CenterLon < -180 || g.CenterLon > 180 {
		errs = append(errs, fmt.Errorf("rules.geofence.center_lon %v out of range", g.CenterLon))
	}
	if g.RadiusM <= 0 {
		errs = append(errs, errors.New("rules.geofence.radius_m must be positive"))
	}
	if c.Rules.LongStop.ThresholdMinutes <= 0 {
		errs = append(errs, errors.New("rules.long_stop.threshold_minutes must be positive"))
	}
	if c.Rules.LongStop.ProximityM <= 0 {
		errs = append(errs, errors.New("rules.long_stop.proximity_m must be positive"))
	}
	if c.Rules.MissingUpdate.ThresholdMinutes <= 0 {
		errs = append(errs, errors.New("rules.missing_update.threshold_minutes must be positive"))
	}

	s := c.Scoring
	switch s.Mode {
	case ScoringBaseline:
	case ScoringRemote:
		if s.RemoteURL == "" {
			errs = append(errs, errors.New("scoring.remote_url is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown scoring.mode %q", s.Mode))
	}
	if s.NormalizerMax <= s.NormalizerMin {
		errs = append(errs, errors.New("scoring.normalizer_max must be greater than normalizer_min"))
	}

	if c.Analysis.BatchWorkers < 0 {
		errs = append(errs, errors.New("analysis.batch_workers must not be negative"))
	}

	return errors.Join(errs...)
}

// AnalysisEngineConfig 转换为分析引擎配置
func (c *Config) AnalysisEngineConfig() analysis.Config {
	return analysis.Config{
		Features: features.Options{
			Stop: stop.Options{
				ThresholdMeters: c.Features.StopThresholdM,
				MinStopSeconds:  c.Features.MinStopSeconds,
			},
			ExpectedIntervalSeconds: c.Features.ExpectedIntervalSeconds,
			ToleranceSeconds:        c.Features.ToleranceSeconds,
		},
		Rules: rules.Config{
			Geofence: rules.GeofenceConfig{
				CenterLat:    c.Rules.Geofence.CenterLat,
				CenterLon:    c.Rules.Geofence.CenterLon,
				RadiusMeters: c.Rules.Geofence.RadiusM,
			},
			LongStop: rules.LongStopConfig{
				ThresholdMinutes: c.Rules.LongStop.ThresholdMinutes,
				ProximityMeters:  c.Rules.LongStop.ProximityM,
			},
			MissingUpdate: rules.MissingUpdateConfig{
				ThresholdMinutes: c.Rules.MissingUpdate.ThresholdMinutes,
			},
		},
	}
}

func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxAgeDays: c.Logging.MaxAgeDays,
		MaxBackups: c.Logging.MaxBackups,
	}
}

func (c *Config) RemoteScorerConfig() scoring.RemoteConfig {
	return scoring.RemoteConfig{
		URL:              c.Scoring.RemoteURL,
		Timeout:          c.Scoring.Timeout,
		FailureThreshold: c.Scoring.FailureThreshold,
		OpenTimeout:      c.Scoring.OpenTimeout,
	}
}

func (c *Config) Normalizer() scoring.MinMaxNormalizer {
	return scoring.MinMaxNormalizer{Min: c.Scoring.NormalizerMin, Max: c.Scoring.NormalizerMax}
}
