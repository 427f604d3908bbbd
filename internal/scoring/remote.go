package scoring

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jengzang/triprisk-backend-go/internal/logging"
	"github.com/jengzang/triprisk-backend-go/internal/models"
)

// RemoteConfig configures the model-serving client
type RemoteConfig struct {
	URL     string
	Timeout time.Duration

	// Circuit breaker
	FailureThreshold uint32        // consecutive failures before opening
	OpenTimeout      time.Duration // time spent open before probing again
	MaxRequests      uint32        // requests allowed while half-open
}

type scoreRequest struct {
	Features models.FeatureVector `json:"features"`
}

type scoreResponse struct {
	RawScore *float64 `json:"raw_score"`
}

// RemoteScorer calls an external model-serving endpoint
type RemoteScorer struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[float64]
}

// NewRemoteScorer creates a remote scorer
func NewRemoteScorer(cfg RemoteConfig) *RemoteScorer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        "scoring",
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Scoring circuit breaker state changed")
		},
	}

	return &RemoteScorer{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
	}
}

// State returns the circuit breaker state for health reporting
func (s *RemoteScorer) State() string {
	return s.breaker.State().String()
}

// Score implements Scorer
func (s *RemoteScorer) Score(ctx context.Context, features models.FeatureVector) (float64, error) {
	raw, err := s.breaker.Execute(func() (float64, error) {
		return s.call(ctx, features)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	return raw, nil
}

func (s *RemoteScorer) call(ctx context.Context, features models.FeatureVector) (float64, error) {
	body, err := json.Marshal(scoreRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("failed to encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return 0, fmt.Errorf("scoring service returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode scoring response: %w", err)
	}
	if out.RawScore == nil {
		return 0, fmt.Errorf("scoring response has no raw_score")
	}
	return *out.RawScore, nil
}
