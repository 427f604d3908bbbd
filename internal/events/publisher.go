// Package events publishes completed assessments to downstream consumers.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/jengzang/triprisk-backend-go/internal/logging"
	"github.com/jengzang/triprisk-backend-go/internal/models"
)

// DefaultSubject is used when no subject is configured
const DefaultSubject = "triprisk.assessments"

// Publisher announces stored assessments
type Publisher interface {
	Publish(ctx context.Context, a *models.Assessment) error
	Close() error
}

// NopPublisher discards everything. Used when publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.Assessment) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

// AssessmentEvent is the message body published for each assessment
type AssessmentEvent struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	PointCount int              `json:"point_count"`
	RiskScore  float64          `json:"risk_score"`
	Label      models.RiskLabel `json:"label"`
	Alerts     []models.Alert   `json:"alerts"`
}

// NewAssessmentEvent builds the event for an assessment
func NewAssessmentEvent(a *models.Assessment) AssessmentEvent {
	alerts := a.Alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return AssessmentEvent{
		ID:         a.ID,
		CreatedAt:  a.CreatedAt,
		PointCount: a.PointCount,
		RiskScore:  a.RiskScore,
		Label:      a.Label,
		Alerts:     alerts,
	}
}

// NATSConfig configures the NATS publisher
type NATSConfig struct {
	URL     string
	Subject string

	// FlushTimeout bounds the flush when the caller's context has no deadline
	FlushTimeout time.Duration
}

// DefaultFlushTimeout is used when NATSConfig.FlushTimeout is zero
const DefaultFlushTimeout = 2 * time.Second

// NATSPublisher publishes assessment events as JSON on a NATS subject
type NATSPublisher struct {
	conn         *nats.Conn
	subject      string
	flushTimeout time.Duration
}

// NewNATSPublisher connects to NATS
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("triprisk"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logging.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: cfg.Subject, flushTimeout: cfg.FlushTimeout}, nil
}

// Publish implements Publisher. The message is buffered by the client; ctx
// only bounds the flush, which falls back to the flush timeout when ctx has
// no deadline.
func (p *NATSPublisher) Publish(ctx context.Context, a *models.Assessment) error {
	data, err := json.Marshal(NewAssessmentEvent(a))
	if err != nil {
		return fmt.Errorf("failed to encode assessment event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	msg.Header.Set(nats.MsgIdHdr, a.ID)
	if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
		msg.Header.Set("X-Request-ID", reqID)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish assessment %s: %w", a.ID, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.flushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush assessment %s: %w", a.ID, err)
	}
	return nil
}

// Close drains the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
