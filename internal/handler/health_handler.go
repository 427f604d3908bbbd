package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BreakerState reports the state of a circuit breaker
type BreakerState interface {
	State() string
}

// HealthHandler reports liveness and dependency status
type HealthHandler struct {
	db      *sql.DB
	breaker BreakerState
}

// NewHealthHandler creates a health handler. db and breaker may be nil.
func NewHealthHandler(db *sql.DB, breaker BreakerState) *HealthHandler {
	return &HealthHandler{db: db, breaker: breaker}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		} else {
			body["database"] = "ok"
		}
	}
	if h.breaker != nil {
		body["scoring"] = h.breaker.State()
	}

	c.JSON(status, body)
}
