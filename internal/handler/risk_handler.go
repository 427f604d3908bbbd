package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/service"
	"github.com/jengzang/triprisk-backend-go/pkg/response"
)

// RiskHandler handles HTTP requests for trip scoring and analysis
type RiskHandler struct {
	service *service.RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(service *service.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

// Score handles POST /api/v1/risk-score
func (h *RiskHandler) Score(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, bindingMessage(err), err)
		return
	}

	assessment, err := h.service.Assess(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to assess trip")
		return
	}

	response.Success(c, assessment)
}

// Features handles POST /api/v1/features
func (h *RiskHandler) Features(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, bindingMessage(err), err)
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to analyze trip")
		return
	}

	response.Success(c, result)
}
