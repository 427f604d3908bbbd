package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/service"
	"github.com/jengzang/triprisk-backend-go/pkg/response"
)

// AssessmentHandler handles HTTP requests for stored assessments
type AssessmentHandler struct {
	service *service.RiskService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(service *service.RiskService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// GetAssessments handles GET /api/v1/assessments
func (h *AssessmentHandler) GetAssessments(c *gin.Context) {
	var filter models.AssessmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	result, err := h.service.ListAssessments(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "Failed to get assessments")
		return
	}

	response.Success(c, result)
}

// GetAssessmentByID handles GET /api/v1/assessments/:id
func (h *AssessmentHandler) GetAssessmentByID(c *gin.Context) {
	assessment, err := h.service.GetAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to get assessment")
		return
	}

	response.Success(c, assessment)
}
