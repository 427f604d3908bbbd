package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jengzang/triprisk-backend-go/internal/models"
	"github.com/jengzang/triprisk-backend-go/internal/scoring"
	"github.com/jengzang/triprisk-backend-go/pkg/response"
)

// writeError maps a service error to its HTTP status
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrMalformedInput):
		response.Error(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, models.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Assessment not found", err)
	case errors.Is(err, scoring.ErrScoringUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Risk scoring is temporarily unavailable", err)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, err)
	}
}

// bindingMessage renders binding failures as one line per offending field
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// TripRequest.Points[3].Lat -> Points[3].Lat
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s must be within range (%s %s)", field, fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return "Invalid request body: " + strings.Join(parts, "; ")
}
