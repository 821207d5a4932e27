package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

// writeError maps service errors to HTTP responses. Business rule
// violations carry their kind and the offending field.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusUnprocessableEntity
		if verr.Kind == domain.KindSeatAlreadyTaken {
			status = http.StatusConflict
		}
		c.JSON(status, errorResponse{Code: string(verr.Kind), Field: verr.Field, Error: verr.Message})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrDuplicateAirplaneName):
		c.JSON(http.StatusConflict, errorResponse{Field: "name", Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
