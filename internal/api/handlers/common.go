package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"argus-worker-go/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error" example:"no source configured"`
}

// respondError maps the session error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrPrecondition):
		status = http.StatusConflict
	case errors.Is(err, session.ErrSourceUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
