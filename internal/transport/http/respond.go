package http

import (
	"errors"
	"log"
	"net/http"

	"color-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error"`
	Code    domain.ValidationCode `json:"code,omitempty"`
}

// statusFor maps an error category to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope and aborts the chain. Server errors are
// logged and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		body.Error = "internal server error"
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Code = verr.Code
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func respondOK(c *gin.Context, status int, fields gin.H) {
	fields["success"] = true
	c.JSON(status, fields)
}
