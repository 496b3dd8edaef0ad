package api

import (
	"errors"
	"net/http"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "internal server error"

// statusFor maps a service error kind to its HTTP status
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body and aborts the chain.
// Errors that are not *service.Error are logged and hidden from the client.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.Error().Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
		return
	}

	body := gin.H{"error": svcErr.Message}
	if len(svcErr.Fields) > 0 {
		body["errors"] = svcErr.Fields
	}
	c.AbortWithStatusJSON(statusFor(svcErr.Kind), body)
}

// badRequest reports a body that could not be decoded
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": err.Error(),
	})
}
