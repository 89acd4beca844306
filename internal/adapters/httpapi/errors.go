package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"chirp/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the error taxonomy onto HTTP. Internal and transient
// causes are logged but never echoed to the client.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Wrap(apperr.KindInternal, "unexpected error", err)
	}

	status := statusForKind(ae.Kind)
	message := ae.Message

	switch ae.Kind {
	case apperr.KindRateLimited:
		if ae.RetryAfter > 0 {
			sec := int(ae.RetryAfter.Seconds())
			if sec < 1 {
				sec = 1
			}
			c.Header("Retry-After", strconv.Itoa(sec))
		}
	case apperr.KindInternal, apperr.KindTransient:
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("kind", ae.Kind.String()),
			zap.Error(ae),
		)
		if ae.Kind == apperr.KindInternal {
			message = "internal error"
		} else {
			message = "service temporarily unavailable, retry later"
		}
	}

	c.AbortWithStatusJSON(status, gin.H{
		"code":    ae.Kind.String(),
		"message": message,
	})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
