// errors.go - Maps service failures onto HTTP responses

package handlers

import (
	"errors"
	"net/http"

	"go-blog-backend/logger"
	"go-blog-backend/services"

	"github.com/gin-gonic/gin"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusUnprocessableEntity
	case services.KindConflict:
		return http.StatusConflict
	case services.KindAuth:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUpdateFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message} with the status matching err's kind.
// Causes of internal errors are logged and kept out of the response.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = services.InternalError("An unknown error occurred", err)
	}
	if svcErr.Kind == services.KindInternal {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(statusFor(svcErr.Kind), gin.H{"error": svcErr.Message})
}

// bindError reports a request that could not be decoded or is missing required fields
func bindError(c *gin.Context, err error) {
	logger.Debugf("bind %s: %v", c.Request.URL.Path, err)
	if tooLarge(err) {
		respondError(c, services.ValidationError("File too big"))
		return
	}
	respondError(c, services.ValidationError("Fill in all fields"))
}
