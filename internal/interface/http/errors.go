package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/pkg/response"
)

// writeError maps service errors onto status codes. Anything unrecognized is
// logged and reported as a 500 without details.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, ve.Message, ve.Fields)
	case errors.Is(err, application.ErrConflict):
		response.Error(c, http.StatusConflict, err.Error(), gin.H{"email": "already registered"})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "wrong email or password", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrTokenMismatch):
		response.Error(c, http.StatusBadRequest, err.Error(), gin.H{"verifyToken": "does not match"})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
