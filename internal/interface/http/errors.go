package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/application"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
	"github.com/yunusemrekoyun/fast-food-app/pkg/response"
)

// writeError maps service errors to status codes. Anything unknown is logged
// and answered with a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", verr.Fields)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrAddressNotFound):
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
	case errors.Is(err, application.ErrMenuItemNotFound):
		response.Error[any](c, http.StatusNotFound, "menu item not found", nil)
	case errors.Is(err, application.ErrDefaultConsistency):
		response.Error[any](c, http.StatusConflict, "default address update incomplete, please retry", "default_consistency")
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "uploads are not available", nil)
	default:
		if logger != nil {
			helpers.RequestEntry(logger, c).WithError(err).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
