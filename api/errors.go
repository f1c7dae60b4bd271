package api

import (
	"errors"
	"net/http"

	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/models"
	"github.com/fintrack/backend/service"
	"github.com/gin-gonic/gin"
)

const (
	msgServerError      = "Server error"
	msgInvalidBody      = "Invalid request body"
	msgNoToken          = "No token, authorization denied"
	msgInvalidToken     = "Token is not valid"
	msgUserExists       = "User already exists"
	msgBadCredentials   = "Invalid credentials"
	msgCategoryNotFound = "Category not found or not owned by user"
	msgCategoryInUse    = "Cannot delete category that is being used by transactions"
	msgTxNotFound       = "Transaction not found"
	msgTooManyRequests  = "Too many requests, please try again later"
	msgRouteNotFound    = "Route not found"
)

// fail translates a domain error into its HTTP response.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{Errors: verr.Fields})
	case errors.Is(err, service.ErrDuplicateUser):
		c.JSON(http.StatusBadRequest, models.MessageResponse{Message: msgUserExists})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, models.MessageResponse{Message: msgBadCredentials})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.MessageResponse{Message: msgInvalidToken})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, models.MessageResponse{Message: msgCategoryNotFound})
	case errors.Is(err, service.ErrCategoryInUse):
		c.JSON(http.StatusBadRequest, models.MessageResponse{Message: msgCategoryInUse})
	case errors.Is(err, service.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, models.MessageResponse{Message: msgTxNotFound})
	default:
		logger.FromContext(c.Request.Context(), h.log).Error("request failed", "path", c.FullPath(), "error", err)
		msg := msgServerError
		if h.development {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: msg})
	}
}

func (h *Handler) invalidBody(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context(), h.log).Debug("malformed body", "error", err)
	c.JSON(http.StatusBadRequest, models.MessageResponse{Message: msgInvalidBody})
}
