package handlers

import (
	"strings"

	apperrors "github.com/PageVerify/verify-widget-backend/errors"
	"github.com/gin-gonic/gin"
)

// bindJSONOrError binds JSON request body and sets validation error if binding fails.
// Returns true if binding succeeded, false if error was set (caller should return).
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}

// joinErrors flattens rule violations into a single detail string.
func joinErrors(errs []string) string {
	return strings.Join(errs, " ")
}
