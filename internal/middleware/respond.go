package middleware

import (
	"paydesk/internal/apperror"

	"github.com/gin-gonic/gin"
)

// Fail aborts the request with the error's status and a {"detail": ...}
// body. The error is recorded on the context for the request logger.
func Fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Code, gin.H{"detail": appErr.Detail})
}
