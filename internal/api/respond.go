package api

import (
	"net/http"
	"strconv"

	"paydesk/internal/auth"
	"paydesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// invalid rejects a request whose form, query or body failed binding
func invalid(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}

// pageParam reads ?page=, defaulting to 1. Range checks belong to the services.
func pageParam(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		invalid(c, err)
		return 0, false
	}
	return page, true
}

// principal returns the caller resolved by the role gate
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Oops, something went wrong! principal missing"})
	}
	return p, ok
}
