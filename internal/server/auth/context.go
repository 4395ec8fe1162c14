package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Keys under which the middleware stores the resolved identity on the gin context.
const (
	ContextUserKey  = "auth.user"
	ContextTokenKey = "auth.token"
)

// CurrentUser returns the authenticated user, or nil outside RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// CurrentToken returns the stored record of the presented token, or nil
// outside RequireAuth.
func CurrentToken(c *gin.Context) *models.Token {
	v, ok := c.Get(ContextTokenKey)
	if !ok {
		return nil
	}
	t, _ := v.(*models.Token)
	return t
}
