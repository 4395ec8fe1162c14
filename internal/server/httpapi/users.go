package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
)

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, bindingError(err))
		return
	}

	user, err := h.Users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    codeAlreadyExists,
				"field":   "email",
				"message": "is already registered",
			})
			return
		}
		h.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// login answers every credential problem, a malformed body included, with a
// bare 401.
func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, token, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	c.Header(common.AuthHeaderName, token)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.Users.Logout(c.Request.Context(), auth.CurrentToken(c)); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
