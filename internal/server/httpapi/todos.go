package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
)

// listTodos filters on completed only for the exact values "true" and
// "false"; anything else lists both states.
func (h *Handler) listTodos(c *gin.Context) {
	filter := models.TodoFilter{Query: c.Query("q")}
	switch c.Query("completed") {
	case "true":
		filter.Completed = boolPtr(true)
	case "false":
		filter.Completed = boolPtr(false)
	}

	items, err := h.Todos.List(c.Request.Context(), auth.CurrentUser(c).ID, filter)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getTodo(c *gin.Context) {
	item, err := h.Todos.Get(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, bindingError(err))
		return
	}

	item, err := h.Todos.Create(c.Request.Context(), auth.CurrentUser(c).ID, services.TodoInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) updateTodo(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, bindingError(err))
		return
	}

	item, err := h.Todos.Update(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("id"), models.TodoPatch{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteTodo(c *gin.Context) {
	if err := h.Todos.Delete(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("id")); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func boolPtr(b bool) *bool { return &b }
