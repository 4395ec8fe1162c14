// Package todos declares the owner-scoped todo repository and its PostgreSQL
// implementation. Every read and write takes the owner id; a todo that
// belongs to someone else is indistinguishable from one that does not exist.
package todos

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Repository defines owner-scoped persistence for todos. Operations on an id
// that does not exist for ownerID return common.ErrNotFound.
type Repository interface {
	// Create inserts todo with todo.UserID as its owner in a single statement.
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	List(ctx context.Context, ownerID string, filter models.TodoFilter) ([]models.Todo, error)
	Get(ctx context.Context, ownerID, id string) (*models.Todo, error)

	// GetForUpdate is Get with a row lock. Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, ownerID, id string) (*models.Todo, error)

	// Update saves description and completion of todo, matching both
	// todo.ID and todo.UserID.
	Update(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	Delete(ctx context.Context, ownerID, id string) error
}
