package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
)

// TodoInput holds the fields accepted when creating a todo.
type TodoInput struct {
	Description string
	Completed   bool
}

// TodoService scopes every operation to the owner passed in by the caller,
// normally the authenticated user. Unknown ids and ids of other owners both
// yield common.ErrNotFound.
type TodoService struct {
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewTodoService(m repomanager.RepositoryManager, logger logging.Logger) *TodoService {
	return &TodoService{repos: m, logger: logger.With("module", "todos")}
}

func (s *TodoService) List(ctx context.Context, ownerID string, filter models.TodoFilter) ([]models.Todo, error) {
	items, err := s.repos.Todos().List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %w", err)
	}
	return items, nil
}

func (s *TodoService) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}
	return s.repos.Todos().Get(ctx, ownerID, id)
}

// Create stores a todo owned by ownerID. Owner and row are written in one
// statement, so no unowned todo can be left behind.
func (s *TodoService) Create(ctx context.Context, ownerID string, in TodoInput) (*models.Todo, error) {
	desc, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}

	todo := &models.Todo{
		ID:          uuid.NewString(),
		Description: desc,
		Completed:   in.Completed,
		UserID:      ownerID,
	}
	t, err := s.repos.Todos().Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}
	return t, nil
}

// Update applies patch to the caller's todo. Lookup and save run in one
// transaction with the row locked.
func (s *TodoService) Update(ctx context.Context, ownerID, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Description != nil {
		desc, err := normalizeDescription(*patch.Description)
		if err != nil {
			return nil, err
		}
		patch.Description = &desc
	}
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	var updated *models.Todo
	err := s.repos.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		cur, err := m.Todos().GetForUpdate(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if patch.Description != nil {
			cur.Description = *patch.Description
		}
		if patch.Completed != nil {
			cur.Completed = *patch.Completed
		}
		updated, err = m.Todos().Update(ctx, cur)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating todo: %w", err)
	}
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}
	if err := s.repos.Todos().Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error deleting todo: %w", err)
	}
	s.logger.Debug(ctx, "todo deleted", "todo_id", id, "user_id", ownerID)
	return nil
}

func normalizeDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", common.NewValidationError("description", "must not be empty")
	}
	return s, nil
}

// validID reports whether id can name a todo at all. Malformed ids would
// otherwise reach Postgres as a uuid cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
