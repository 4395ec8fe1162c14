package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/memory"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
)

func setupTodos(t *testing.T) (*TodoService, *memory.Store, string, string) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, u := range []*models.User{{ID: "alice", Email: "a@x.io"}, {ID: "bob", Email: "b@x.io"}} {
		_, err := store.Users().Create(ctx, u)
		require.NoError(t, err)
	}
	return NewTodoService(store, logging.Nop{}), store, "alice", "bob"
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTodoCreate_OwnedByCaller(t *testing.T) {
	s, _, alice, _ := setupTodos(t)

	got, err := s.Create(context.Background(), alice, TodoInput{Description: "  milk  "})
	require.NoError(t, err)
	assert.Equal(t, alice, got.UserID)
	assert.Equal(t, "milk", got.Description)
	assert.False(t, got.Completed)
	_, err = uuid.Parse(got.ID)
	assert.NoError(t, err)
}

func TestTodoCreate_EmptyDescription(t *testing.T) {
	s, _, alice, _ := setupTodos(t)

	_, err := s.Create(context.Background(), alice, TodoInput{Description: "   "})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "description", ve.Field)
}

func TestTodoOwnershipIsolation(t *testing.T) {
	s, _, alice, bob := setupTodos(t)
	ctx := context.Background()

	item, err := s.Create(ctx, alice, TodoInput{Description: "milk"})
	require.NoError(t, err)

	_, err = s.Get(ctx, bob, item.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Update(ctx, bob, item.ID, models.TodoPatch{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, bob, item.ID), common.ErrNotFound)

	list, err := s.List(ctx, bob, models.TodoFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	still, err := s.Get(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.False(t, still.Completed)
}

func TestTodoUpdate_PartialPatch(t *testing.T) {
	s, _, alice, _ := setupTodos(t)
	ctx := context.Background()

	item, err := s.Create(ctx, alice, TodoInput{Description: "milk"})
	require.NoError(t, err)

	got, err := s.Update(ctx, alice, item.ID, models.TodoPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "milk", got.Description)

	got, err = s.Update(ctx, alice, item.ID, models.TodoPatch{Description: strPtr("oat milk")})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "oat milk", got.Description)
	assert.Equal(t, alice, got.UserID)
}

func TestTodoUpdate_EmptyDescriptionRejected(t *testing.T) {
	s, _, alice, _ := setupTodos(t)
	ctx := context.Background()

	item, err := s.Create(ctx, alice, TodoInput{Description: "milk"})
	require.NoError(t, err)

	_, err = s.Update(ctx, alice, item.ID, models.TodoPatch{Description: strPtr("")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTodo_MalformedIDIsNotFound(t *testing.T) {
	s, _, alice, _ := setupTodos(t)
	ctx := context.Background()

	_, err := s.Get(ctx, alice, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = s.Update(ctx, alice, "not-a-uuid", models.TodoPatch{})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, alice, "not-a-uuid"), common.ErrNotFound)
}

func TestTodoList_Filters(t *testing.T) {
	s, _, alice, _ := setupTodos(t)
	ctx := context.Background()

	for _, d := range []string{"milk", "eggs", "Almond milk"} {
		_, err := s.Create(ctx, alice, TodoInput{Description: d})
		require.NoError(t, err)
	}
	eggs, err := s.List(ctx, alice, models.TodoFilter{Query: "eggs"})
	require.NoError(t, err)
	require.Len(t, eggs, 1)
	_, err = s.Update(ctx, alice, eggs[0].ID, models.TodoPatch{Completed: boolPtr(true)})
	require.NoError(t, err)

	milk, err := s.List(ctx, alice, models.TodoFilter{Query: "MILK"})
	require.NoError(t, err)
	assert.Len(t, milk, 2)

	done, err := s.List(ctx, alice, models.TodoFilter{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "eggs", done[0].Description)
}

func TestTodoDelete(t *testing.T) {
	s, _, alice, _ := setupTodos(t)
	ctx := context.Background()

	item, err := s.Create(ctx, alice, TodoInput{Description: "milk"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, alice, item.ID))
	assert.ErrorIs(t, s.Delete(ctx, alice, item.ID), common.ErrNotFound)
}

type brokenTodos struct{ todos.Repository }

func (brokenTodos) List(context.Context, string, models.TodoFilter) ([]models.Todo, error) {
	return nil, errors.New("db down")
}

type brokenTodoStore struct{ *memory.Store }

func (s brokenTodoStore) Todos() todos.Repository { return brokenTodos{s.Store.Todos()} }

func TestTodoList_StoreError(t *testing.T) {
	s := NewTodoService(brokenTodoStore{memory.NewStore()}, logging.Nop{})

	_, err := s.List(context.Background(), "alice", models.TodoFilter{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}
