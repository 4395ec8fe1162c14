// Package memory provides an in-process RepositoryManager used by tests and
// by the server when no database is configured. Data lives only as long as
// the Store value.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

// Store holds users, tokens and todos behind one mutex. Transactions are
// serialized by txMu and keep an undo journal of the keys they write, so a
// rollback never touches data written outside the transaction.
type Store struct {
	txMu sync.Mutex

	mu     sync.RWMutex
	users  map[string]models.User
	tokens map[string]models.Token // keyed by token hash
	todos  map[string]models.Todo

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]models.User),
		tokens: make(map[string]models.Token),
		todos:  make(map[string]models.Todo),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() users.Repository   { return userRepo{s: s} }
func (s *Store) Tokens() tokens.Repository { return tokenRepo{s: s} }
func (s *Store) Todos() todos.Repository   { return todoRepo{s: s} }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, m repomanager.RepositoryManager) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := newJournal()
	defer func() {
		if p := recover(); p != nil {
			s.rollback(j)
			panic(p)
		}
		if err != nil {
			s.rollback(j)
		}
	}()

	return fn(ctx, txManager{s: s, j: j})
}

func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	undo(s.users, j.users)
	undo(s.tokens, j.tokens)
	undo(s.todos, j.todos)
}

// txManager hands out repositories that record their writes in j.
type txManager struct {
	s *Store
	j *journal
}

func (m txManager) Users() users.Repository   { return userRepo{s: m.s, j: m.j} }
func (m txManager) Tokens() tokens.Repository { return tokenRepo{s: m.s, j: m.j} }
func (m txManager) Todos() todos.Repository   { return todoRepo{s: m.s, j: m.j} }

// WithTx joins the running transaction.
func (m txManager) WithTx(ctx context.Context, fn func(ctx context.Context, m repomanager.RepositoryManager) error) error {
	return fn(ctx, m)
}

// change is the first value a transaction saw for a key and the last value
// it wrote.
type change[V comparable] struct {
	before    V
	hadBefore bool
	after     V
	hasAfter  bool
}

type journal struct {
	users  map[string]*change[models.User]
	tokens map[string]*change[models.Token]
	todos  map[string]*change[models.Todo]
}

func newJournal() *journal {
	return &journal{
		users:  make(map[string]*change[models.User]),
		tokens: make(map[string]*change[models.Token]),
		todos:  make(map[string]*change[models.Todo]),
	}
}

func (j *journal) userLog() map[string]*change[models.User] {
	if j == nil {
		return nil
	}
	return j.users
}

func (j *journal) tokenLog() map[string]*change[models.Token] {
	if j == nil {
		return nil
	}
	return j.tokens
}

func (j *journal) todoLog() map[string]*change[models.Todo] {
	if j == nil {
		return nil
	}
	return j.todos
}

// put and remove write m under the caller's lock; with a non-nil log they
// also record the change for rollback.
func put[V comparable](m map[string]V, log map[string]*change[V], key string, v V) {
	c := track(m, log, key)
	m[key] = v
	if c != nil {
		c.after, c.hasAfter = v, true
	}
}

func remove[V comparable](m map[string]V, log map[string]*change[V], key string) {
	c := track(m, log, key)
	delete(m, key)
	if c != nil {
		var zero V
		c.after, c.hasAfter = zero, false
	}
}

func track[V comparable](m map[string]V, log map[string]*change[V], key string) *change[V] {
	if log == nil {
		return nil
	}
	if c, ok := log[key]; ok {
		return c
	}
	before, had := m[key]
	c := &change[V]{before: before, hadBefore: had}
	log[key] = c
	return c
}

// undo reverts every logged key still holding the transaction's value. A key
// rewritten outside the transaction since then is left alone.
func undo[V comparable](m map[string]V, log map[string]*change[V]) {
	for key, c := range log {
		cur, ok := m[key]
		if ok != c.hasAfter || cur != c.after {
			continue
		}
		if c.hadBefore {
			m[key] = c.before
		} else {
			delete(m, key)
		}
	}
}

type userRepo struct {
	s *Store
	j *journal
}

func (r userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return nil, common.ErrAlreadyExists
	}
	user.CreatedAt = r.s.now()
	put(r.s.users, r.j.userLog(), user.ID, *user)
	return user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type tokenRepo struct {
	s *Store
	j *journal
}

func (r tokenRepo) Create(_ context.Context, token, userID, purpose string) (*models.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	hash := tokens.Hash(token)
	if _, ok := r.s.tokens[hash]; ok {
		return nil, common.ErrAlreadyExists
	}
	rec := models.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hash,
		Purpose:   purpose,
		CreatedAt: r.s.now(),
	}
	put(r.s.tokens, r.j.tokenLog(), hash, rec)
	return &rec, nil
}

func (r tokenRepo) FindByToken(_ context.Context, token string) (*models.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.tokens[tokens.Hash(token)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rec, nil
}

func (r tokenRepo) Destroy(_ context.Context, record *models.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	remove(r.s.tokens, r.j.tokenLog(), record.TokenHash)
	return nil
}

type todoRepo struct {
	s *Store
	j *journal
}

func (r todoRepo) Create(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.todos[todo.ID]; ok {
		return nil, common.ErrAlreadyExists
	}
	if _, ok := r.s.users[todo.UserID]; !ok {
		return nil, common.ErrNotFound
	}
	now := r.s.now()
	todo.CreatedAt, todo.UpdatedAt = now, now
	put(r.s.todos, r.j.todoLog(), todo.ID, *todo)
	return todo, nil
}

func (r todoRepo) List(_ context.Context, ownerID string, filter models.TodoFilter) ([]models.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]models.Todo, 0)
	for _, t := range r.s.todos {
		if t.UserID != ownerID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r todoRepo) Get(_ context.Context, ownerID, id string) (*models.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.todos[id]
	if !ok || t.UserID != ownerID {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

// GetForUpdate needs no lock of its own; WithTx already serializes writers.
func (r todoRepo) GetForUpdate(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	return r.Get(ctx, ownerID, id)
}

func (r todoRepo) Update(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.todos[todo.ID]
	if !ok || cur.UserID != todo.UserID {
		return nil, common.ErrNotFound
	}
	cur.Description = todo.Description
	cur.Completed = todo.Completed
	cur.UpdatedAt = r.s.now()
	put(r.s.todos, r.j.todoLog(), todo.ID, cur)

	*todo = cur
	return todo, nil
}

func (r todoRepo) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.todos[id]
	if !ok || t.UserID != ownerID {
		return common.ErrNotFound
	}
	remove(r.s.todos, r.j.todoLog(), id)
	return nil
}
