package repomanager

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

// RepositoryManager vends the repositories of one storage backend. Inside
// WithTx, the manager passed to fn is bound to the transaction and every
// repository it returns sees the same snapshot.
type RepositoryManager interface {
	Users() users.Repository
	Tokens() tokens.Repository
	Todos() todos.Repository

	// WithTx runs fn in a single transaction, committing when fn returns nil.
	// Calls do not nest.
	WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error
}
