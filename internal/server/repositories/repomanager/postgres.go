// Package repomanager provides RepositoryManager implementations, wiring
// together repository constructors, transactions and database migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/migrations"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook. The token repository
// may be replaced by another backend with WithTokenRepository.
type PostgresRepositoryManager struct {
	db     *sql.DB
	q      dbx.DBTX
	tokens tokens.Repository
}

// Option customizes a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithTokenRepository stores tokens in r instead of the tokens table. Such a
// repository does not take part in WithTx transactions.
func WithTokenRepository(r tokens.Repository) Option {
	return func(m *PostgresRepositoryManager) { m.tokens = r }
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB, opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{db: db, q: db}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Users returns a users.Repository bound to the manager's connection or transaction.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.q)
}

// Tokens returns the configured token repository, defaulting to PostgreSQL.
func (m *PostgresRepositoryManager) Tokens() tokens.Repository {
	if m.tokens != nil {
		return m.tokens
	}
	return tokens.NewPostgresRepository(m.q)
}

// Todos returns a todos.Repository bound to the manager's connection or transaction.
func (m *PostgresRepositoryManager) Todos() todos.Repository {
	return todos.NewPostgresRepository(m.q)
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{db: m.db, q: tx, tokens: m.tokens})
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
