package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var _ RepositoryManager = NewPostgresRepositoryManager(db)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)

	if _, ok := m.Users().(*users.PostgresRepository); !ok {
		t.Fatalf("Users() = %T", m.Users())
	}
	if _, ok := m.Tokens().(*tokens.PostgresRepository); !ok {
		t.Fatalf("Tokens() = %T", m.Tokens())
	}
	if _, ok := m.Todos().(*todos.PostgresRepository); !ok {
		t.Fatalf("Todos() = %T", m.Todos())
	}
}

func TestWithTokenRepository_Overrides(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	override := tokens.NewRedisRepository(nil, 0)
	m := NewPostgresRepositoryManager(db, WithTokenRepository(override))

	if m.Tokens() != tokens.Repository(override) {
		t.Fatalf("expected override token repository, got %T", m.Tokens())
	}
}

func TestWithTx_CommitAndOverridePropagates(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	override := tokens.NewRedisRepository(nil, 0)
	m := NewPostgresRepositoryManager(db, WithTokenRepository(override))

	err := m.WithTx(context.Background(), func(ctx context.Context, txm RepositoryManager) error {
		if txm.Tokens() != tokens.Repository(override) {
			t.Errorf("override lost inside tx")
		}
		if txm == RepositoryManager(m) {
			t.Errorf("expected a tx-bound manager")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewPostgresRepositoryManager(db).WithTx(context.Background(), func(context.Context, RepositoryManager) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	if err := NewPostgresRepositoryManager(db).RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	if err := NewPostgresRepositoryManager(db).RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
