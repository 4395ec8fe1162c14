package tokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+tokens\s*\(id,\s*token_hash,\s*purpose,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`
	findQ   = `(?s)^SELECT\s+id,\s*token_hash,\s*purpose,\s*user_id,\s*created_at\s+FROM\s+tokens\s+WHERE\s+token_hash\s*=\s*\$1\s*$`
	deleteQ = `(?s)^DELETE\s+FROM\s+tokens\s+WHERE\s+token_hash\s*=\s*\$1\s*$`
)

func TestHash_StableAndOpaque(t *testing.T) {
	a := Hash("tok123")
	if a != Hash("tok123") {
		t.Fatalf("hash must be deterministic")
	}
	if a == Hash("tok124") {
		t.Fatalf("different tokens must hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), Hash("tok123"), common.PurposeAuthentication, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	rec, err := repo.Create(context.Background(), "tok123", "u1", common.PurposeAuthentication)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" || rec.UserID != "u1" || rec.TokenHash != Hash("tok123") || !rec.CreatedAt.Equal(now) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_Conflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), Hash("tok123"), common.PurposeAuthentication, "u1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "tok123", "u1", common.PurposeAuthentication)
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want common.ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), Hash("tok123"), common.PurposeAuthentication, "u1").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "tok123", "u1", common.PurposeAuthentication)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "token_hash", "purpose", "user_id", "created_at"}).
		AddRow("t1", Hash("tok123"), common.PurposeAuthentication, "u1", time.Now())
	mock.ExpectQuery(findQ).WithArgs(Hash("tok123")).WillReturnRows(rows)

	got, err := repo.FindByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "t1" || got.UserID != "u1" || got.Purpose != common.PurposeAuthentication {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindByToken_NullUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "token_hash", "purpose", "user_id", "created_at"}).
		AddRow("t1", Hash("tok123"), common.PurposeAuthentication, nil, time.Now())
	mock.ExpectQuery(findQ).WithArgs(Hash("tok123")).WillReturnRows(rows)

	got, err := repo.FindByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "" {
		t.Fatalf("expected empty user id, got %q", got.UserID)
	}
}

func TestFindByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).WithArgs(Hash("missing")).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByToken(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDestroy_Idempotent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rec := &models.Token{TokenHash: Hash("tok123")}
	mock.ExpectExec(deleteQ).WithArgs(rec.TokenHash).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs(rec.TokenHash).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Destroy(context.Background(), rec); err != nil {
		t.Fatalf("first destroy: %v", err)
	}
	if err := repo.Destroy(context.Background(), rec); err != nil {
		t.Fatalf("second destroy must not fail: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDestroy_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs(Hash("tok123")).WillReturnError(errors.New("db err"))

	err := repo.Destroy(context.Background(), &models.Token{TokenHash: Hash("tok123")})
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
