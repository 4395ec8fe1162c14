package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

const selectColumns = `SELECT id, description, completed, user_id, created_at, updated_at FROM todos`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {

	query :=
		`INSERT INTO todos (id, description, completed, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Description, todo.Completed, todo.UserID).Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter models.TodoFilter) ([]models.Todo, error) {
	var sb strings.Builder
	sb.WriteString(selectColumns)
	sb.WriteString(` WHERE user_id = $1`)
	args := []any{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		sb.WriteString(` AND completed = $` + strconv.Itoa(len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		sb.WriteString(` AND description ILIKE $` + strconv.Itoa(len(args)) + ` ESCAPE '\'`)
	}
	sb.WriteString(` ORDER BY created_at, id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	query := selectColumns + `
		 WHERE id = $1 AND user_id = $2
		 `
	return r.getOne(ctx, query, id, ownerID)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	query := selectColumns + `
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE
		 `
	return r.getOne(ctx, query, id, ownerID)
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {

	query :=
		`UPDATE todos SET description = $1, completed = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.Description, todo.Completed, todo.ID, todo.UserID).Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {

	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Todo, error) {
	t := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&t.ID, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

// escapeLike makes the LIKE metacharacters in s match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
