package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// PostgresRepository keeps tokens in the tokens table over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a token row keyed by the token hash.
func (r *PostgresRepository) Create(ctx context.Context, token, userID, purpose string) (*models.Token, error) {
	query := `
		INSERT INTO tokens (id, token_hash, purpose, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	record := &models.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: Hash(token),
		Purpose:   purpose,
	}
	if err := r.db.QueryRowContext(ctx, query, record.ID, record.TokenHash, record.Purpose, record.UserID).Scan(&record.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// FindByToken looks the token up by hash.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Token, error) {
	query := `
		SELECT id, token_hash, purpose, user_id, created_at
		FROM tokens
		WHERE token_hash = $1
	`
	record := &models.Token{}
	var userID sql.NullString
	if err := r.db.QueryRowContext(ctx, query, Hash(token)).Scan(&record.ID, &record.TokenHash, &record.Purpose, &userID, &record.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	record.UserID = userID.String
	return record, nil
}

// Destroy deletes the row by hash; zero affected rows is fine.
func (r *PostgresRepository) Destroy(ctx context.Context, record *models.Token) error {
	query := `
		DELETE FROM tokens
		WHERE token_hash = $1
	`
	if _, err := r.db.ExecContext(ctx, query, record.TokenHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
