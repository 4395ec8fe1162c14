// Package tokens declares the token store contract and its PostgreSQL and
// Redis implementations. The store is the authority on token validity: a
// token is live exactly while its record exists.
package tokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Repository defines operations for persisting, retrieving and revoking
// issued tokens.
type Repository interface {
	// Create stores token for userID. A token that is already stored yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, token, userID, purpose string) (*models.Token, error)

	// FindByToken returns the record for token or common.ErrNotFound.
	FindByToken(ctx context.Context, token string) (*models.Token, error)

	// Destroy removes the record. Destroying an absent record is not an error.
	Destroy(ctx context.Context, record *models.Token) error
}

// Hash is the storage key of a token string: hex SHA-256. Raw token strings
// are never persisted.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
