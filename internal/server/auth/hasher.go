package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/todoapi/internal/common"
)

const (
	// DefaultHashCost is the bcrypt cost used when none is configured.
	DefaultHashCost = bcrypt.DefaultCost
	// MaxHashCost bounds the time one Hash/Verify call may block a request.
	MaxHashCost = 14
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher is a PasswordHasher backed by bcrypt. The cost is fixed at
// construction and safe for concurrent use.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher validates cost and returns a hasher. A cost outside
// [bcrypt.MinCost, MaxHashCost] is a startup error wrapping common.ErrConfiguration.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > MaxHashCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d outside [%d, %d]", common.ErrConfiguration, cost, bcrypt.MinCost, MaxHashCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash returns a salted bcrypt hash. bcrypt draws a fresh salt per call, so
// hashing the same password twice yields different strings.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. Mismatches and malformed
// hashes both yield false.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plaintext)) == nil
}

// prehash keeps the bcrypt input at 44 bytes: bcrypt ignores everything past
// 72 bytes and passwords may be up to 100 characters long.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
