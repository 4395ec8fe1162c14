package models

import "time"

// Token is the stored record of an issued bearer token. Its presence in the
// store is what makes the token valid; only the SHA-256 of the token string
// is kept.
type Token struct {
	ID        string
	UserID    string
	TokenHash string
	Purpose   string
	CreatedAt time.Time
}
