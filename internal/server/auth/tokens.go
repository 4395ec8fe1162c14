package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/todoapi/internal/common"
)

// MinSecretLength is the shortest signing secret accepted at startup.
const MinSecretLength = 32

// Claims is the signed payload of a bearer token: the registered claims
// (sub, iat, jti and an optional exp) plus the token purpose.
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// Payload is what Decode recovers from a token string.
type Payload struct {
	PrincipalID string
	Purpose     string
	IssuedAt    time.Time
}

// TokenIssuer signs and verifies bearer tokens with an HMAC secret that is
// fixed for the lifetime of the process.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer copies secret and returns an issuer. A missing or short
// secret wraps common.ErrConfiguration. A positive ttl adds an exp claim; zero
// means tokens live until revoked.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: signing secret must be at least %d bytes", common.ErrConfiguration, MinSecretLength)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("%w: negative token ttl", common.ErrConfiguration)
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Generate returns a signed token for principalID. Every call embeds a
// random jti, so two tokens are never equal.
func (i *TokenIssuer) Generate(principalID, purpose string) (string, error) {
	if principalID == "" || purpose == "" {
		return "", errors.New("principal id and purpose are required")
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  principalID,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		Purpose: purpose,
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Decode verifies the signature and structure of tokenString. It never
// consults a store. Any failure is reported as common.ErrInvalidToken.
func (i *TokenIssuer) Decode(tokenString string) (*Payload, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Purpose == "" {
		return nil, common.ErrInvalidToken
	}

	p := &Payload{PrincipalID: claims.Subject, Purpose: claims.Purpose}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	return p, nil
}
