// Package auth implements password hashing, bearer-token issuing and the
// per-request authentication gate.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/metrics"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Reason says why a request was rejected. It is logged and counted, never
// sent to the client.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoToken          Reason = "no_token"
	ReasonInvalidToken     Reason = "invalid_token"
	ReasonRevokedOrUnknown Reason = "revoked_or_unknown"
	ReasonOrphanedToken    Reason = "orphaned_token"
	ReasonStoreError       Reason = "store_error"
)

// TokenFinder looks up stored tokens. It returns common.ErrNotFound for
// unknown or destroyed tokens.
type TokenFinder interface {
	FindByToken(ctx context.Context, token string) (*models.Token, error)
}

// UserFinder loads principals by id, returning common.ErrNotFound if absent.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator resolves a presented token to a user. All state is re-derived
// from the store on every call.
type Authenticator struct {
	issuer *TokenIssuer
	tokens TokenFinder
	users  UserFinder
	logger logging.Logger
}

func NewAuthenticator(issuer *TokenIssuer, tokens TokenFinder, users UserFinder, logger logging.Logger) *Authenticator {
	return &Authenticator{
		issuer: issuer,
		tokens: tokens,
		users:  users,
		logger: logger.With("module", "auth"),
	}
}

// Authenticate runs the token checks in order: presence, signature, store
// record and purpose, owning principal. A non-empty Reason means rejection;
// err is set only for ReasonStoreError.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.User, *models.Token, Reason, error) {
	if token == "" {
		return nil, nil, ReasonNoToken, nil
	}

	payload, err := a.issuer.Decode(token)
	if err != nil {
		return nil, nil, ReasonInvalidToken, nil
	}
	if payload.Purpose != common.PurposeAuthentication {
		return nil, nil, ReasonInvalidToken, nil
	}

	record, err := a.tokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, ReasonRevokedOrUnknown, nil
		}
		return nil, nil, ReasonStoreError, err
	}
	if record.Purpose != common.PurposeAuthentication || record.UserID != payload.PrincipalID {
		return nil, nil, ReasonRevokedOrUnknown, nil
	}

	user, err := a.users.GetByID(ctx, payload.PrincipalID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, ReasonOrphanedToken, nil
		}
		return nil, nil, ReasonStoreError, err
	}

	return user, record, ReasonNone, nil
}

// RequireAuth returns middleware that attaches the authenticated user and
// token record to the context. Every rejection answers 401 with an empty
// body; a failing store answers 500.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, record, reason, err := a.Authenticate(ctx, extractToken(c.Request))
		if reason != ReasonNone {
			metrics.AuthRejectionsTotal.WithLabelValues(string(reason)).Inc()
			if err != nil {
				a.logger.Error(ctx, "token lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR"})
				return
			}
			a.logger.Info(ctx, "request rejected", "reason", string(reason), "path", c.FullPath())
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, record)
		c.Next()
	}
}

// extractToken reads the Auth header, falling back to "Authorization: Bearer".
func extractToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(common.AuthHeaderName)); v != "" {
		return v
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
