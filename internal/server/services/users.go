// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and logout on top of the
// password hasher, the token issuer and the token store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/metrics"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
)

// Password length bounds, counted in characters.
const (
	MinPasswordLength = 7
	MaxPasswordLength = 100
)

// TokenGenerator mints bearer token strings.
type TokenGenerator interface {
	Generate(principalID, purpose string) (string, error)
}

// UserService provides authentication-related operations:
// - Register: validate credentials and create users
// - Login: verify credentials, mint a token and store it
// - Logout: revoke the presented token
type UserService struct {
	repos     repomanager.RepositoryManager
	hasher    auth.PasswordHasher
	issuer    TokenGenerator
	validate  *validator.Validate
	logger    logging.Logger
	dummyHash string
}

// NewUserService constructs a UserService. It hashes a throwaway password
// once so that logins for unknown emails cost the same as real ones.
func NewUserService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, issuer TokenGenerator, logger logging.Logger) (*UserService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return &UserService{
		repos:     m,
		hasher:    hasher,
		issuer:    issuer,
		validate:  validator.New(),
		logger:    logger.With("module", "users"),
		dummyHash: dummy,
	}, nil
}

// Register validates the credentials and stores a new user with a lowercase
// email. A taken email yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := s.validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	u, err := s.repos.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the credentials and returns the user together with a newly
// issued and stored token. Any credential mismatch is common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)

	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", common.ErrUnauthorized
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", common.ErrUnauthorized
	}

	token, err := s.issuer.Generate(user.ID, common.PurposeAuthentication)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("%w: generate token: %v", common.ErrInternal, err)
	}

	if _, err := s.repos.Tokens().Create(ctx, token, user.ID, common.PurposeAuthentication); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, "", fmt.Errorf("%w: token collision", common.ErrInternal)
		}
		return nil, "", fmt.Errorf("error storing token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	return user, token, nil
}

// Logout destroys the token record attached by the authentication middleware.
func (s *UserService) Logout(ctx context.Context, record *models.Token) error {
	if record == nil {
		return common.ErrUnauthorized
	}
	if err := s.repos.Tokens().Destroy(ctx, record); err != nil {
		return fmt.Errorf("error destroying token: %w", err)
	}
	s.logger.Info(ctx, "logout", "user_id", record.UserID)
	return nil
}

func (s *UserService) validateCredentials(email, password string) error {
	if email == "" {
		return common.NewValidationError("email", "is required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return common.NewValidationError("email", "must be a valid email address")
	}
	if n := utf8.RuneCountInString(password); n < MinPasswordLength || n > MaxPasswordLength {
		return common.NewValidationError("password",
			fmt.Sprintf("must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
