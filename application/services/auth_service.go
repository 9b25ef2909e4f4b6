package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"meetsync/application/ports"
	"meetsync/domain/core/entities"
	"meetsync/pkg/auth"
	pkgerrors "meetsync/pkg/errors"
)

// AuthService handles registration, login, and principal lookup. It sits
// in front of the store as the identity-issuance collaborator; the rest of
// the system only ever sees the principal identifier it yields.
type AuthService struct {
	users  ports.UserRepository
	tokens *auth.JWTService
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates an auth service
func NewAuthService(users ports.UserRepository, tokens *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult carries a freshly issued token and the principal record
type AuthResult struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

// Register creates a new principal. The email claim is an atomic
// insert-if-absent in the store, so concurrent registrations for the same
// address produce exactly one record.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResult{}, pkgerrors.NewValidationError("password is required")
	}

	user, err := entities.NewUser(name, email, hash, s.now())
	if err != nil {
		return AuthResult{}, err
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, ports.ErrEmailTaken) {
		return AuthResult{}, pkgerrors.NewConflictError("email already registered")
	}
	if err != nil {
		return AuthResult{}, pkgerrors.NewInternalError("failed to store user", err)
	}

	token, err := s.tokens.IssueToken(created.ID, created.Name, created.Email)
	if err != nil {
		return AuthResult{}, pkgerrors.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user registered", zap.Int64("userID", created.ID))
	return AuthResult{Token: token, User: created}, nil
}

// Login verifies the credentials and issues a token. Unknown email and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return AuthResult{}, pkgerrors.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return AuthResult{}, err
	}

	if !auth.ComparePassword(password, user.PasswordHash) {
		return AuthResult{}, pkgerrors.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.tokens.IssueToken(user.ID, user.Name, user.Email)
	if err != nil {
		return AuthResult{}, pkgerrors.NewInternalError("failed to issue token", err)
	}

	return AuthResult{Token: token, User: user}, nil
}

// Me returns the principal record for an authenticated caller
func (s *AuthService) Me(ctx context.Context, userID int64) (entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return entities.User{}, pkgerrors.NewNotFoundError("user")
	}
	return user, err
}
