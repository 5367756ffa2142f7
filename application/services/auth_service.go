package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photoshare/application/ports"
	"photoshare/domain/config"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
	"photoshare/domain/events"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// AuthService registers accounts and signs users in. It is called directly by
// the auth endpoints rather than through the command bus because sign-in
// returns a token instead of changing state.
type AuthService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	publisher ports.EventPublisher
	config    *config.DomainConfig
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *AuthService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
	}
}

// Credentials is the body of sign-up and sign-in requests
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// SignUpResult is returned after registration
type SignUpResult struct {
	Message string              `json:"message"`
	User    entities.PublicUser `json:"user"`
}

// SignInResult carries the session token
type SignInResult struct {
	Token   string              `json:"token"`
	Message string              `json:"message"`
	User    entities.PublicUser `json:"user"`
}

const invalidCredentials = "Invalid email or password."

func roleLabel(role valueobjects.Role) string {
	switch role {
	case valueobjects.RoleCreator:
		return "User (Creator)"
	case valueobjects.RoleConsumer:
		return "User (Consumer)"
	default:
		return "User"
	}
}

// SignUp registers an account with the given role. Emails are compared
// case-insensitively; a taken email is a conflict.
func (s *AuthService) SignUp(ctx context.Context, creds Credentials, role valueobjects.Role) (*SignUpResult, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" || strings.TrimSpace(creds.Name) == "" {
		return nil, pkgerrors.NewValidationError("Name, email, and password are required.")
	}
	email, err := valueobjects.NewEmail(creds.Email)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if len(creds.Password) < s.config.MinPasswordLength {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters.", s.config.MinPasswordLength))
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := entities.NewUser(email, creds.Name, hash, role, s.config)
	if err != nil {
		return nil, err
	}

	label := roleLabel(role)
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return nil, pkgerrors.NewConflictError(label + " with this email already exists.")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewUserRegistered(user.ID, user.Role, user.CreatedAt)); err != nil {
			s.logger.Warn("Failed to publish registration", zap.String("userID", user.ID), zap.Error(err))
		}
	}

	s.logger.Info("User registered", zap.String("userID", user.ID), zap.String("role", user.Role))
	return &SignUpResult{
		Message: label + " registered successfully",
		User:    user.Public(),
	}, nil
}

// SignIn verifies the password and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) SignIn(ctx context.Context, creds Credentials) (*SignInResult, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, pkgerrors.NewValidationError("Email and password are required.")
	}
	email, err := valueobjects.NewEmail(creds.Email)
	if err != nil {
		return nil, pkgerrors.NewValidationError(invalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, pkgerrors.NewValidationError(invalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !s.hasher.Verify(user.PasswordHash, creds.Password) {
		s.logger.Debug("Password mismatch", zap.String("userID", user.ID))
		return nil, pkgerrors.NewValidationError(invalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &SignInResult{
		Token:   token,
		Message: "Sign-in successful.",
		User:    user.Public(),
	}, nil
}
