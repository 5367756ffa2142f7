package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"photoshare/domain/config"
	"photoshare/domain/core/valueobjects"
	pkgerrors "photoshare/pkg/errors"
)

// User is a registered account. The password hash never leaves the backend.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the view of a user returned to clients
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// NewUser creates an account with a normalized email
func NewUser(email valueobjects.Email, name, passwordHash string, role valueobjects.Role, cfg *config.DomainConfig) (*User, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if email.IsZero() {
		return nil, pkgerrors.NewValidationError("email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > cfg.MaxNameLength {
		return nil, pkgerrors.NewValidationError("name is too long")
	}
	if passwordHash == "" {
		return nil, pkgerrors.NewValidationError("password is required")
	}

	return &User{
		ID:           valueobjects.NewID(),
		Email:        email.String(),
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role.String(),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Public returns the client facing view of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
