package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"photoshare/domain/config"
	"photoshare/domain/core/valueobjects"
	pkgerrors "photoshare/pkg/errors"
)

// Comment is a short text left by a user on a photo
type Comment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photoId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserRole  string    `json:"userRole,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author identifies who writes a comment
type Author struct {
	ID   string
	Name string
	Role string
}

// NewComment creates a comment with trimmed content
func NewComment(photoID string, author Author, content string, cfg *config.DomainConfig) (*Comment, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	photoID = strings.TrimSpace(photoID)
	if photoID == "" {
		return nil, pkgerrors.NewValidationError("photo ID is required")
	}
	if strings.TrimSpace(author.ID) == "" {
		return nil, pkgerrors.NewUnauthorizedError("user ID is required")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.NewValidationError("comment content is required")
	}
	if utf8.RuneCountInString(content) > cfg.MaxCommentLength {
		return nil, pkgerrors.NewValidationError("comment is too long")
	}

	name := strings.TrimSpace(author.Name)
	if name == "" {
		name = cfg.DefaultUserName
	}

	return &Comment{
		ID:        valueobjects.NewID(),
		PhotoID:   photoID,
		UserID:    author.ID,
		UserName:  name,
		UserRole:  author.Role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Key returns the composite key of the comment
func (c *Comment) Key() valueobjects.CommentKey {
	return valueobjects.CommentKey{PhotoID: c.PhotoID, CommentID: c.ID}
}

// CanBeDeletedBy reports whether the caller wrote the comment or is an admin
func (c *Comment) CanBeDeletedBy(userID string, role valueobjects.Role) bool {
	return role.IsAdmin() || (userID != "" && userID == c.UserID)
}
