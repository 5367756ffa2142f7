package commands

import (
	"strings"

	"photoshare/domain/core/valueobjects"
	pkgerrors "photoshare/pkg/errors"
)

// Caller is the identity a write is performed on behalf of. It comes from a
// verified token or from gateway-trusted headers and may be empty.
type Caller struct {
	UserID string
	Name   string
	Role   valueobjects.Role
}

// Authenticated reports whether a user id is present
func (c Caller) Authenticated() bool {
	return strings.TrimSpace(c.UserID) != ""
}

func requireCaller(c Caller) error {
	if !c.Authenticated() {
		return pkgerrors.NewUnauthorizedError("Not authenticated")
	}
	return nil
}

func requireID(id, message string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.NewValidationError(message)
	}
	return nil
}

// CreatePhotoCommand uploads an image and records its metadata
type CreatePhotoCommand struct {
	Caller      Caller
	Title       string
	Caption     string
	Location    string
	People      []string
	FileName    string
	ContentType string
	Image       []byte
}

// AuthorizeUpload checks that the caller is identified and may create photos
func AuthorizeUpload(c Caller) error {
	if err := requireCaller(c); err != nil {
		return err
	}
	if !c.Role.CanUpload() {
		return pkgerrors.NewForbiddenError("Only creators can upload photos")
	}
	return nil
}

// Validate checks identity first, then role, then the payload
func (c CreatePhotoCommand) Validate() error {
	if err := AuthorizeUpload(c.Caller); err != nil {
		return err
	}
	if len(c.Image) == 0 {
		return pkgerrors.NewValidationError("File is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return pkgerrors.NewValidationError("Image and title are required")
	}
	return nil
}

// DeletePhotoCommand removes a photo with everything attached to it
type DeletePhotoCommand struct {
	Caller  Caller
	PhotoID string
}

// Validate checks the id before the caller
func (c DeletePhotoCommand) Validate() error {
	if err := requireID(c.PhotoID, "Photo ID required"); err != nil {
		return err
	}
	return requireCaller(c.Caller)
}

// LikePhotoCommand records that a user likes a photo
type LikePhotoCommand struct {
	PhotoID string
	UserID  string
}

// Validate implements bus.Command
func (c LikePhotoCommand) Validate() error {
	if err := requireID(c.PhotoID, "Photo ID required"); err != nil {
		return err
	}
	return requireID(c.UserID, "User ID required")
}

// UnlikePhotoCommand withdraws a like
type UnlikePhotoCommand struct {
	PhotoID string
	UserID  string
}

// Validate implements bus.Command
func (c UnlikePhotoCommand) Validate() error {
	if err := requireID(c.PhotoID, "Photo ID required"); err != nil {
		return err
	}
	return requireID(c.UserID, "User ID required")
}

// LikeResult is the like count after a like or unlike
type LikeResult struct {
	Likes int64 `json:"likes"`
}

// CreateCommentCommand adds a comment to a photo. UserName and UserRole are
// whatever the client supplied; an empty name becomes the default author name.
type CreateCommentCommand struct {
	PhotoID  string
	UserID   string
	UserName string
	UserRole string
	Content  string
}

// Validate checks photo id, then user id, then content
func (c CreateCommentCommand) Validate() error {
	if err := requireID(c.PhotoID, "Photo ID required"); err != nil {
		return err
	}
	if strings.TrimSpace(c.UserID) == "" {
		return pkgerrors.NewUnauthorizedError("Not authenticated")
	}
	if strings.TrimSpace(c.Content) == "" {
		return pkgerrors.NewValidationError("Comment content required")
	}
	return nil
}

// DeleteCommentCommand removes a comment
type DeleteCommentCommand struct {
	Caller    Caller
	CommentID string
}

// Validate checks the id before the caller
func (c DeleteCommentCommand) Validate() error {
	if err := requireID(c.CommentID, "Comment ID required"); err != nil {
		return err
	}
	return requireCaller(c.Caller)
}
