package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier for photos, comments, likes and users.
func NewID() string {
	return uuid.New().String()
}

// CommentKey identifies a comment within the partition of the photo it belongs to.
type CommentKey struct {
	PhotoID   string
	CommentID string
}

// NewCommentKey creates a CommentKey, rejecting empty parts
func NewCommentKey(photoID, commentID string) (CommentKey, error) {
	photoID = strings.TrimSpace(photoID)
	commentID = strings.TrimSpace(commentID)
	if photoID == "" {
		return CommentKey{}, errors.New("photo ID cannot be empty")
	}
	if commentID == "" {
		return CommentKey{}, errors.New("comment ID cannot be empty")
	}
	return CommentKey{PhotoID: photoID, CommentID: commentID}, nil
}

// String returns a printable form of the key
func (k CommentKey) String() string {
	return k.PhotoID + "/" + k.CommentID
}

// LikeKey identifies a like. A user can like a given photo at most once,
// so the pair is unique across the store.
type LikeKey struct {
	PhotoID string
	UserID  string
}

// NewLikeKey creates a LikeKey, rejecting empty parts
func NewLikeKey(photoID, userID string) (LikeKey, error) {
	photoID = strings.TrimSpace(photoID)
	userID = strings.TrimSpace(userID)
	if photoID == "" {
		return LikeKey{}, errors.New("photo ID cannot be empty")
	}
	if userID == "" {
		return LikeKey{}, errors.New("user ID cannot be empty")
	}
	return LikeKey{PhotoID: photoID, UserID: userID}, nil
}

// String returns a printable form of the key
func (k LikeKey) String() string {
	return k.PhotoID + "/" + k.UserID
}
