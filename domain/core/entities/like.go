package entities

import (
	"time"

	"photoshare/domain/core/valueobjects"
)

// Like records that a user liked a photo. At most one exists per LikeKey.
type Like struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photoId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLike creates a like for the given key
func NewLike(key valueobjects.LikeKey) *Like {
	return &Like{
		ID:        valueobjects.NewID(),
		PhotoID:   key.PhotoID,
		UserID:    key.UserID,
		CreatedAt: time.Now().UTC(),
	}
}

// Key returns the composite key of the like
func (l *Like) Key() valueobjects.LikeKey {
	return valueobjects.LikeKey{PhotoID: l.PhotoID, UserID: l.UserID}
}
