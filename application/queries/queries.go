package queries

import (
	"math"
	"strings"

	pkgerrors "photoshare/pkg/errors"
)

// ListPhotosQuery asks for one page of photos, newest first. A Limit of zero
// or less asks for every photo.
type ListPhotosQuery struct {
	Page  int
	Limit int
}

// Validate validates the ListPhotosQuery
func (q ListPhotosQuery) Validate() error {
	if q.Page < 1 {
		return pkgerrors.NewValidationError("page must be a positive integer")
	}
	if q.Limit > 0 && q.Page-1 > math.MaxInt/q.Limit {
		return pkgerrors.NewValidationError("page is out of range")
	}
	return nil
}

// Offset is the number of photos skipped before the page starts
func (q ListPhotosQuery) Offset() int {
	if q.Limit <= 0 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// GetPhotoQuery asks for a single photo
type GetPhotoQuery struct {
	PhotoID string
}

// Validate validates the GetPhotoQuery
func (q GetPhotoQuery) Validate() error {
	return requirePhotoID(q.PhotoID)
}

// GetPhotoLikesQuery asks for the like summary of a photo
type GetPhotoLikesQuery struct {
	PhotoID string
}

// Validate validates the GetPhotoLikesQuery
func (q GetPhotoLikesQuery) Validate() error {
	return requirePhotoID(q.PhotoID)
}

// PhotoLikesResult is the like summary of a photo
type PhotoLikesResult struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
	Title    string `json:"title"`
	Likes    int64  `json:"likes"`
}

// GetLikesQuery asks how many users like a photo and whether UserID is one
// of them. UserID may be empty.
type GetLikesQuery struct {
	PhotoID string
	UserID  string
}

// Validate validates the GetLikesQuery
func (q GetLikesQuery) Validate() error {
	return requirePhotoID(q.PhotoID)
}

// LikesResult is the like count and the caller's like status
type LikesResult struct {
	Count        int64 `json:"count"`
	UserHasLiked bool  `json:"userHasLiked"`
}

// ListCommentsQuery asks for the comments of a photo, newest first
type ListCommentsQuery struct {
	PhotoID string
}

// Validate validates the ListCommentsQuery
func (q ListCommentsQuery) Validate() error {
	return requirePhotoID(q.PhotoID)
}

func requirePhotoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.NewValidationError("Photo ID required")
	}
	return nil
}
