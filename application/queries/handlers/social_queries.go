package handlers

import (
	"context"
	"fmt"

	"photoshare/application/ports"
	"photoshare/application/queries"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
)

// SocialQueryHandler serves likes and comments. These reads are not cached.
type SocialQueryHandler struct {
	likes    ports.LikeRepository
	comments ports.CommentRepository
}

// NewSocialQueryHandler creates a new handler for like and comment reads
func NewSocialQueryHandler(likes ports.LikeRepository, comments ports.CommentRepository) *SocialQueryHandler {
	return &SocialQueryHandler{likes: likes, comments: comments}
}

// GetLikes counts like records and checks the user's own like
func (h *SocialQueryHandler) GetLikes(ctx context.Context, q queries.GetLikesQuery) (queries.LikesResult, error) {
	if err := q.Validate(); err != nil {
		return queries.LikesResult{}, err
	}

	count, err := h.likes.CountByPhoto(ctx, q.PhotoID)
	if err != nil {
		return queries.LikesResult{}, fmt.Errorf("failed to count likes: %w", err)
	}

	result := queries.LikesResult{Count: count}
	if key, err := valueobjects.NewLikeKey(q.PhotoID, q.UserID); err == nil {
		liked, err := h.likes.Exists(ctx, key)
		if err != nil {
			return queries.LikesResult{}, fmt.Errorf("failed to check like: %w", err)
		}
		result.UserHasLiked = liked
	}
	return result, nil
}

// ListComments returns a photo's comments newest first
func (h *SocialQueryHandler) ListComments(ctx context.Context, q queries.ListCommentsQuery) ([]*entities.Comment, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	comments, err := h.comments.ListByPhoto(ctx, q.PhotoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []*entities.Comment{}
	}
	return comments, nil
}
