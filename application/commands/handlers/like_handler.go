package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photoshare/application/caching"
	"photoshare/application/commands"
	"photoshare/application/ports"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
	"photoshare/domain/events"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// LikeHandler handles likes and unlikes. The store changes the like record
// and the counter together, so the count returned is exact under concurrency.
type LikeHandler struct {
	likes     ports.LikeRepository
	photos    ports.PhotoRepository
	cache     *caching.Scheme
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(
	likes ports.LikeRepository,
	photos ports.PhotoRepository,
	cache *caching.Scheme,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *LikeHandler {
	return &LikeHandler{
		likes:     likes,
		photos:    photos,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// LikePhoto records the like. Liking twice is not an error and leaves the
// count unchanged.
func (h *LikeHandler) LikePhoto(ctx context.Context, cmd commands.LikePhotoCommand) (commands.LikeResult, error) {
	if err := cmd.Validate(); err != nil {
		return commands.LikeResult{}, err
	}
	key, err := valueobjects.NewLikeKey(cmd.PhotoID, cmd.UserID)
	if err != nil {
		return commands.LikeResult{}, pkgerrors.NewValidationError(err.Error())
	}

	count, err := h.likes.Add(ctx, entities.NewLike(key))
	switch {
	case errors.Is(err, ports.ErrAlreadyExists):
		h.logger.Debug("Photo already liked", zap.String("like", key.String()))
		return commands.LikeResult{Likes: count}, nil
	case errors.Is(err, ports.ErrNotFound):
		return commands.LikeResult{}, pkgerrors.NewNotFoundError("Photo")
	case err != nil:
		return commands.LikeResult{}, fmt.Errorf("failed to like photo: %w", err)
	}

	// Listing pages keep the old count until their ttl runs out
	h.cache.PointInvalidate(ctx, caching.PhotoKey(key.PhotoID))
	publish(ctx, h.publisher, h.logger, events.NewPhotoLiked(key.PhotoID, key.UserID, count, time.Now().UTC()))

	return commands.LikeResult{Likes: count}, nil
}

// UnlikePhoto removes the like. Unliking a photo the user never liked
// returns the current count.
func (h *LikeHandler) UnlikePhoto(ctx context.Context, cmd commands.UnlikePhotoCommand) (commands.LikeResult, error) {
	if err := cmd.Validate(); err != nil {
		return commands.LikeResult{}, err
	}
	key, err := valueobjects.NewLikeKey(cmd.PhotoID, cmd.UserID)
	if err != nil {
		return commands.LikeResult{}, pkgerrors.NewValidationError(err.Error())
	}

	count, err := h.likes.Remove(ctx, key)
	if errors.Is(err, ports.ErrNotFound) {
		// Either the photo or the like is missing; only the former is an error
		photo, getErr := h.photos.GetByID(ctx, key.PhotoID)
		if errors.Is(getErr, ports.ErrNotFound) {
			return commands.LikeResult{}, pkgerrors.NewNotFoundError("Photo")
		}
		if getErr != nil {
			return commands.LikeResult{}, fmt.Errorf("failed to get photo: %w", getErr)
		}
		return commands.LikeResult{Likes: photo.Likes}, nil
	}
	if err != nil {
		return commands.LikeResult{}, fmt.Errorf("failed to unlike photo: %w", err)
	}

	h.cache.PointInvalidate(ctx, caching.PhotoKey(key.PhotoID))
	publish(ctx, h.publisher, h.logger, events.NewPhotoUnliked(key.PhotoID, key.UserID, count, time.Now().UTC()))

	return commands.LikeResult{Likes: count}, nil
}
