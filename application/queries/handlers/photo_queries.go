package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photoshare/application/caching"
	"photoshare/application/ports"
	"photoshare/application/queries"
	"photoshare/domain/core/entities"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// CachePolicy sets how long read-through entries live
type CachePolicy struct {
	PhotoTTL time.Duration
	ListTTL  time.Duration
}

// DefaultCachePolicy returns the standard lifetimes
func DefaultCachePolicy() CachePolicy {
	return CachePolicy{PhotoTTL: caching.PhotoTTL, ListTTL: caching.PhotoListTTL}
}

// PhotoQueryHandler serves photo reads through the cache
type PhotoQueryHandler struct {
	photos ports.PhotoRepository
	cache  *caching.Scheme
	policy CachePolicy
	logger *zap.Logger
}

// NewPhotoQueryHandler creates a new photo query handler
func NewPhotoQueryHandler(photos ports.PhotoRepository, cache *caching.Scheme, policy CachePolicy, logger *zap.Logger) *PhotoQueryHandler {
	if policy.PhotoTTL <= 0 {
		policy.PhotoTTL = caching.PhotoTTL
	}
	if policy.ListTTL <= 0 {
		policy.ListTTL = caching.PhotoListTTL
	}
	return &PhotoQueryHandler{
		photos: photos,
		cache:  cache,
		policy: policy,
		logger: logger,
	}
}

// ListPhotos returns one page of photos. Pages are cached under the current
// listing generation, so any upload or deletion retires them all at once.
func (h *PhotoQueryHandler) ListPhotos(ctx context.Context, q queries.ListPhotosQuery) ([]*entities.Photo, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit < 0 {
		limit = 0
	}

	generation := h.cache.CurrentGeneration(ctx, caching.CollectionPhotos)
	key := caching.PhotoListKey(generation, q.Page, limit)

	return caching.ReadThrough(ctx, h.cache, key, h.policy.ListTTL, func(ctx context.Context) ([]*entities.Photo, error) {
		photos, err := h.photos.List(ctx, q.Offset(), limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list photos: %w", err)
		}
		if photos == nil {
			photos = []*entities.Photo{}
		}
		h.logger.Debug("Loaded photo page from store",
			zap.Int("page", q.Page),
			zap.Int("limit", limit),
			zap.Int("count", len(photos)),
			zap.Int64("generation", generation),
		)
		return photos, nil
	})
}

// GetPhoto returns a single photo. Absent photos are not cached.
func (h *PhotoQueryHandler) GetPhoto(ctx context.Context, q queries.GetPhotoQuery) (*entities.Photo, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return caching.ReadThrough(ctx, h.cache, caching.PhotoKey(q.PhotoID), h.policy.PhotoTTL, func(ctx context.Context) (*entities.Photo, error) {
		return h.load(ctx, q.PhotoID)
	})
}

// GetPhotoLikes returns the like summary straight from the store
func (h *PhotoQueryHandler) GetPhotoLikes(ctx context.Context, q queries.GetPhotoLikesQuery) (queries.PhotoLikesResult, error) {
	if err := q.Validate(); err != nil {
		return queries.PhotoLikesResult{}, err
	}
	photo, err := h.load(ctx, q.PhotoID)
	if err != nil {
		return queries.PhotoLikesResult{}, err
	}
	return queries.PhotoLikesResult{
		ID:       photo.ID,
		ImageURL: photo.ImageURL,
		Title:    photo.Title,
		Likes:    photo.Likes,
	}, nil
}

func (h *PhotoQueryHandler) load(ctx context.Context, id string) (*entities.Photo, error) {
	photo, err := h.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("Photo")
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}
