package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"photoshare/application/caching"
	"photoshare/application/commands"
	"photoshare/application/ports"
	"photoshare/domain/config"
	"photoshare/domain/core/entities"
	"photoshare/domain/events"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// PhotoHandler handles photo upload and deletion
type PhotoHandler struct {
	photos      ports.PhotoRepository
	blobs       ports.BlobStore
	thumbnailer ports.Thumbnailer
	cache       *caching.Scheme
	publisher   ports.EventPublisher
	config      *config.DomainConfig
	logger      *zap.Logger
}

// NewPhotoHandler creates a new photo handler. thumbnailer may be nil.
func NewPhotoHandler(
	photos ports.PhotoRepository,
	blobs ports.BlobStore,
	thumbnailer ports.Thumbnailer,
	cache *caching.Scheme,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *PhotoHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PhotoHandler{
		photos:      photos,
		blobs:       blobs,
		thumbnailer: thumbnailer,
		cache:       cache,
		publisher:   publisher,
		config:      cfg,
		logger:      logger,
	}
}

// CreatePhoto stores the image, records the photo and retires every cached
// listing page.
func (h *PhotoHandler) CreatePhoto(ctx context.Context, cmd commands.CreatePhotoCommand) (*entities.Photo, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if int64(len(cmd.Image)) > h.config.MaxUploadBytes {
		return nil, pkgerrors.NewValidationError("File is too large")
	}
	contentType := http.DetectContentType(cmd.Image)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, pkgerrors.NewValidationError("File must be an image")
	}

	photo, err := entities.NewPhoto(
		entities.Creator{ID: cmd.Caller.UserID, Name: cmd.Caller.Name, Role: cmd.Caller.Role},
		entities.PhotoDetails{
			Title:    cmd.Title,
			Caption:  cmd.Caption,
			Location: cmd.Location,
			People:   cmd.People,
		},
		h.config,
	)
	if err != nil {
		return nil, err
	}

	imageKey := "photos/" + photo.ID + extension(cmd.FileName, contentType)
	image, err := h.blobs.Upload(ctx, imageKey, bytes.NewReader(cmd.Image), int64(len(cmd.Image)), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	uploaded := []string{image.Key}

	var thumbnailURL string
	if thumb, ok := h.thumbnail(ctx, photo.ID, cmd.Image); ok {
		thumbnailURL = thumb.URL
		uploaded = append(uploaded, thumb.Key)
	}
	photo.AttachImage(image.URL, thumbnailURL)

	if err := h.photos.Save(ctx, photo); err != nil {
		h.removeBlobs(ctx, uploaded...)
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	h.cache.BumpGeneration(ctx, caching.CollectionPhotos)
	publish(ctx, h.publisher, h.logger,
		events.NewPhotoCreated(photo.ID, photo.CreatorID, photo.Title, photo.ImageURL, photo.CreatedAt))

	h.logger.Info("Photo created",
		zap.String("photoID", photo.ID),
		zap.String("creatorID", photo.CreatorID),
		zap.Int("bytes", len(cmd.Image)),
	)
	return photo, nil
}

func (h *PhotoHandler) thumbnail(ctx context.Context, photoID string, image []byte) (ports.Blob, bool) {
	if h.thumbnailer == nil || !h.config.EnableThumbnails {
		return ports.Blob{}, false
	}
	data, err := h.thumbnailer.Thumbnail(image)
	if err != nil {
		h.logger.Warn("Thumbnail generation failed", zap.String("photoID", photoID), zap.Error(err))
		return ports.Blob{}, false
	}
	blob, err := h.blobs.Upload(ctx, "thumbnails/"+photoID+".jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg")
	if err != nil {
		h.logger.Warn("Thumbnail upload failed", zap.String("photoID", photoID), zap.Error(err))
		return ports.Blob{}, false
	}
	return blob, true
}

// DeletePhoto removes the photo, its likes and comments, and its blobs
func (h *PhotoHandler) DeletePhoto(ctx context.Context, cmd commands.DeletePhotoCommand) (struct{}, error) {
	if err := cmd.Validate(); err != nil {
		return struct{}{}, err
	}

	photo, err := h.photos.GetByID(ctx, cmd.PhotoID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return struct{}{}, pkgerrors.NewNotFoundError("Photo")
		}
		return struct{}{}, fmt.Errorf("failed to get photo: %w", err)
	}
	if !photo.CanBeDeletedBy(cmd.Caller.UserID, cmd.Caller.Role) {
		return struct{}{}, pkgerrors.NewForbiddenError("Not authorized to delete this photo")
	}

	// Blob removal never blocks the record removal
	var keys []string
	for _, url := range []string{photo.ImageURL, photo.ThumbnailURL} {
		if url == "" {
			continue
		}
		if key, ok := h.blobs.KeyFromURL(url); ok {
			keys = append(keys, key)
		}
	}
	h.removeBlobs(ctx, keys...)

	if err := h.photos.Delete(ctx, photo.ID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return struct{}{}, pkgerrors.NewNotFoundError("Photo")
		}
		return struct{}{}, fmt.Errorf("failed to delete photo: %w", err)
	}

	h.cache.PointInvalidate(ctx, caching.PhotoKey(photo.ID))
	h.cache.BumpGeneration(ctx, caching.CollectionPhotos)
	publish(ctx, h.publisher, h.logger, events.NewPhotoDeleted(photo.ID, cmd.Caller.UserID, time.Now().UTC()))

	h.logger.Info("Photo deleted",
		zap.String("photoID", photo.ID),
		zap.String("deletedBy", cmd.Caller.UserID),
	)
	return struct{}{}, nil
}

func (h *PhotoHandler) removeBlobs(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := h.blobs.Delete(ctx, key); err != nil {
			h.logger.Warn("Failed to delete blob", zap.String("key", key), zap.Error(err))
		}
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// extension picks the stored file extension, preferring the uploaded name
func extension(fileName, contentType string) string {
	if ext := strings.ToLower(path.Ext(fileName)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if ext, ok := imageExtensions[contentType]; ok {
		return ext
	}
	return ""
}

// publish sends an event after a committed write. Delivery is best effort.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}
