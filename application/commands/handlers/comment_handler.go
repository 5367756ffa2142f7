package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photoshare/application/commands"
	"photoshare/application/ports"
	"photoshare/domain/config"
	"photoshare/domain/core/entities"
	"photoshare/domain/events"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// CommentHandler handles comment creation and deletion
type CommentHandler struct {
	comments  ports.CommentRepository
	photos    ports.PhotoRepository
	publisher ports.EventPublisher
	config    *config.DomainConfig
	logger    *zap.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(
	comments ports.CommentRepository,
	photos ports.PhotoRepository,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CommentHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &CommentHandler{
		comments:  comments,
		photos:    photos,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
	}
}

// CreateComment adds a comment to an existing photo
func (h *CommentHandler) CreateComment(ctx context.Context, cmd commands.CreateCommentCommand) (*entities.Comment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.photos.GetByID(ctx, cmd.PhotoID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("Photo")
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	comment, err := entities.NewComment(cmd.PhotoID, entities.Author{
		ID:   cmd.UserID,
		Name: cmd.UserName,
		Role: cmd.UserRole,
	}, cmd.Content, h.config)
	if err != nil {
		return nil, err
	}

	if err := h.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	publish(ctx, h.publisher, h.logger,
		events.NewCommentCreated(comment.ID, comment.PhotoID, comment.UserID, comment.CreatedAt))
	return comment, nil
}

// DeleteComment removes a comment written by the caller, or any comment for admins
func (h *CommentHandler) DeleteComment(ctx context.Context, cmd commands.DeleteCommentCommand) (struct{}, error) {
	if err := cmd.Validate(); err != nil {
		return struct{}{}, err
	}

	comment, err := h.comments.GetByID(ctx, cmd.CommentID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return struct{}{}, pkgerrors.NewNotFoundError("Comment")
		}
		return struct{}{}, fmt.Errorf("failed to get comment: %w", err)
	}
	if !comment.CanBeDeletedBy(cmd.Caller.UserID, cmd.Caller.Role) {
		return struct{}{}, pkgerrors.NewForbiddenError("Not authorized to delete this comment")
	}

	if err := h.comments.Delete(ctx, comment.Key()); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return struct{}{}, pkgerrors.NewNotFoundError("Comment")
		}
		return struct{}{}, fmt.Errorf("failed to delete comment: %w", err)
	}

	publish(ctx, h.publisher, h.logger,
		events.NewCommentDeleted(comment.ID, comment.PhotoID, cmd.Caller.UserID, time.Now().UTC()))
	return struct{}{}, nil
}
