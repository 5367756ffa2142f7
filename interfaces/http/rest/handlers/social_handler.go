package handlers

import (
	"net/http"
	"strings"

	"photoshare/application/commands"
	"photoshare/application/commands/bus"
	"photoshare/application/queries"
	querybus "photoshare/application/queries/bus"
	"photoshare/pkg/common"
	pkgerrors "photoshare/pkg/errors"
	"photoshare/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SocialHandler handles likes and comments
type SocialHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *SocialHandler {
	return &SocialHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		logger:     logger,
	}
}

// LikeRequest is the body of like and unlike requests. UserID defaults to the caller.
type LikeRequest struct {
	PhotoID string `json:"photoId" validate:"omitempty,max=128,printascii"`
	UserID  string `json:"userId,omitempty" validate:"omitempty,max=128,printascii"`
}

// CreateCommentRequest is the body of POST /comment
type CreateCommentRequest struct {
	PhotoID  string `json:"photoId" validate:"omitempty,max=128,printascii"`
	UserID   string `json:"userId,omitempty" validate:"omitempty,max=128,printascii"`
	UserName string `json:"userName,omitempty" validate:"omitempty,max=100"`
	UserRole string `json:"userRole,omitempty" validate:"omitempty,max=32"`
	Content  string `json:"content"`
}

func (h *SocialHandler) decodeLike(w http.ResponseWriter, r *http.Request) (commands.LikePhotoCommand, bool) {
	var req LikeRequest
	if err := common.ParseJSONBody(w, r, &req, common.DefaultMaxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return commands.LikePhotoCommand{}, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return commands.LikePhotoCommand{}, false
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = callerFrom(r).UserID
	}
	return commands.LikePhotoCommand{PhotoID: strings.TrimSpace(req.PhotoID), UserID: userID}, true
}

// LikePhoto handles POST /like
func (h *SocialHandler) LikePhoto(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.decodeLike(w, r)
	if !ok {
		return
	}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to like photo")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// UnlikePhoto handles POST /unlike
func (h *SocialHandler) UnlikePhoto(w http.ResponseWriter, r *http.Request) {
	like, ok := h.decodeLike(w, r)
	if !ok {
		return
	}
	result, err := h.commandBus.Send(r.Context(), commands.UnlikePhotoCommand(like))
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to unlike photo")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetLikes handles GET /likes. The photo comes from x-photo-id and the
// optional user from x-user-id.
func (h *SocialHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("x-user-id"))
	if userID == "" {
		userID = callerFrom(r).UserID
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetLikesQuery{PhotoID: photoIDFrom(r), UserID: userID})
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to fetch likes")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ListComments handles GET /comments
func (h *SocialHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListCommentsQuery{PhotoID: photoIDFrom(r)})
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to fetch comments")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// CreateComment handles POST /comment
func (h *SocialHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := common.ParseJSONBody(w, r, &req, common.DefaultMaxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.CreateCommentCommand{
		PhotoID:  strings.TrimSpace(req.PhotoID),
		UserID:   strings.TrimSpace(req.UserID),
		UserName: req.UserName,
		UserRole: req.UserRole,
		Content:  req.Content,
	}
	if caller := callerFrom(r); cmd.UserID == "" && caller.Authenticated() {
		cmd.UserID = caller.UserID
		if cmd.UserName == "" {
			cmd.UserName = caller.Name
		}
		if cmd.UserRole == "" {
			cmd.UserRole = caller.Role.String()
		}
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to create comment")
		return
	}
	common.RespondJSON(w, http.StatusCreated, result)
}

// DeleteComment handles DELETE /comment/{id}
func (h *SocialHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteCommentCommand{Caller: callerFrom(r), CommentID: chi.URLParam(r, "id")}
	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.HandleOp(w, r, err, "Failed to delete comment")
		return
	}
	common.RespondNoContent(w)
}
