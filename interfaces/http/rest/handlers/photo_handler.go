package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"photoshare/application/commands"
	"photoshare/application/commands/bus"
	"photoshare/application/queries"
	querybus "photoshare/application/queries/bus"
	"photoshare/domain/config"
	"photoshare/pkg/common"
	pkgerrors "photoshare/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartOverhead is the room left for form fields next to the file
const multipartOverhead = 1 << 20

// PhotoHandler handles photo HTTP requests
type PhotoHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *pkgerrors.ErrorHandler
	config     *config.DomainConfig
	logger     *zap.Logger
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *PhotoHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &PhotoHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		config:     cfg,
		logger:     logger,
	}
}

// ListPhotos handles GET /photos
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	params, err := common.ExtractPageParams(r, h.config.DefaultPage, h.config.DefaultPageSize)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListPhotosQuery{Page: params.Page, Limit: params.Limit})
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to fetch photos")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetPhoto handles GET /photo/{id}
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetPhotoQuery{PhotoID: chi.URLParam(r, "id")})
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to fetch photo")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetPhotoLikes handles GET /photo-likes
func (h *PhotoHandler) GetPhotoLikes(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetPhotoLikesQuery{PhotoID: photoIDFrom(r)})
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to fetch photo likes")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// CreatePhoto handles POST /photo. The body is multipart/form-data with a
// "file" part and title, caption, location and people fields.
func (h *PhotoHandler) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	// Reject before reading the upload
	if err := commands.AuthorizeUpload(caller); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errs.Handle(w, r, pkgerrors.NewValidationError("File is too large"))
			return
		}
		h.errs.Handle(w, r, pkgerrors.NewValidationError("File is required").WithCause(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	cmd := commands.CreatePhotoCommand{
		Caller:   caller,
		Title:    strings.TrimSpace(r.FormValue("title")),
		Caption:  r.FormValue("caption"),
		Location: strings.TrimSpace(r.FormValue("location")),
		People:   parsePeople(r.FormValue("people")),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.errs.HandleOp(w, r, readErr, "Failed to create photo")
			return
		}
		cmd.Image = data
		cmd.FileName = header.Filename
		cmd.ContentType = header.Header.Get("Content-Type")
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to create photo")
		return
	}
	common.RespondJSON(w, http.StatusCreated, result)
}

// DeletePhoto handles DELETE /photo/{id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeletePhotoCommand{Caller: callerFrom(r), PhotoID: chi.URLParam(r, "id")}
	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.HandleOp(w, r, err, "Failed to delete photo")
		return
	}
	common.RespondNoContent(w)
}

// parsePeople accepts either a JSON array or a comma separated list
func parsePeople(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			parts = strings.Split(strings.Trim(raw, "[]"), ",")
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	people := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(strings.TrimSpace(p), `"`); p != "" {
			people = append(people, p)
		}
	}
	if len(people) == 0 {
		return nil
	}
	return people
}
