package handlers

import (
	"context"
	"net/http"

	"photoshare/application/services"
	"photoshare/domain/core/valueobjects"
	"photoshare/pkg/common"
	pkgerrors "photoshare/pkg/errors"
	"photoshare/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator is the account use case surface used by AuthHandler
type Authenticator interface {
	SignUp(ctx context.Context, creds services.Credentials, role valueobjects.Role) (*services.SignUpResult, error)
	SignIn(ctx context.Context, creds services.Credentials) (*services.SignInResult, error)
}

// AuthHandler handles sign-up and sign-in
type AuthHandler struct {
	auth   Authenticator
	errs   *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, errs: errs, logger: logger}
}

// CredentialsRequest bounds what is accepted before hashing
type CredentialsRequest struct {
	Email    string `json:"email" validate:"omitempty,max=254"`
	Password string `json:"password" validate:"omitempty,max=128"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request) (services.Credentials, bool) {
	var req CredentialsRequest
	if err := common.ParseJSONBody(w, r, &req, common.DefaultMaxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return services.Credentials{}, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, err)
		return services.Credentials{}, false
	}
	return services.Credentials(req), true
}

// SignUpConsumer handles POST /signup-consumer
func (h *AuthHandler) SignUpConsumer(w http.ResponseWriter, r *http.Request) {
	h.signUp(w, r, valueobjects.RoleConsumer, "Failed to register user (Consumer).")
}

// SignUpCreator handles POST /signup-creator
func (h *AuthHandler) SignUpCreator(w http.ResponseWriter, r *http.Request) {
	h.signUp(w, r, valueobjects.RoleCreator, "Failed to register user (Creator).")
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request, role valueobjects.Role, failure string) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.auth.SignUp(r.Context(), creds, role)
	if err != nil {
		h.errs.HandleOp(w, r, err, failure)
		return
	}
	common.RespondJSON(w, http.StatusCreated, result)
}

// SignIn handles POST /signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.auth.SignIn(r.Context(), creds)
	if err != nil {
		h.errs.HandleOp(w, r, err, "Failed to sign in.")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
