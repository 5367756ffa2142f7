package middleware

import (
	"errors"
	"net/http"
	"strings"

	"photoshare/pkg/auth"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// Headers set by the API gateway authorizer for already-verified callers
const (
	HeaderUserID   = "x-user-id"
	HeaderUserName = "x-user-name"
	HeaderUserRole = "x-user-role"
)

// TokenValidator verifies session tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Identity resolves the caller of a request and stores it in the request
// context. A bearer token wins over gateway headers; a bad token is rejected
// with 401. Requests without any identity pass through anonymously so that
// public routes keep working.
func Identity(tokens TokenValidator, trustHeaders bool, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				claims, err := tokens.Validate(token)
				if err != nil {
					logger.Debug("Rejected session token",
						zap.String("path", r.URL.Path),
						zap.Error(err),
					)
					errs.Handle(w, r, pkgerrors.NewUnauthorizedError(tokenFailure(err)))
					return
				}
				user := &auth.UserContext{
					UserID: claims.UserID,
					Email:  claims.Email,
					Name:   claims.Name,
					Role:   claims.Role,
				}
				next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
				return
			}

			if trustHeaders {
				if userID := strings.TrimSpace(r.Header.Get(HeaderUserID)); userID != "" {
					user := &auth.UserContext{
						UserID: userID,
						Name:   r.Header.Get(HeaderUserName),
						Role:   r.Header.Get(HeaderUserRole),
					}
					next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func tokenFailure(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}
