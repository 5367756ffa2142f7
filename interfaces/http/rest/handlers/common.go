package handlers

import (
	"net/http"
	"strings"

	"photoshare/application/commands"
	"photoshare/domain/core/valueobjects"
	"photoshare/pkg/auth"
)

// callerFrom maps the identity resolved by the middleware onto a command
// caller. Unknown roles are kept empty so role checks fail closed.
func callerFrom(r *http.Request) commands.Caller {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return commands.Caller{}
	}
	role, _ := valueobjects.ParseRole(user.Role)
	return commands.Caller{UserID: user.UserID, Name: user.Name, Role: role}
}

// photoIDFrom reads the photo id of read endpoints: the x-photo-id header,
// falling back to ?photoId
func photoIDFrom(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("x-photo-id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("photoId"))
}
