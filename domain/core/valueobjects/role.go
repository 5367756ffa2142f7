package valueobjects

import (
	"fmt"
	"strings"
)

// Role is the account role of a user
type Role string

const (
	RoleCreator  Role = "creator"
	RoleConsumer Role = "consumer"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCreator:
		return RoleCreator, nil
	case RoleConsumer:
		return RoleConsumer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CanUpload reports whether the role may create photos
func (r Role) CanUpload() bool {
	return r == RoleCreator
}

// IsAdmin reports whether the role may moderate any content
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
