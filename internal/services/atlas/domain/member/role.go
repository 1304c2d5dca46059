package member

import (
	"fmt"
	"strings"
)

// Role describes a member's default permission bundle within a campaign.
type Role int

const (
	// RoleUnspecified represents an invalid role value.
	RoleUnspecified Role = iota
	// RoleViewer grants read-only access to campaign entities.
	RoleViewer
	// RoleMember grants entity viewing, creation, and editing.
	RoleMember
	// RoleAdmin grants every campaign permission, including membership management.
	RoleAdmin
)

// RoleLabel returns a stable label for a role.
func RoleLabel(role Role) string {
	switch role {
	case RoleViewer:
		return "VIEWER"
	case RoleMember:
		return "MEMBER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNSPECIFIED"
	}
}

// RoleFromLabel parses a string label into a Role.
// It trims whitespace and matches case-insensitively. Both short ("VIEWER")
// and prefixed ("ROLE_VIEWER") forms are accepted.
func RoleFromLabel(value string) (Role, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return RoleUnspecified, fmt.Errorf("role is required")
	}
	upper := strings.ToUpper(trimmed)
	switch upper {
	case "VIEWER", "ROLE_VIEWER":
		return RoleViewer, nil
	case "MEMBER", "ROLE_MEMBER":
		return RoleMember, nil
	case "ADMIN", "ROLE_ADMIN":
		return RoleAdmin, nil
	default:
		return RoleUnspecified, fmt.Errorf("unknown role: %s", trimmed)
	}
}

// IsValidRole reports whether the role is a defined, non-zero value.
func IsValidRole(role Role) bool {
	switch role {
	case RoleViewer, RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}
