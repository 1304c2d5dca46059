package member

import (
	"fmt"
	"strings"
)

// Permission is one discrete capability checked by the authorization policy.
type Permission int

const (
	// PermissionUnspecified represents an invalid permission value.
	PermissionUnspecified Permission = iota
	// PermissionViewEntities allows reading campaign entities.
	PermissionViewEntities
	// PermissionCreateEntities allows creating campaign entities.
	PermissionCreateEntities
	// PermissionEditEntities allows editing campaign entities.
	PermissionEditEntities
	// PermissionDeleteEntities allows deleting campaign entities.
	PermissionDeleteEntities
	// PermissionManageMembers allows adding, updating, and removing members.
	PermissionManageMembers
)

// AllPermissions lists every defined permission in declaration order.
func AllPermissions() []Permission {
	return []Permission{
		PermissionViewEntities,
		PermissionCreateEntities,
		PermissionEditEntities,
		PermissionDeleteEntities,
		PermissionManageMembers,
	}
}

// PermissionLabel returns a stable label for a permission.
func PermissionLabel(permission Permission) string {
	switch permission {
	case PermissionViewEntities:
		return "VIEW_ENTITIES"
	case PermissionCreateEntities:
		return "CREATE_ENTITIES"
	case PermissionEditEntities:
		return "EDIT_ENTITIES"
	case PermissionDeleteEntities:
		return "DELETE_ENTITIES"
	case PermissionManageMembers:
		return "MEMBERS"
	default:
		return "UNSPECIFIED"
	}
}

// ParsePermission parses a string label into a Permission.
//
// It trims whitespace and matches case-insensitively, accepting the
// fine-grained labels ("VIEW_ENTITIES") as well as the coarse aliases
// ("READ", "CREATE", "EDIT", "DELETE") used by older call sites. All
// aliases normalize into the one closed permission enumeration.
func ParsePermission(value string) (Permission, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PermissionUnspecified, fmt.Errorf("permission is required")
	}
	upper := strings.ToUpper(trimmed)
	switch upper {
	case "VIEW_ENTITIES", "READ", "VIEW":
		return PermissionViewEntities, nil
	case "CREATE_ENTITIES", "CREATE":
		return PermissionCreateEntities, nil
	case "EDIT_ENTITIES", "EDIT", "UPDATE":
		return PermissionEditEntities, nil
	case "DELETE_ENTITIES", "DELETE":
		return PermissionDeleteEntities, nil
	case "MEMBERS", "MANAGE_MEMBERS":
		return PermissionManageMembers, nil
	default:
		return PermissionUnspecified, fmt.Errorf("unknown permission: %s", trimmed)
	}
}

// IsValidPermission reports whether the permission is a defined, non-zero value.
func IsValidPermission(permission Permission) bool {
	switch permission {
	case PermissionViewEntities, PermissionCreateEntities, PermissionEditEntities,
		PermissionDeleteEntities, PermissionManageMembers:
		return true
	default:
		return false
	}
}
