package member

import (
	"fmt"
	"strings"
)

// Grant is a tri-state override for one permission.
//
// GrantUnset means the role default applies; GrantAllow and GrantDeny take
// precedence over the role default for that permission only.
type Grant int

const (
	// GrantUnset defers to the member's role default.
	GrantUnset Grant = iota
	// GrantAllow explicitly grants the permission.
	GrantAllow
	// GrantDeny explicitly denies the permission.
	GrantDeny
)

// GrantLabel returns a stable label for a grant.
func GrantLabel(grant Grant) string {
	switch grant {
	case GrantAllow:
		return "ALLOW"
	case GrantDeny:
		return "DENY"
	default:
		return "UNSET"
	}
}

// GrantFromLabel parses a string label into a Grant.
// Empty input parses as GrantUnset.
func GrantFromLabel(value string) (Grant, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return GrantUnset, nil
	}
	upper := strings.ToUpper(trimmed)
	switch upper {
	case "UNSET":
		return GrantUnset, nil
	case "ALLOW", "GRANT", "TRUE":
		return GrantAllow, nil
	case "DENY", "FALSE":
		return GrantDeny, nil
	default:
		return GrantUnset, fmt.Errorf("unknown grant: %s", trimmed)
	}
}

// IsValidGrant reports whether the grant is a defined value.
func IsValidGrant(grant Grant) bool {
	switch grant {
	case GrantUnset, GrantAllow, GrantDeny:
		return true
	default:
		return false
	}
}

// Overrides holds the per-member explicit grants, one tri-state slot per
// defined permission. The fixed shape keeps override lookups exhaustive over
// the closed permission enumeration.
type Overrides struct {
	ViewEntities   Grant
	CreateEntities Grant
	EditEntities   Grant
	DeleteEntities Grant
	ManageMembers  Grant
}

// Grant returns the override slot for a permission.
// Unknown permissions report GrantUnset.
func (o Overrides) Grant(permission Permission) Grant {
	switch permission {
	case PermissionViewEntities:
		return o.ViewEntities
	case PermissionCreateEntities:
		return o.CreateEntities
	case PermissionEditEntities:
		return o.EditEntities
	case PermissionDeleteEntities:
		return o.DeleteEntities
	case PermissionManageMembers:
		return o.ManageMembers
	default:
		return GrantUnset
	}
}

// WithGrant returns a copy of the overrides with one slot replaced.
func (o Overrides) WithGrant(permission Permission, grant Grant) (Overrides, error) {
	switch permission {
	case PermissionViewEntities:
		o.ViewEntities = grant
	case PermissionCreateEntities:
		o.CreateEntities = grant
	case PermissionEditEntities:
		o.EditEntities = grant
	case PermissionDeleteEntities:
		o.DeleteEntities = grant
	case PermissionManageMembers:
		o.ManageMembers = grant
	default:
		return Overrides{}, fmt.Errorf("unknown permission: %d", permission)
	}
	return o, nil
}

// IsZero reports whether no override slot is set.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// ValidateOverrides checks that every override slot holds a defined grant.
func ValidateOverrides(overrides Overrides) error {
	for _, permission := range AllPermissions() {
		if !IsValidGrant(overrides.Grant(permission)) {
			return fmt.Errorf("invalid grant for %s", PermissionLabel(permission))
		}
	}
	return nil
}
