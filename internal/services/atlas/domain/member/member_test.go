package member

import (
	"errors"
	"testing"
	"time"
)

func TestRoleFromLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    Role
		wantErr bool
	}{
		{name: "short viewer", value: "VIEWER", want: RoleViewer},
		{name: "prefixed member", value: "ROLE_MEMBER", want: RoleMember},
		{name: "lowercase admin", value: "admin", want: RoleAdmin},
		{name: "padded", value: "  member  ", want: RoleMember},
		{name: "empty", value: "", wantErr: true},
		{name: "unknown", value: "OWNER", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := RoleFromLabel(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("RoleFromLabel(%q) expected error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("RoleFromLabel(%q): %v", tt.value, err)
			}
			if got != tt.want {
				t.Fatalf("role = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleLabelRoundTrip(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleViewer, RoleMember, RoleAdmin} {
		parsed, err := RoleFromLabel(RoleLabel(role))
		if err != nil {
			t.Fatalf("parse label for role %v: %v", role, err)
		}
		if parsed != role {
			t.Fatalf("round trip role = %v, want %v", parsed, role)
		}
	}
}

func TestParsePermissionNormalizesAliases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    Permission
		wantErr bool
	}{
		{name: "fine grained view", value: "VIEW_ENTITIES", want: PermissionViewEntities},
		{name: "coarse read", value: "READ", want: PermissionViewEntities},
		{name: "coarse create", value: "create", want: PermissionCreateEntities},
		{name: "coarse edit", value: "EDIT", want: PermissionEditEntities},
		{name: "coarse delete", value: "DELETE", want: PermissionDeleteEntities},
		{name: "members", value: "MEMBERS", want: PermissionManageMembers},
		{name: "manage members", value: "MANAGE_MEMBERS", want: PermissionManageMembers},
		{name: "empty", value: "", wantErr: true},
		{name: "unknown", value: "EXPORT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePermission(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePermission(%q) expected error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePermission(%q): %v", tt.value, err)
			}
			if got != tt.want {
				t.Fatalf("permission = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllPermissionsCoversEnumeration(t *testing.T) {
	t.Parallel()

	permissions := AllPermissions()
	if len(permissions) != 5 {
		t.Fatalf("permission count = %d, want 5", len(permissions))
	}
	seen := map[Permission]bool{}
	for _, permission := range permissions {
		if !IsValidPermission(permission) {
			t.Fatalf("permission %v should be valid", permission)
		}
		if seen[permission] {
			t.Fatalf("permission %v listed twice", permission)
		}
		seen[permission] = true
	}
}

func TestOverridesGrantLookup(t *testing.T) {
	t.Parallel()

	overrides := Overrides{
		DeleteEntities: GrantAllow,
		EditEntities:   GrantDeny,
	}

	if got := overrides.Grant(PermissionDeleteEntities); got != GrantAllow {
		t.Fatalf("delete grant = %v, want %v", got, GrantAllow)
	}
	if got := overrides.Grant(PermissionEditEntities); got != GrantDeny {
		t.Fatalf("edit grant = %v, want %v", got, GrantDeny)
	}
	if got := overrides.Grant(PermissionViewEntities); got != GrantUnset {
		t.Fatalf("view grant = %v, want %v", got, GrantUnset)
	}
	if got := overrides.Grant(PermissionUnspecified); got != GrantUnset {
		t.Fatalf("unspecified grant = %v, want %v", got, GrantUnset)
	}
}

func TestOverridesWithGrant(t *testing.T) {
	t.Parallel()

	base := Overrides{}
	updated, err := base.WithGrant(PermissionManageMembers, GrantAllow)
	if err != nil {
		t.Fatalf("with grant: %v", err)
	}
	if updated.ManageMembers != GrantAllow {
		t.Fatalf("manage members grant = %v, want %v", updated.ManageMembers, GrantAllow)
	}
	if !base.IsZero() {
		t.Fatal("expected original overrides to be unchanged")
	}

	if _, err := base.WithGrant(PermissionUnspecified, GrantAllow); err == nil {
		t.Fatal("expected unknown permission to be rejected")
	}
}

func TestGrantFromLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    Grant
		wantErr bool
	}{
		{value: "", want: GrantUnset},
		{value: "UNSET", want: GrantUnset},
		{value: "allow", want: GrantAllow},
		{value: "TRUE", want: GrantAllow},
		{value: "deny", want: GrantDeny},
		{value: "FALSE", want: GrantDeny},
		{value: "MAYBE", wantErr: true},
	}

	for _, tt := range tests {
		got, err := GrantFromLabel(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("GrantFromLabel(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Fatalf("GrantFromLabel(%q): %v", tt.value, err)
		}
		if got != tt.want {
			t.Fatalf("GrantFromLabel(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestNewMemberValidatesInput(t *testing.T) {
	t.Parallel()

	valid := NewMemberInput{
		CampaignID: "campaign-1",
		UserID:     "user-1",
		Role:       RoleMember,
	}

	tests := []struct {
		name    string
		mutate  func(NewMemberInput) NewMemberInput
		wantErr error
	}{
		{
			name:   "missing campaign id",
			mutate: func(in NewMemberInput) NewMemberInput { in.CampaignID = "  "; return in },

			wantErr: ErrEmptyCampaignID,
		},
		{
			name:    "missing user id",
			mutate:  func(in NewMemberInput) NewMemberInput { in.UserID = ""; return in },
			wantErr: ErrEmptyUserID,
		},
		{
			name:    "unspecified role",
			mutate:  func(in NewMemberInput) NewMemberInput { in.Role = RoleUnspecified; return in },
			wantErr: ErrInvalidRole,
		},
		{
			name:    "out of range grant",
			mutate:  func(in NewMemberInput) NewMemberInput { in.Overrides.EditEntities = Grant(9); return in },
			wantErr: ErrInvalidGrant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewMember(tt.mutate(valid), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewMemberSetsTimestamps(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	created, err := NewMember(NewMemberInput{
		CampaignID: " campaign-1 ",
		UserID:     " user-1 ",
		Role:       RoleViewer,
		IsAdmin:    true,
	}, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("new member: %v", err)
	}
	if created.CampaignID != "campaign-1" || created.UserID != "user-1" {
		t.Fatalf("ids not trimmed: %q %q", created.CampaignID, created.UserID)
	}
	if !created.IsAdmin {
		t.Fatal("expected admin flag to persist")
	}
	if !created.CreatedAt.Equal(fixed) || !created.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps = %v/%v, want %v", created.CreatedAt, created.UpdatedAt, fixed)
	}
}
