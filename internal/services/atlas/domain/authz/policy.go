package authz

import (
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
)

// Decision is the outcome of one authorization evaluation.
type Decision struct {
	Allowed    bool
	ReasonCode string
}

// Reason codes attached to authorization decisions. Codes are stable
// machine-readable strings, not localized messages.
const (
	// ReasonAllowCampaignOwner indicates the actor owns the campaign.
	ReasonAllowCampaignOwner = "ALLOW_CAMPAIGN_OWNER"
	// ReasonAllowMemberAdmin indicates the member carries the admin flag.
	ReasonAllowMemberAdmin = "ALLOW_MEMBER_ADMIN"
	// ReasonAllowExplicitGrant indicates a per-member override granted access.
	ReasonAllowExplicitGrant = "ALLOW_EXPLICIT_GRANT"
	// ReasonAllowRoleDefault indicates the role's default set granted access.
	ReasonAllowRoleDefault = "ALLOW_ROLE_DEFAULT"
	// ReasonAllowResourceCreator indicates the actor created the resource.
	ReasonAllowResourceCreator = "ALLOW_RESOURCE_CREATOR"
	// ReasonDenyNotMember indicates the actor has no membership in the campaign.
	ReasonDenyNotMember = "DENY_NOT_MEMBER"
	// ReasonDenyExplicitDeny indicates a per-member override denied access.
	ReasonDenyExplicitDeny = "DENY_EXPLICIT_DENY"
	// ReasonDenyRoleDefault indicates the role's default set lacks the permission.
	ReasonDenyRoleDefault = "DENY_ROLE_DEFAULT"
)

// RoleDefaultPermissions returns the default permission set for a role.
//
// The mapping is total over defined roles and forms a strict ladder:
// each role includes the previous role's permissions. Membership management
// is reserved for the top role.
func RoleDefaultPermissions(role member.Role) []member.Permission {
	switch role {
	case member.RoleViewer:
		return []member.Permission{
			member.PermissionViewEntities,
		}
	case member.RoleMember:
		return []member.Permission{
			member.PermissionViewEntities,
			member.PermissionCreateEntities,
			member.PermissionEditEntities,
		}
	case member.RoleAdmin:
		return []member.Permission{
			member.PermissionViewEntities,
			member.PermissionCreateEntities,
			member.PermissionEditEntities,
			member.PermissionDeleteEntities,
			member.PermissionManageMembers,
		}
	default:
		return nil
	}
}

// RoleDefaultAllows reports whether a role's default set contains a permission.
func RoleDefaultAllows(role member.Role, permission member.Permission) bool {
	for _, granted := range RoleDefaultPermissions(role) {
		if granted == permission {
			return true
		}
	}
	return false
}

// Evaluation carries the loaded facts for one permission check.
type Evaluation struct {
	// Owner reports whether the actor owns the campaign.
	Owner bool
	// Member reports whether a membership row exists for the actor.
	Member bool
	// Role is the membership role; ignored when Member is false.
	Role member.Role
	// IsAdmin is the membership admin flag; ignored when Member is false.
	IsAdmin bool
	// Overrides are the membership's explicit grants; ignored when Member is false.
	Overrides member.Overrides
	// Permission is the capability being checked.
	Permission member.Permission
}

// Evaluate resolves one permission check.
//
// Resolution order, short-circuiting on first match: campaign owner, member
// existence, admin flag, explicit override, role default. An explicit deny
// beats a role grant and an explicit grant beats a role deny; the admin flag
// beats both.
func Evaluate(in Evaluation) Decision {
	if in.Owner {
		return Decision{Allowed: true, ReasonCode: ReasonAllowCampaignOwner}
	}
	if !in.Member {
		return Decision{Allowed: false, ReasonCode: ReasonDenyNotMember}
	}
	if in.IsAdmin {
		return Decision{Allowed: true, ReasonCode: ReasonAllowMemberAdmin}
	}
	switch in.Overrides.Grant(in.Permission) {
	case member.GrantAllow:
		return Decision{Allowed: true, ReasonCode: ReasonAllowExplicitGrant}
	case member.GrantDeny:
		return Decision{Allowed: false, ReasonCode: ReasonDenyExplicitDeny}
	}
	if RoleDefaultAllows(in.Role, in.Permission) {
		return Decision{Allowed: true, ReasonCode: ReasonAllowRoleDefault}
	}
	return Decision{Allowed: false, ReasonCode: ReasonDenyRoleDefault}
}

// CanEntityMutation resolves the entity-level creator bypass.
//
// The campaign-wide decision wins when it allows; otherwise the mutation is
// allowed when the actor authored the entity. Denied decisions keep their
// original reason so callers can surface why campaign-wide access failed.
func CanEntityMutation(campaignDecision Decision, actorID, creatorID string) Decision {
	if campaignDecision.Allowed {
		return campaignDecision
	}
	if actorID != "" && actorID == creatorID {
		return Decision{Allowed: true, ReasonCode: ReasonAllowResourceCreator}
	}
	return campaignDecision
}
