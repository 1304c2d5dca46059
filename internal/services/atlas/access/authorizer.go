package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/authz"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

type campaignAndMemberStore interface {
	storage.CampaignStore
	storage.MemberStore
}

// Authorizer answers campaign permission checks and owns membership mutations.
type Authorizer struct {
	store campaignAndMemberStore
	clock func() time.Time
}

// NewAuthorizer creates an authorizer backed by campaign and member storage.
func NewAuthorizer(store campaignAndMemberStore) *Authorizer {
	return &Authorizer{
		store: store,
		clock: time.Now,
	}
}

func (a *Authorizer) now() time.Time {
	if a != nil && a.clock != nil {
		return a.clock().UTC()
	}
	return time.Now().UTC()
}

// evaluate loads campaign ownership and the member row, then resolves the
// permission through the policy. Owners skip the member lookup entirely.
func (a *Authorizer) evaluate(ctx context.Context, campaignID, userID string, permission member.Permission) (authz.Decision, error) {
	if a == nil || a.store == nil {
		return authz.Decision{}, apperrors.New(apperrors.CodeStorageFailure, "authorizer store is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return authz.Decision{}, apperrors.New(apperrors.CodeMemberEmptyCampaignID, "campaign id is required")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return authz.Decision{}, apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}

	campaignRecord, err := a.store.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return authz.Decision{}, apperrors.New(apperrors.CodeNotFound, "campaign not found")
		}
		return authz.Decision{}, apperrors.Wrap(apperrors.CodeStorageFailure, "load campaign", err)
	}

	evaluation := authz.Evaluation{
		Owner:      campaignRecord.OwnerID == userID,
		Permission: permission,
	}
	if evaluation.Owner {
		return authz.Evaluate(evaluation), nil
	}

	memberRecord, err := a.store.GetMember(ctx, campaignID, userID)
	switch {
	case err == nil:
		evaluation.Member = true
		evaluation.Role = memberRecord.Role
		evaluation.IsAdmin = memberRecord.IsAdmin
		evaluation.Overrides = memberRecord.Overrides
	case errors.Is(err, storage.ErrNotFound):
		// No membership row; the policy denies below.
	default:
		return authz.Decision{}, apperrors.Wrap(apperrors.CodeStorageFailure, "load member", err)
	}

	return authz.Evaluate(evaluation), nil
}

// HasPermission reports whether a user holds a permission in a campaign.
//
// The contract is false on any doubt: unknown campaign, unknown user,
// invalid permission, and storage failures all report false. Callers that
// need to distinguish error causes use RequirePermission instead.
func (a *Authorizer) HasPermission(ctx context.Context, campaignID, userID string, permission member.Permission) bool {
	if !member.IsValidPermission(permission) {
		return false
	}
	decision, err := a.evaluate(ctx, campaignID, userID, permission)
	if err != nil {
		return false
	}
	return decision.Allowed
}

// CanViewCampaign reports whether a user may view a campaign's entities.
func (a *Authorizer) CanViewCampaign(ctx context.Context, userID, campaignID string) bool {
	return a.HasPermission(ctx, campaignID, userID, member.PermissionViewEntities)
}

// RequireCampaignAccess fails unless the user is the campaign owner or has
// any membership row. Handlers call this as their baseline guard before
// reads that need no specific permission. Any membership row passes, even
// one whose overrides deny every permission.
func (a *Authorizer) RequireCampaignAccess(ctx context.Context, campaignID, userID string) error {
	decision, err := a.evaluate(ctx, campaignID, userID, member.PermissionViewEntities)
	if err != nil {
		return err
	}
	if decision.ReasonCode == authz.ReasonDenyNotMember {
		return forbidden(decision.ReasonCode, "user is not a member of this campaign")
	}
	return nil
}

// RequirePermission fails unless the user holds the permission in the campaign.
func (a *Authorizer) RequirePermission(ctx context.Context, campaignID, userID string, permission member.Permission) error {
	if !member.IsValidPermission(permission) {
		return apperrors.New(apperrors.CodePermissionInvalid, "unknown permission")
	}
	decision, err := a.evaluate(ctx, campaignID, userID, permission)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return forbidden(decision.ReasonCode, fmt.Sprintf("missing %s permission", member.PermissionLabel(permission)))
	}
	return nil
}

// CanModifyEntity reports whether a user may mutate one entity.
//
// Access is granted when the campaign-wide permission holds, when the user
// authored the entity, or when the user owns the campaign. The three-way
// check is evaluated once; callers observe only the combined allow/deny.
func (a *Authorizer) CanModifyEntity(ctx context.Context, campaignID, userID, createdByID string, permission member.Permission) (bool, error) {
	if !member.IsValidPermission(permission) {
		return false, apperrors.New(apperrors.CodePermissionInvalid, "unknown permission")
	}
	decision, err := a.evaluate(ctx, campaignID, userID, permission)
	if err != nil {
		return false, err
	}
	decision = authz.CanEntityMutation(decision, strings.TrimSpace(userID), strings.TrimSpace(createdByID))
	return decision.Allowed, nil
}

// forbidden builds a permission-denied error carrying a stable reason code.
func forbidden(reasonCode, message string) error {
	return apperrors.WithMetadata(apperrors.CodePermissionDenied, message, map[string]string{
		"Reason": reasonCode,
	})
}

// ForbiddenReason extracts the reason code from a permission-denied error.
// It returns an empty string for other errors.
func ForbiddenReason(err error) string {
	if !apperrors.IsCode(err, apperrors.CodePermissionDenied) {
		return ""
	}
	return apperrors.GetMetadata(err)["Reason"]
}
