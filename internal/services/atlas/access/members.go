package access

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

// AddMemberInput describes the membership row to create.
type AddMemberInput struct {
	UserID    string
	Role      member.Role
	IsAdmin   bool
	Overrides member.Overrides
}

// MemberPatch carries partial membership updates. Nil fields are left
// untouched on the existing row.
type MemberPatch struct {
	Role      *member.Role
	IsAdmin   *bool
	Overrides *member.Overrides
}

// IsZero reports whether the patch changes nothing.
func (p MemberPatch) IsZero() bool {
	return p.Role == nil && p.IsAdmin == nil && p.Overrides == nil
}

// AddMember creates a membership row in a campaign.
//
// The acting user must hold the members permission. Adding the campaign
// owner is rejected: ownership already grants everything and is not
// represented as a row. Duplicate (campaign, user) pairs surface the
// store's uniqueness violation as a conflict.
func (a *Authorizer) AddMember(ctx context.Context, campaignID, actingUserID string, in AddMemberInput) (storage.MemberRecord, error) {
	if a == nil || a.store == nil {
		return storage.MemberRecord{}, apperrors.New(apperrors.CodeStorageFailure, "authorizer store is not configured")
	}
	if err := a.RequirePermission(ctx, campaignID, actingUserID, member.PermissionManageMembers); err != nil {
		return storage.MemberRecord{}, err
	}

	campaignRecord, err := a.loadCampaign(ctx, campaignID)
	if err != nil {
		return storage.MemberRecord{}, err
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == campaignRecord.OwnerID {
		return storage.MemberRecord{}, apperrors.New(apperrors.CodeMemberOwnerConflict, "campaign owner cannot be added as a member")
	}

	created, err := member.NewMember(member.NewMemberInput{
		CampaignID: campaignRecord.ID,
		UserID:     userID,
		Role:       in.Role,
		IsAdmin:    in.IsAdmin,
		Overrides:  in.Overrides,
	}, a.clock)
	if err != nil {
		return storage.MemberRecord{}, err
	}

	record := storage.MemberRecord{
		CampaignID: created.CampaignID,
		UserID:     created.UserID,
		Role:       created.Role,
		IsAdmin:    created.IsAdmin,
		Overrides:  created.Overrides,
		CreatedAt:  created.CreatedAt,
		UpdatedAt:  created.UpdatedAt,
	}
	if err := a.store.CreateMember(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.MemberRecord{}, apperrors.New(apperrors.CodeMemberAlreadyExists, "user is already a member of this campaign")
		}
		return storage.MemberRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "create member", err)
	}
	return record, nil
}

// UpdateMember applies a partial patch to an existing membership row.
func (a *Authorizer) UpdateMember(ctx context.Context, campaignID, targetUserID, actingUserID string, patch MemberPatch) (storage.MemberRecord, error) {
	if a == nil || a.store == nil {
		return storage.MemberRecord{}, apperrors.New(apperrors.CodeStorageFailure, "authorizer store is not configured")
	}
	if err := a.RequirePermission(ctx, campaignID, actingUserID, member.PermissionManageMembers); err != nil {
		return storage.MemberRecord{}, err
	}
	if patch.IsZero() {
		return storage.MemberRecord{}, apperrors.New(apperrors.CodeMemberUpdateEmpty, "member update requires at least one field")
	}

	existing, err := a.loadMember(ctx, campaignID, targetUserID)
	if err != nil {
		return storage.MemberRecord{}, err
	}

	updated := existing
	if patch.Role != nil {
		if !member.IsValidRole(*patch.Role) {
			return storage.MemberRecord{}, member.ErrInvalidRole
		}
		updated.Role = *patch.Role
	}
	if patch.IsAdmin != nil {
		updated.IsAdmin = *patch.IsAdmin
	}
	if patch.Overrides != nil {
		if err := member.ValidateOverrides(*patch.Overrides); err != nil {
			return storage.MemberRecord{}, member.ErrInvalidGrant
		}
		updated.Overrides = *patch.Overrides
	}
	updated.UpdatedAt = a.now()

	if err := a.store.UpdateMember(ctx, updated); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.MemberRecord{}, apperrors.New(apperrors.CodeNotFound, "member not found")
		}
		return storage.MemberRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "update member", err)
	}
	return updated, nil
}

// RemoveMember deletes a membership row.
//
// The campaign owner can never be removed, even when a stray row exists.
func (a *Authorizer) RemoveMember(ctx context.Context, campaignID, targetUserID, actingUserID string) error {
	if a == nil || a.store == nil {
		return apperrors.New(apperrors.CodeStorageFailure, "authorizer store is not configured")
	}
	if err := a.RequirePermission(ctx, campaignID, actingUserID, member.PermissionManageMembers); err != nil {
		return err
	}
	return a.removeMemberRow(ctx, campaignID, targetUserID)
}

// LeaveCampaign removes the caller's own membership row.
//
// Self-removal needs no members permission but still passes the owner guard:
// an owner cannot leave their own campaign.
func (a *Authorizer) LeaveCampaign(ctx context.Context, campaignID, userID string) error {
	if a == nil || a.store == nil {
		return apperrors.New(apperrors.CodeStorageFailure, "authorizer store is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	return a.removeMemberRow(ctx, campaignID, userID)
}

func (a *Authorizer) removeMemberRow(ctx context.Context, campaignID, targetUserID string) error {
	campaignRecord, err := a.loadCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	targetUserID = strings.TrimSpace(targetUserID)
	if targetUserID == "" {
		return apperrors.New(apperrors.CodeMemberEmptyUserID, "user id is required")
	}
	if targetUserID == campaignRecord.OwnerID {
		return apperrors.New(apperrors.CodeMemberOwnerIrremovable, "cannot remove campaign owner")
	}

	if err := a.store.DeleteMember(ctx, campaignRecord.ID, targetUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "member not found")
		}
		return apperrors.Wrap(apperrors.CodeStorageFailure, "delete member", err)
	}
	return nil
}

// ListMembers returns a campaign's members, highest role first, then by join
// time. Baseline campaign access is the caller's responsibility.
func (a *Authorizer) ListMembers(ctx context.Context, campaignID string) ([]storage.MemberRecord, error) {
	if a == nil || a.store == nil {
		return nil, apperrors.New(apperrors.CodeStorageFailure, "authorizer store is not configured")
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, apperrors.New(apperrors.CodeMemberEmptyCampaignID, "campaign id is required")
	}
	records, err := a.store.ListMembers(ctx, campaignID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailure, "list members", err)
	}
	return records, nil
}

func (a *Authorizer) loadCampaign(ctx context.Context, campaignID string) (storage.CampaignRecord, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return storage.CampaignRecord{}, apperrors.New(apperrors.CodeMemberEmptyCampaignID, "campaign id is required")
	}
	campaignRecord, err := a.store.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.CampaignRecord{}, apperrors.New(apperrors.CodeNotFound, "campaign not found")
		}
		return storage.CampaignRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "load campaign", err)
	}
	return campaignRecord, nil
}

func (a *Authorizer) loadMember(ctx context.Context, campaignID, userID string) (storage.MemberRecord, error) {
	campaignID = strings.TrimSpace(campaignID)
	userID = strings.TrimSpace(userID)
	if campaignID == "" {
		return storage.MemberRecord{}, apperrors.New(apperrors.CodeMemberEmptyCampaignID, "campaign id is required")
	}
	if userID == "" {
		return storage.MemberRecord{}, apperrors.New(apperrors.CodeMemberEmptyUserID, "user id is required")
	}
	record, err := a.store.GetMember(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.MemberRecord{}, apperrors.New(apperrors.CodeNotFound, "member not found")
		}
		return storage.MemberRecord{}, apperrors.Wrap(apperrors.CodeStorageFailure, "load member", err)
	}
	return record, nil
}
