package rest

import (
	"net/http"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
	"github.com/ravencote/lorekeep/internal/services/atlas/access"
	"github.com/ravencote/lorekeep/internal/services/atlas/domain/member"
	"github.com/ravencote/lorekeep/internal/services/atlas/storage"
)

type memberJSON struct {
	CampaignID string `json:"campaignId"`
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	IsAdmin    bool   `json:"isAdmin"`
	// Permissions lists only explicit overrides, keyed by permission label.
	Permissions map[string]string `json:"permissions,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

func memberToJSON(record storage.MemberRecord) memberJSON {
	out := memberJSON{
		CampaignID: record.CampaignID,
		UserID:     record.UserID,
		Role:       member.RoleLabel(record.Role),
		IsAdmin:    record.IsAdmin,
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  record.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, permission := range member.AllPermissions() {
		grant := record.Overrides.Grant(permission)
		if grant == member.GrantUnset {
			continue
		}
		if out.Permissions == nil {
			out.Permissions = map[string]string{}
		}
		out.Permissions[member.PermissionLabel(permission)] = member.GrantLabel(grant)
	}
	return out
}

// overridesFromJSON folds a permission-label to grant-label map into the
// fixed override shape. Labels accept both naming styles via ParsePermission.
func overridesFromJSON(values map[string]string) (member.Overrides, error) {
	var overrides member.Overrides
	for label, grantLabel := range values {
		permission, err := member.ParsePermission(label)
		if err != nil {
			return member.Overrides{}, apperrors.Wrap(apperrors.CodePermissionInvalid, "parse permission", err)
		}
		grant, err := member.GrantFromLabel(grantLabel)
		if err != nil {
			return member.Overrides{}, apperrors.Wrap(apperrors.CodeMemberInvalidGrant, "parse grant", err)
		}
		overrides, err = overrides.WithGrant(permission, grant)
		if err != nil {
			return member.Overrides{}, apperrors.Wrap(apperrors.CodePermissionInvalid, "apply grant", err)
		}
	}
	return overrides, nil
}

type addMemberRequest struct {
	UserID      string            `json:"userId"`
	Role        string            `json:"role"`
	IsAdmin     bool              `json:"isAdmin"`
	Permissions map[string]string `json:"permissions"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var body addMemberRequest
	if err := decodeBody(r, &body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, string(apperrors.CodeUnknown), "invalid request body")
		return
	}
	role, err := member.RoleFromLabel(body.Role)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeMemberInvalidRole, "parse role", err))
		return
	}
	overrides, err := overridesFromJSON(body.Permissions)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.service.Authorizer().AddMember(r.Context(), r.PathValue("campaignID"), callerID(r), access.AddMemberInput{
		UserID:    body.UserID,
		Role:      role,
		IsAdmin:   body.IsAdmin,
		Overrides: overrides,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberToJSON(record))
}

type updateMemberRequest struct {
	Role        *string            `json:"role"`
	IsAdmin     *bool              `json:"isAdmin"`
	Permissions *map[string]string `json:"permissions"`
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	var body updateMemberRequest
	if err := decodeBody(r, &body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, string(apperrors.CodeUnknown), "invalid request body")
		return
	}

	var patch access.MemberPatch
	if body.Role != nil {
		role, err := member.RoleFromLabel(*body.Role)
		if err != nil {
			writeError(w, apperrors.Wrap(apperrors.CodeMemberInvalidRole, "parse role", err))
			return
		}
		patch.Role = &role
	}
	patch.IsAdmin = body.IsAdmin
	if body.Permissions != nil {
		overrides, err := overridesFromJSON(*body.Permissions)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.Overrides = &overrides
	}

	record, err := h.service.Authorizer().UpdateMember(r.Context(), r.PathValue("campaignID"), r.PathValue("userID"), callerID(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberToJSON(record))
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.Authorizer().RemoveMember(r.Context(), r.PathValue("campaignID"), r.PathValue("userID"), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) leaveCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Authorizer().LeaveCampaign(r.Context(), r.PathValue("campaignID"), callerID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("campaignID")
	authorizer := h.service.Authorizer()
	if err := authorizer.RequireCampaignAccess(r.Context(), campaignID, callerID(r)); err != nil {
		writeError(w, err)
		return
	}
	records, err := authorizer.ListMembers(r.Context(), campaignID)
	if err != nil {
		writeError(w, err)
		return
	}
	payload := struct {
		Members []memberJSON `json:"members"`
	}{Members: make([]memberJSON, 0, len(records))}
	for _, record := range records {
		payload.Members = append(payload.Members, memberToJSON(record))
	}
	writeJSON(w, http.StatusOK, payload)
}
