package member

import (
	"strings"
	"time"

	apperrors "github.com/ravencote/lorekeep/internal/platform/errors"
)

var (
	// ErrEmptyCampaignID indicates a missing campaign id.
	ErrEmptyCampaignID = apperrors.New(apperrors.CodeMemberEmptyCampaignID, "campaign id is required")
	// ErrEmptyUserID indicates a missing user id.
	ErrEmptyUserID = apperrors.New(apperrors.CodeMemberEmptyUserID, "user id is required")
	// ErrInvalidRole indicates a missing or invalid member role.
	ErrInvalidRole = apperrors.New(apperrors.CodeMemberInvalidRole, "member role is required")
	// ErrInvalidGrant indicates an out-of-range permission override.
	ErrInvalidGrant = apperrors.New(apperrors.CodeMemberInvalidGrant, "permission override is invalid")
)

// Member binds a user to a campaign with a role and optional overrides.
//
// The (CampaignID, UserID) pair is unique per campaign. The campaign owner is
// never represented as a member row; ownership is campaign metadata.
type Member struct {
	CampaignID string
	UserID     string
	Role       Role
	// IsAdmin grants every permission regardless of role or overrides.
	// Distinct from RoleAdmin: a flagged admin bypasses override denials too.
	IsAdmin   bool
	Overrides Overrides
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMemberInput describes the fields needed to create a member row.
type NewMemberInput struct {
	CampaignID string
	UserID     string
	Role       Role
	IsAdmin    bool
	Overrides  Overrides
}

// NewMember validates input and returns a member with timestamps set.
func NewMember(input NewMemberInput, now func() time.Time) (Member, error) {
	if now == nil {
		now = time.Now
	}

	normalized, err := NormalizeNewMemberInput(input)
	if err != nil {
		return Member{}, err
	}

	createdAt := now().UTC()
	return Member{
		CampaignID: normalized.CampaignID,
		UserID:     normalized.UserID,
		Role:       normalized.Role,
		IsAdmin:    normalized.IsAdmin,
		Overrides:  normalized.Overrides,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// NormalizeNewMemberInput trims and validates member input.
func NormalizeNewMemberInput(input NewMemberInput) (NewMemberInput, error) {
	input.CampaignID = strings.TrimSpace(input.CampaignID)
	if input.CampaignID == "" {
		return NewMemberInput{}, ErrEmptyCampaignID
	}
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return NewMemberInput{}, ErrEmptyUserID
	}
	if !IsValidRole(input.Role) {
		return NewMemberInput{}, ErrInvalidRole
	}
	if err := ValidateOverrides(input.Overrides); err != nil {
		return NewMemberInput{}, ErrInvalidGrant
	}
	return input, nil
}
