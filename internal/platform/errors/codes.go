// Package errors provides structured error handling for Lorekeep services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Campaign errors
	CodeCampaignNameEmpty    Code = "CAMPAIGN_NAME_EMPTY"
	CodeCampaignOwnerMissing Code = "CAMPAIGN_OWNER_MISSING"

	// Member errors
	CodeMemberEmptyCampaignID  Code = "MEMBER_EMPTY_CAMPAIGN_ID"
	CodeMemberEmptyUserID      Code = "MEMBER_EMPTY_USER_ID"
	CodeMemberInvalidRole      Code = "MEMBER_INVALID_ROLE"
	CodeMemberInvalidGrant     Code = "MEMBER_INVALID_GRANT"
	CodeMemberAlreadyExists    Code = "MEMBER_ALREADY_EXISTS"
	CodeMemberOwnerConflict    Code = "MEMBER_OWNER_CONFLICT"
	CodeMemberOwnerIrremovable Code = "MEMBER_OWNER_IRREMOVABLE"
	CodeMemberUpdateEmpty      Code = "MEMBER_UPDATE_EMPTY"

	// Entity errors
	CodeEntityEmptyCampaignID Code = "ENTITY_EMPTY_CAMPAIGN_ID"
	CodeEntityEmptyName       Code = "ENTITY_EMPTY_NAME"
	CodeEntityInvalidKind     Code = "ENTITY_INVALID_KIND"
	CodeEntityCreatorMissing  Code = "ENTITY_CREATOR_MISSING"
	CodeEntityUpdateEmpty     Code = "ENTITY_UPDATE_EMPTY"

	// Permission parsing errors
	CodePermissionInvalid Code = "PERMISSION_INVALID"

	// Storage errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeStorageFailure Code = "STORAGE_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes for the REST surface.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeCampaignNameEmpty,
		CodeCampaignOwnerMissing,
		CodeMemberEmptyCampaignID,
		CodeMemberEmptyUserID,
		CodeMemberInvalidRole,
		CodeMemberInvalidGrant,
		CodeMemberUpdateEmpty,
		CodeEntityEmptyCampaignID,
		CodeEntityEmptyName,
		CodeEntityInvalidKind,
		CodeEntityCreatorMissing,
		CodeEntityUpdateEmpty,
		CodePermissionInvalid:
		return http.StatusBadRequest

	// Unauthorized - no authenticated caller at all
	case CodeUnauthenticated:
		return http.StatusUnauthorized

	// Forbidden - authenticated caller lacks the required permission, or the
	// operation is refused outright (the owner can never be removed)
	case CodePermissionDenied,
		CodeMemberOwnerIrremovable:
		return http.StatusForbidden

	// Not found
	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - the membership row already exists or may not be created
	case CodeMemberAlreadyExists,
		CodeMemberOwnerConflict:
		return http.StatusConflict

	// Internal - backing store failed or code is unknown
	case CodeStorageFailure, CodeUnknown:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
