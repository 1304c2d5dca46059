package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	base := New(CodeMemberAlreadyExists, "member already exists")
	wrapped := fmt.Errorf("add member: %w", base)

	if !stderrors.Is(wrapped, New(CodeMemberAlreadyExists, "other message")) {
		t.Fatal("expected code match through wrapping")
	}
	if stderrors.Is(wrapped, New(CodeNotFound, "member already exists")) {
		t.Fatal("expected mismatch on different code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk is full")
	err := Wrap(CodeStorageFailure, "put member", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected unwrap to reach the cause")
	}
	if err.Error() != "put member" {
		t.Fatalf("message = %q, want %q", err.Error(), "put member")
	}
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	if got := GetCode(New(CodePermissionDenied, "denied")); got != CodePermissionDenied {
		t.Fatalf("code = %q, want %q", got, CodePermissionDenied)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
	if got := GetCode(fmt.Errorf("guard: %w", New(CodeUnauthenticated, "no caller"))); got != CodeUnauthenticated {
		t.Fatalf("code = %q, want %q", got, CodeUnauthenticated)
	}
}

func TestGetMetadata(t *testing.T) {
	t.Parallel()

	err := WithMetadata(CodePermissionDenied, "denied", map[string]string{"Reason": "DENY_NOT_MEMBER"})
	meta := GetMetadata(err)
	if meta["Reason"] != "DENY_NOT_MEMBER" {
		t.Fatalf("metadata reason = %q, want %q", meta["Reason"], "DENY_NOT_MEMBER")
	}
	if GetMetadata(stderrors.New("plain")) != nil {
		t.Fatal("expected nil metadata for plain error")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeMemberAlreadyExists, http.StatusConflict},
		{CodeMemberOwnerConflict, http.StatusConflict},
		// Removing the owner is a refusal, not a state conflict.
		{CodeMemberOwnerIrremovable, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeMemberInvalidRole, http.StatusBadRequest},
		{CodeStorageFailure, http.StatusInternalServerError},
		{Code("SOMETHING_NEW"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Fatalf("%s status = %d, want %d", tt.code, got, tt.want)
		}
	}
}
