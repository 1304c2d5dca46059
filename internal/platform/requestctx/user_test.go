package requestctx

import (
	"context"
	"testing"
)

func TestWithUserIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "user-1")
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Fatalf("user id = %q, want %q", got, "user-1")
	}
}

func TestUserIDFromContextMissing(t *testing.T) {
	t.Parallel()

	if got := UserIDFromContext(context.Background()); got != "" {
		t.Fatalf("user id = %q, want empty", got)
	}
}

func TestWithUserIDNilContext(t *testing.T) {
	t.Parallel()

	var missing context.Context
	ctx := WithUserID(missing, "user-2")
	if got := UserIDFromContext(ctx); got != "user-2" {
		t.Fatalf("user id = %q, want %q", got, "user-2")
	}
}
