// Package requestctx carries per-request caller identity through context.
//
// Identity is placed in context by the transport's authentication middleware and
// read back out exactly once at the handler boundary. The authorization engine
// itself never reaches into context: it takes the acting user id as an explicit
// parameter so decisions stay testable without transport plumbing.
package requestctx

import "context"

// userIDContextKey is the context key for authenticated user identity.
type userIDContextKey struct{}

// WithUserID stores a user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the user identifier stored in context.
// An empty result means the request carried no authenticated caller.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userIDContextKey{}).(string)
	return value
}
