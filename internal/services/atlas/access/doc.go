// Package access implements the campaign authorization engine.
//
// The Authorizer composes campaign ownership, membership rows, per-member
// overrides, and role defaults into allow/deny decisions, and owns the
// membership mutations that change that data. Permission checks are cheap
// point reads with no coordination; membership writes rely on the store's
// composite uniqueness constraint rather than read-then-write checks.
package access
