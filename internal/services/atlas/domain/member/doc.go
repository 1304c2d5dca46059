// Package member defines campaign membership records and the permission
// vocabulary used by the authorization policy.
//
// A member ties a user to a campaign with a role and an optional set of
// per-permission overrides. Roles provide the default permission envelope;
// overrides adjust individual permissions above or below that envelope.
package member
