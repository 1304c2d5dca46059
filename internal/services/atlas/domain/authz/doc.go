// Package authz defines the campaign authorization policy.
//
// The package centralizes the owner/membership/override/role resolution order
// so transport handlers and services call one evaluator instead of duplicating
// permission checks. Everything here is pure: callers load campaign ownership
// and the member row, and the evaluator folds them into a Decision with a
// machine-readable reason code.
package authz
