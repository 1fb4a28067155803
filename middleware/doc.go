// Package middleware exposes the HTTP guard that protects admin routes with
// adminauth.Engine token validation.
//
// # Guards
//
//   - [Guard] — reads the Authorization header, validates the bearer token,
//     and injects the admin's user ID into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Validate.
//
// # What this package must NOT do
//
//   - Inspect or parse the token value (it is opaque).
//   - Distinguish absent, malformed, and expired tokens in responses.
//   - Make authorization decisions beyond pass/reject from Engine.Validate.
package middleware
