// Package adminauth provides the admin session engine for the Nomad
// Treasures back-office: PBKDF2 credential verification, opaque bearer-token
// issuance with lazy expiry, idempotent revocation, and a single-use
// password-reset token lifecycle.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// adminauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (AdminProfile, LoginResult, MetricsSnapshot, AuditEvent).
// Token minting lives under internal/ and is never exported; token and
// reset-token persistence is pluggable through [session.Store] and
// [ResetStore].
//
// # What this package must NOT do
//
//   - Issue tokens that clients can decode for claims. Session tokens are
//     opaque random strings; their meaning exists only inside the store.
//   - Distinguish, in any caller-visible way, between a wrong password, an
//     unknown email, an expired token, and a token that never existed.
//   - Rate limit. Throttling login and reset traffic is the HTTP layer's
//     job; every Engine method is safe to call repeatedly.
package adminauth
