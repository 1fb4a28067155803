// Package password derives and verifies salted PBKDF2-SHA512 password
// hashes.
//
// Unlike self-describing formats, the salt and the derived hash are stored
// as two separate hex strings on the user record and replaced together on
// every password change. Hashing is deterministic for a (password, salt)
// pair; salts are drawn fresh from crypto/rand so equal passwords never
// share a hash across users.
//
// # What this package must NOT do
//
//   - Persist anything. Storage of the salt/hash pair belongs to the user
//     provider.
//   - Short-circuit verification. Comparison is constant-time regardless of
//     where the first differing byte sits.
package password
