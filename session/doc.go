// Package session stores active admin bearer tokens.
//
// A token is valid iff it is present in the store AND the current time is
// not past its expiry. Absent and expired tokens are indistinguishable to
// callers: both surface [ErrTokenNotFound], and an expired entry is evicted
// on the validation touch that discovers it (lazy eviction).
//
// Two backends implement [Store]: [MemoryStore] for the single-process
// deployment the system was observed running, and [RedisStore] for
// multi-instance deployments that need a shared token space. Redis expires
// entries natively; the memory store relies on lazy eviction plus an
// optional background sweep.
package session
