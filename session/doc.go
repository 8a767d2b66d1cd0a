// Package session holds the single active session of a process and persists it as one
// opaque record in a [kv.Store].
//
// # Record encoding
//
// Records are written by a [Codec]. [BinaryCodec] is a compact versioned layout;
// [SignedCodec] wraps the same fields in a signed JWT so an edited record is rejected.
// Any record that fails to decode is treated as absent.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [Session] model. It does NOT authenticate
// users, evaluate route policy, or produce HTTP responses.
//
// # What this package must NOT do
//
//   - Import goNexus, policy, guard or middleware (no upward imports).
//   - Return an error from [Store.Restore]: restore failures mean "signed out".
//   - Let memory and storage disagree after a failed write.
package session
