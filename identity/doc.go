// Package identity defines the closed role enumeration and the immutable identity records
// that sessions, the access policy, and the view layer share.
//
// # Architecture boundaries
//
// This package is a leaf: it holds value types and their validating constructors only.
// It does NOT persist identities, authenticate them, or decide access.
//
// # What this package must NOT do
//
//   - Import goNexus, session, policy, or guard (no upward imports).
//   - Accept an [Identity] that did not pass through [New].
package identity
