// Package permission maps named capabilities to bits of a [Mask64] and composes
// per-role capability masks.
//
// Route access is decided by the policy package from roles alone. Capabilities refine
// what a permitted identity may do inside a view, such as writing inventory.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O.
//
// # What this package must NOT do
//
//   - Access storage or the network.
//   - Import goNexus, session, or policy.
//   - Change a role's mask after [RoleManager.Freeze].
package permission
