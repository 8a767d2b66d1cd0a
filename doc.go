// Package goNexus is the core of the Nexus admin shell: one persisted session per
// process, a mock role-selection login, and a route guard that decides whether the
// current identity may see a view.
//
// An [Engine] is built once through [Builder.Build] and started with [Engine.Start],
// which restores the session left by a previous process. Engine methods are safe to call
// from multiple goroutines.
//
// # Architecture boundaries
//
// goNexus wires the leaf packages together. identity owns the Role and Identity types,
// session owns the persisted record, policy owns the pure access decision and the route
// table, and guard turns a decision into a navigation outcome. Audit dispatch and metric
// storage live under internal/.
//
// # What this package must NOT do
//
//   - Hold more than one active session.
//   - Change the role of a live session. A role change is a new login.
//   - Let memory and storage disagree: login and logout write storage first and change
//     neither when storage fails.
//   - Commit a login whose context was cancelled.
package goNexus
