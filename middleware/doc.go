// Package middleware adapts the route guard to net/http.
//
// # Guards
//
//   - [Guard] enforces one route descriptor.
//   - [GuardTable] looks the request path up in a route table.
//   - [RequireAuthenticated] admits any signed-in identity.
//   - [RequireCapability] checks a capability of the signed-in role.
//
// A permitted request carries the identity in its context ([IdentityFromContext]).
//
// # Architecture boundaries
//
// This package translates guard outcomes into HTTP responses. It does NOT decide
// access itself; decisions come from guard.Guard and permission.RoleManager.
//
// # What this package must NOT do
//
//   - Read or write the session store.
//   - Render views.
package middleware
