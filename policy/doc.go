// Package policy decides whether an identity may enter a route.
//
// [Decide] is a pure, total function of the signed-in identity and a route's allowed
// role set. It returns a plain [Decision]; turning a decision into a redirect is the
// caller's concern. The package also owns route descriptors, the route [Table] and the
// sidebar [Navigation], which is derived from the table rather than configured twice.
//
// # What this package must NOT do
//
//   - Read session state or perform I/O during a decision.
//   - Know about HTTP status codes or redirect URLs.
package policy
