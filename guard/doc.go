// Package guard enforces the access policy on every navigation to a protected route.
//
// A [Guard] reports Loading until the session restore task has finished, then re-reads
// the current session on each evaluation and applies the route's descriptor. Once the
// guard is ready it never reports Loading again.
package guard
