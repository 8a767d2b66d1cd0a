// Package jwt signs and verifies persisted session records as compact JWTs so a record
// edited outside the process is detected on restore and treated as absent.
//
// Records carry no expiry: a session lives until logout. Only the issued-at claim is
// checked, and only against the configured future-skew bound.
package jwt
