// Package members is the read-only member directory behind the user management view.
package members
