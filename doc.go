// Package taskforge implements user accounts, JWT bearer authentication,
// and per-user todo items backed by a bun repository layer.
//
// The package holds the domain core: password hashing, the token
// service, principal resolution, ownership checks, and the user/todo
// repositories. The HTTP surface lives in the rest package and the
// runnable service in cmd/taskforge.
package taskforge
