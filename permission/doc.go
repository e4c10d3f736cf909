// Package permission defines the two flat roles recognised by mediaguard.
//
// # Architecture boundaries
//
// This package is a pure in-memory value type with no I/O. Session tokens,
// password-reset records and account lookups all share the [Role] type.
//
// # What this package must NOT do
//
//   - Grow into a policy engine: there are exactly two roles and no hierarchy.
//   - Import mediaguard, jwt, or session.
package permission
